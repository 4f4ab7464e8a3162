package refdata

import (
	"context"

	"sporcu-lisans-takip/pkg/repository"
	"sporcu-lisans-takip/services/license"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Resolver is the narrow read-only view the lifecycle engine holds on
// reference data. Soft-deleted records resolve as absent.
type Resolver struct {
	athletes   repository.Repository[Athlete]
	sports     repository.Repository[Sport]
	types      repository.Repository[LicenseType]
	categories repository.Repository[LicenseCategory]
}

type ResolverParams struct {
	fx.In
	DB *gorm.DB
}

func NewResolver(p ResolverParams) license.ReferenceResolver {
	return &Resolver{
		athletes:   repository.ProvideStore[Athlete](p.DB),
		sports:     repository.ProvideStore[Sport](p.DB),
		types:      repository.ProvideStore[LicenseType](p.DB),
		categories: repository.ProvideStore[LicenseCategory](p.DB),
	}
}

func (r *Resolver) AthleteExists(ctx context.Context, id string) (bool, error) {
	a, err := r.athletes.FindOne(ctx, &Athlete{ID: id, IsActive: true})
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

func (r *Resolver) SportExists(ctx context.Context, id string) (bool, error) {
	s, err := r.sports.FindOne(ctx, &Sport{ID: id, IsActive: true})
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

func (r *Resolver) LicenseCategoryExists(ctx context.Context, id string) (bool, error) {
	c, err := r.categories.FindOne(ctx, &LicenseCategory{ID: id, IsActive: true})
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

func (r *Resolver) LicenseTypeByID(ctx context.Context, id string) (*license.LicenseTypeRef, error) {
	t, err := r.types.FindOne(ctx, &LicenseType{ID: id, IsActive: true})
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	return &license.LicenseTypeRef{
		ID:                 t.ID,
		Name:               t.Name,
		ValidityPeriodDays: t.ValidityPeriodDays,
	}, nil
}
