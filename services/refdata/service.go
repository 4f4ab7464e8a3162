package refdata

import (
	"context"
	"time"

	"sporcu-lisans-takip/pkg/db/option"
	"sporcu-lisans-takip/pkg/errutil"
	"sporcu-lisans-takip/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Service manages the reference records licenses point at. It is plain CRUD:
// none of the license lifecycle rules live here.
type Service struct {
	db         *gorm.DB
	node       *snowflake.Node
	athletes   repository.Repository[Athlete]
	sports     repository.Repository[Sport]
	clubs      repository.Repository[Club]
	types      repository.Repository[LicenseType]
	categories repository.Repository[LicenseCategory]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:         p.DB,
		node:       p.Node,
		athletes:   repository.ProvideStore[Athlete](p.DB),
		sports:     repository.ProvideStore[Sport](p.DB),
		clubs:      repository.ProvideStore[Club](p.DB),
		types:      repository.ProvideStore[LicenseType](p.DB),
		categories: repository.ProvideStore[LicenseCategory](p.DB),
	}
}

func (s *Service) CreateAthlete(ctx context.Context, a *Athlete) (*Athlete, error) {
	if a.FirstName == "" || a.LastName == "" {
		return nil, errutil.ValidationFailed("athlete name is required")
	}
	a.ID = s.node.Generate().String()
	a.IsActive = true
	if err := s.athletes.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAthlete(ctx context.Context, id string) (*Athlete, error) {
	a, err := s.athletes.FindOne(ctx, &Athlete{ID: id, IsActive: true})
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errutil.NotFound("athlete not found")
	}
	return a, nil
}

func (s *Service) ListAthletes(ctx context.Context) ([]*Athlete, error) {
	return s.athletes.Find(ctx, &Athlete{IsActive: true},
		option.WithSortBy(option.QuerySortBy{Field: "last_name"}))
}

// DeactivateAthlete soft-deletes: existing licenses keep their reference, but
// new licenses can no longer be issued against the athlete.
func (s *Service) DeactivateAthlete(ctx context.Context, id string) error {
	a, err := s.athletes.FindOne(ctx, &Athlete{ID: id, IsActive: true})
	if err != nil {
		return err
	}
	if a == nil {
		return errutil.NotFound("athlete not found")
	}
	return s.athletes.Update(ctx, id, map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	})
}

func (s *Service) CreateSport(ctx context.Context, sp *Sport) (*Sport, error) {
	if sp.Name == "" {
		return nil, errutil.ValidationFailed("sport name is required")
	}
	sp.ID = s.node.Generate().String()
	sp.IsActive = true
	if err := s.sports.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *Service) GetSport(ctx context.Context, id string) (*Sport, error) {
	sp, err := s.sports.FindOne(ctx, &Sport{ID: id, IsActive: true})
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, errutil.NotFound("sport not found")
	}
	return sp, nil
}

func (s *Service) ListSports(ctx context.Context) ([]*Sport, error) {
	return s.sports.Find(ctx, &Sport{IsActive: true},
		option.WithSortBy(option.QuerySortBy{Field: "name"}))
}

func (s *Service) CreateClub(ctx context.Context, c *Club) (*Club, error) {
	if c.Name == "" {
		return nil, errutil.ValidationFailed("club name is required")
	}
	c.ID = s.node.Generate().String()
	c.IsActive = true
	if err := s.clubs.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListClubs(ctx context.Context) ([]*Club, error) {
	return s.clubs.Find(ctx, &Club{IsActive: true},
		option.WithSortBy(option.QuerySortBy{Field: "name"}))
}

func (s *Service) CreateLicenseType(ctx context.Context, t *LicenseType) (*LicenseType, error) {
	if t.Name == "" {
		return nil, errutil.ValidationFailed("license type name is required")
	}
	if t.ValidityPeriodDays <= 0 {
		return nil, errutil.ValidationFailed("validity period must be positive",
			errutil.WithDetails(errutil.Detail{Field: "validity_period_days", Message: "must be greater than zero"}))
	}
	t.ID = s.node.Generate().String()
	t.IsActive = true
	if err := s.types.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListLicenseTypes(ctx context.Context) ([]*LicenseType, error) {
	return s.types.Find(ctx, &LicenseType{IsActive: true},
		option.WithSortBy(option.QuerySortBy{Field: "name"}))
}

func (s *Service) CreateLicenseCategory(ctx context.Context, c *LicenseCategory) (*LicenseCategory, error) {
	if c.Name == "" {
		return nil, errutil.ValidationFailed("license category name is required")
	}
	c.ID = s.node.Generate().String()
	c.IsActive = true
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListLicenseCategories(ctx context.Context) ([]*LicenseCategory, error) {
	return s.categories.Find(ctx, &LicenseCategory{IsActive: true},
		option.WithSortBy(option.QuerySortBy{Field: "name"}))
}
