package bootstrap

import (
	"context"
	"fmt"

	"sporcu-lisans-takip/pkg/config"
	"sporcu-lisans-takip/pkg/repository"
	"sporcu-lisans-takip/services/license"
	"sporcu-lisans-takip/services/refdata"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	node   *snowflake.Node
	config *config.Config
	types  repository.Repository[refdata.LicenseType]
	cats   repository.Repository[refdata.LicenseCategory]
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Config *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		node:   p.Node,
		config: p.Config,
		types:  repository.ProvideStore[refdata.LicenseType](p.DB),
		cats:   repository.ProvideStore[refdata.LicenseCategory](p.DB),
	}
}

// Migrate creates the schema and seeds the default license types and
// categories when the tables are empty. Safe to run on every start.
func (s *Service) Migrate() error {
	ctx := context.Background()

	if err := s.db.AutoMigrate(
		&refdata.Athlete{},
		&refdata.Sport{},
		&refdata.Club{},
		&refdata.LicenseType{},
		&refdata.LicenseCategory{},
		&license.License{},
		&license.LicenseHistory{},
	); err != nil {
		zap.L().Error("[bootstrap] migration failed", zap.Error(err))
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := s.seedLicenseTypes(ctx); err != nil {
		return err
	}

	return s.seedLicenseCategories(ctx)
}

func (s *Service) seedLicenseTypes(ctx context.Context) error {
	count, err := s.types.Count(ctx, &refdata.LicenseType{})
	if err != nil {
		return fmt.Errorf("failed to check license types: %w", err)
	}
	if count > 0 {
		zap.L().Info("[bootstrap] license types already seeded", zap.Int64("count", count))
		return nil
	}

	defaults := []refdata.LicenseType{
		{Name: "Annual", ValidityPeriodDays: 365},
		{Name: "Seasonal", ValidityPeriodDays: 180},
		{Name: "Trial", ValidityPeriodDays: 30},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range defaults {
			defaults[i].ID = s.node.Generate().String()
			defaults[i].IsActive = true
			if err := tx.Create(&defaults[i]).Error; err != nil {
				return fmt.Errorf("failed to seed license type %q: %w", defaults[i].Name, err)
			}
		}
		zap.L().Info("[bootstrap] seeded default license types", zap.Int("count", len(defaults)))
		return nil
	})
}

func (s *Service) seedLicenseCategories(ctx context.Context) error {
	count, err := s.cats.Count(ctx, &refdata.LicenseCategory{})
	if err != nil {
		return fmt.Errorf("failed to check license categories: %w", err)
	}
	if count > 0 {
		zap.L().Info("[bootstrap] license categories already seeded", zap.Int64("count", count))
		return nil
	}

	defaults := []refdata.LicenseCategory{
		{Name: "Amateur", Description: "Recreational and club-level competition"},
		{Name: "Professional", Description: "Professional competition"},
		{Name: "Youth", Description: "Under-18 competition"},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range defaults {
			defaults[i].ID = s.node.Generate().String()
			defaults[i].IsActive = true
			if err := tx.Create(&defaults[i]).Error; err != nil {
				return fmt.Errorf("failed to seed license category %q: %w", defaults[i].Name, err)
			}
		}
		zap.L().Info("[bootstrap] seeded default license categories", zap.Int("count", len(defaults)))
		return nil
	})
}
