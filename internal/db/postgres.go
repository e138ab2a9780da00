package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
	"github.com/yungbote/mediaplan-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "mediaplan", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.SubRegion{},
		&types.Country{},
		&types.BusinessUnit{},
		&types.Category{},
		&types.Range{},
		&types.CategoryToRange{},
		&types.Campaign{},
		&types.MediaType{},
		&types.MediaSubtype{},
		&types.Period{},
		&types.GamePlan{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	fks := []struct {
		table, name, column, refTable string
	}{
		{"country", "fk_country_sub_region_id", "sub_region_id", "sub_region"},
		{"category", "fk_category_business_unit_id", "business_unit_id", "business_unit"},
		{"category_to_range", "fk_category_to_range_category_id", "category_id", "category"},
		{"category_to_range", "fk_category_to_range_range_id", "range_id", "range"},
		{"campaign", "fk_campaign_range_id", "range_id", "range"},
		{"media_subtype", "fk_media_subtype_media_type_id", "media_type_id", "media_type"},
		{"game_plan", "fk_game_plan_country_id", "country_id", "country"},
		{"game_plan", "fk_game_plan_period_id", "period_id", "period"},
		{"game_plan", "fk_game_plan_business_unit_id", "business_unit_id", "business_unit"},
	}
	for _, fk := range fks {
		stmt := fmt.Sprintf(`
			DO $$ BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE "%s"
					ADD CONSTRAINT "%s"
					FOREIGN KEY ("%s")
					REFERENCES "%s"("id");
				END IF;
			END $$;
		`, fk.name, fk.table, fk.name, fk.column, fk.refTable)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("Failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
