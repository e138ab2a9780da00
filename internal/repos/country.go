package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type CountryRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Country, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, subRegionID *uint) (*types.Country, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Country, error)
}

type countryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCountryRepo(db *gorm.DB, baseLog *logger.Logger) CountryRepo {
	repoLog := baseLog.With("repo", "CountryRepo")
	return &countryRepo{db: db, log: repoLog}
}

func (r *countryRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Country, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Country
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetOrCreateByName resolves a country name. An existing country keeps its
// current sub-region link; subRegionID only applies to newly created rows.
func (r *countryRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, subRegionID *uint) (*types.Country, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByName(ctx, transaction, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := types.Country{Name: name, SubRegionID: subRegionID}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}

func (r *countryRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Country, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Country
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
