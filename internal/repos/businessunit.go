package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type BusinessUnitRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.BusinessUnit, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.BusinessUnit, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.BusinessUnit, error)
}

type businessUnitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBusinessUnitRepo(db *gorm.DB, baseLog *logger.Logger) BusinessUnitRepo {
	repoLog := baseLog.With("repo", "BusinessUnitRepo")
	return &businessUnitRepo{db: db, log: repoLog}
}

func (r *businessUnitRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.BusinessUnit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.BusinessUnit
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *businessUnitRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.BusinessUnit, error) {
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

	row := types.BusinessUnit{Name: name}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}

func (r *businessUnitRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.BusinessUnit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BusinessUnit
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
