package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type SubRegionRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.SubRegion, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.SubRegion, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.SubRegion, error)
}

type subRegionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubRegionRepo(db *gorm.DB, baseLog *logger.Logger) SubRegionRepo {
	repoLog := baseLog.With("repo", "SubRegionRepo")
	return &subRegionRepo{db: db, log: repoLog}
}

func (r *subRegionRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.SubRegion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.SubRegion
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *subRegionRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.SubRegion, error) {
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

	row := types.SubRegion{Name: name}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		// Unique index race: someone else created the name first.
		if again, fetchErr := r.GetByName(ctx, transaction, name); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}

func (r *subRegionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.SubRegion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SubRegion
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
