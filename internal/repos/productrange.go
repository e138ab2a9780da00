package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type RangeRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Range, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Range, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Range, error)
}

type rangeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRangeRepo(db *gorm.DB, baseLog *logger.Logger) RangeRepo {
	repoLog := baseLog.With("repo", "RangeRepo")
	return &rangeRepo{db: db, log: repoLog}
}

func (r *rangeRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Range, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Range
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *rangeRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Range, error) {
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

	row := types.Range{Name: name}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}

func (r *rangeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Range, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Range
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
