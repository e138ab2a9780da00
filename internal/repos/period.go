package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type PeriodRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Period, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Period, error)
}

type periodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPeriodRepo(db *gorm.DB, baseLog *logger.Logger) PeriodRepo {
	repoLog := baseLog.With("repo", "PeriodRepo")
	return &periodRepo{db: db, log: repoLog}
}

func (r *periodRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Period, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Period
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *periodRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Period, error) {
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

	row := types.Period{Name: name}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}
