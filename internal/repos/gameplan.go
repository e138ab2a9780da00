package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type GamePlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.GamePlan) ([]*types.GamePlan, error)
	// DeleteByScope removes every fact row for exactly one
	// (country, period, business unit) scope and nothing else.
	DeleteByScope(ctx context.Context, tx *gorm.DB, scope types.ImportScope) error
	GetByScope(ctx context.Context, tx *gorm.DB, scope types.ImportScope) ([]*types.GamePlan, error)
	CountByScope(ctx context.Context, tx *gorm.DB, scope types.ImportScope) (int64, error)
}

type gamePlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGamePlanRepo(db *gorm.DB, baseLog *logger.Logger) GamePlanRepo {
	repoLog := baseLog.With("repo", "GamePlanRepo")
	return &gamePlanRepo{db: db, log: repoLog}
}

func scopeQuery(tx *gorm.DB, scope types.ImportScope) *gorm.DB {
	query := tx.Where("country_id = ? AND period_id = ?", scope.CountryID, scope.PeriodID)
	if scope.BusinessUnitID != nil {
		return query.Where("business_unit_id = ?", *scope.BusinessUnitID)
	}
	return query.Where("business_unit_id IS NULL")
}

func (r *gamePlanRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.GamePlan) ([]*types.GamePlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.GamePlan{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gamePlanRepo) DeleteByScope(ctx context.Context, tx *gorm.DB, scope types.ImportScope) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := scopeQuery(transaction.WithContext(ctx), scope).
		Delete(&types.GamePlan{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *gamePlanRepo) GetByScope(ctx context.Context, tx *gorm.DB, scope types.ImportScope) ([]*types.GamePlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GamePlan
	if err := scopeQuery(transaction.WithContext(ctx), scope).
		Order("row_index").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *gamePlanRepo) CountByScope(ctx context.Context, tx *gorm.DB, scope types.ImportScope) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := scopeQuery(transaction.WithContext(ctx).Model(&types.GamePlan{}), scope).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
