package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type CampaignRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string, rangeID *uint) (*types.Campaign, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, rangeID *uint) (*types.Campaign, error)
}

type campaignRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignRepo(db *gorm.DB, baseLog *logger.Logger) CampaignRepo {
	repoLog := baseLog.With("repo", "CampaignRepo")
	return &campaignRepo{db: db, log: repoLog}
}

// Campaign names repeat across ranges, so lookup is scoped by range when one
// is known.
func (r *campaignRepo) GetByName(ctx context.Context, tx *gorm.DB, name string, rangeID *uint) (*types.Campaign, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Where("lower(name) = lower(?)", name)
	if rangeID != nil {
		query = query.Where("range_id = ?", *rangeID)
	} else {
		query = query.Where("range_id IS NULL")
	}

	var row types.Campaign
	if err := query.First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *campaignRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, rangeID *uint) (*types.Campaign, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByName(ctx, transaction, name, rangeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := types.Campaign{Name: name, RangeID: rangeID}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name, rangeID); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}
