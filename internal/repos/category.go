package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type CategoryRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Category, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, businessUnitID *uint) (*types.Category, error)
	// EnsureRangeLink adds a Category<->Range join row if it is not already
	// there. Existing links are never dropped.
	EnsureRangeLink(ctx context.Context, tx *gorm.DB, categoryID, rangeID uint) error
	ListRangeLinks(ctx context.Context, tx *gorm.DB, categoryID uint) ([]*types.CategoryToRange, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Category, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (r *categoryRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Category
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *categoryRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, businessUnitID *uint) (*types.Category, error) {
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

	row := types.Category{Name: name, BusinessUnitID: businessUnitID}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}

func (r *categoryRepo) EnsureRangeLink(ctx context.Context, tx *gorm.DB, categoryID, rangeID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var link types.CategoryToRange
	err := transaction.WithContext(ctx).
		Where("category_id = ? AND range_id = ?", categoryID, rangeID).
		First(&link).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	link = types.CategoryToRange{CategoryID: categoryID, RangeID: rangeID}
	if createErr := transaction.WithContext(ctx).Create(&link).Error; createErr != nil {
		// Composite unique index race: the link now exists, which is fine.
		var again types.CategoryToRange
		if fetchErr := transaction.WithContext(ctx).
			Where("category_id = ? AND range_id = ?", categoryID, rangeID).
			First(&again).Error; fetchErr == nil {
			return nil
		}
		return createErr
	}
	return nil
}

func (r *categoryRepo) ListRangeLinks(ctx context.Context, tx *gorm.DB, categoryID uint) ([]*types.CategoryToRange, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CategoryToRange
	if err := transaction.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Category
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
