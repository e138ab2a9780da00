package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

type MediaTypeRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.MediaType, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.MediaType, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.MediaType, error)
}

type mediaTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaTypeRepo(db *gorm.DB, baseLog *logger.Logger) MediaTypeRepo {
	repoLog := baseLog.With("repo", "MediaTypeRepo")
	return &mediaTypeRepo{db: db, log: repoLog}
}

func (r *mediaTypeRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.MediaType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.MediaType
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *mediaTypeRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.MediaType, error) {
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

	row := types.MediaType{Name: name}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}

func (r *mediaTypeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.MediaType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MediaType
	if err := transaction.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type MediaSubtypeRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string, mediaTypeID uint) (*types.MediaSubtype, error)
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, mediaTypeID uint) (*types.MediaSubtype, error)
}

type mediaSubtypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaSubtypeRepo(db *gorm.DB, baseLog *logger.Logger) MediaSubtypeRepo {
	repoLog := baseLog.With("repo", "MediaSubtypeRepo")
	return &mediaSubtypeRepo{db: db, log: repoLog}
}

// Subtype names are only unique within their media type, so the parent id is
// part of every lookup.
func (r *mediaSubtypeRepo) GetByName(ctx context.Context, tx *gorm.DB, name string, mediaTypeID uint) (*types.MediaSubtype, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.MediaSubtype
	if err := transaction.WithContext(ctx).
		Where("lower(name) = lower(?) AND media_type_id = ?", name, mediaTypeID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *mediaSubtypeRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string, mediaTypeID uint) (*types.MediaSubtype, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByName(ctx, transaction, name, mediaTypeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := types.MediaSubtype{Name: name, MediaTypeID: mediaTypeID}
	if createErr := transaction.WithContext(ctx).Create(&row).Error; createErr != nil {
		if again, fetchErr := r.GetByName(ctx, transaction, name, mediaTypeID); fetchErr == nil {
			return again, nil
		}
		return nil, createErr
	}
	return &row, nil
}
