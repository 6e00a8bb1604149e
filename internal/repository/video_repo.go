package repository

import (
	"context"

	"mediahub/internal/domain"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	var v domain.Video
	tx := r.db.WithContext(ctx).First(&v, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &v, nil
}

func (r *VideoRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Video, error) {
	if len(ids) == 0 {
		return []domain.Video{}, nil
	}
	var videos []domain.Video
	tx := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos)
	return videos, tx.Error
}

// ListWatchEntries returns the user's history in stored watch order.
func (r *VideoRepository) ListWatchEntries(ctx context.Context, userID int64) ([]domain.WatchEntry, error) {
	var entries []domain.WatchEntry
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&entries)
	return entries, tx.Error
}

// AppendWatchEntry adds a video to the end of the user's history.
func (r *VideoRepository) AppendWatchEntry(ctx context.Context, userID, videoID int64) error {
	var maxPos *int
	if err := r.db.WithContext(ctx).Model(&domain.WatchEntry{}).
		Where("user_id = ?", userID).
		Select("MAX(position)").
		Scan(&maxPos).Error; err != nil {
		return err
	}
	pos := 0
	if maxPos != nil {
		pos = *maxPos + 1
	}
	return r.db.WithContext(ctx).Create(&domain.WatchEntry{
		UserID:   userID,
		VideoID:  videoID,
		Position: pos,
	}).Error
}
