package repository

import (
	"context"
	"time"

	"mediahub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, channelID int64) (*domain.Subscription, error) {
	sub := &domain.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete removes every edge for the pair and reports how many went away.
func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&domain.Subscription{})
	return tx.RowsAffected, tx.Error
}

func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count)
	return count > 0, tx.Error
}

// ListByChannel returns the edges whose target is the channel (its
// subscribers). An unknown channel yields an empty slice.
func (r *SubscriptionRepository) ListByChannel(ctx context.Context, channelID int64) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	tx := r.db.WithContext(ctx).Where("channel_id = ?", channelID).Find(&subs)
	return subs, tx.Error
}

// ListBySubscriber returns the edges originating from the user (the channels
// the user follows).
func (r *SubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberID int64) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	tx := r.db.WithContext(ctx).Where("subscriber_id = ?", subscriberID).Find(&subs)
	return subs, tx.Error
}
