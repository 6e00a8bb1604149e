package channel

import (
	"context"

	"mediahub/internal/domain"
)

// UserReader — user lookups the graph engine joins against.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}

// SubscriptionStore — edge reads plus the toggle writes.
type SubscriptionStore interface {
	ListByChannel(ctx context.Context, channelID int64) ([]domain.Subscription, error)
	ListBySubscriber(ctx context.Context, subscriberID int64) ([]domain.Subscription, error)
	Exists(ctx context.Context, subscriberID, channelID int64) (bool, error)
	Create(ctx context.Context, subscriberID, channelID int64) (*domain.Subscription, error)
	Delete(ctx context.Context, subscriberID, channelID int64) (int64, error)
}

// VideoReader — watch history and the videos it references.
type VideoReader interface {
	ListWatchEntries(ctx context.Context, userID int64) ([]domain.WatchEntry, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Video, error)
}
