package domain

import "time"

// Subscription is a directed edge: SubscriberID follows ChannelID. Both sides
// are users. The table carries no uniqueness constraint on the pair, so
// duplicate edges are possible and counts reflect them.
type Subscription struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	SubscriberID int64     `json:"subscriber_id" gorm:"index"`
	ChannelID    int64     `json:"channel_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
}
