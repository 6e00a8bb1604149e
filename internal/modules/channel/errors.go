package channel

import "errors"

var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
)
