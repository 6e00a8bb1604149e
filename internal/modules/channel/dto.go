package channel

// ChannelProfile is the fixed field whitelist returned for a channel page.
type ChannelProfile struct {
	FullName                  string `json:"fullname"`
	Username                  string `json:"username"`
	SubscribersCount          int    `json:"subscribersCount"`
	ChannelsSubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
	AvatarURL                 string `json:"avatar"`
	CoverImageURL             string `json:"coverImage,omitempty"`
	Email                     string `json:"email"`
}

// VideoOwner is the one-level owner projection nested in watch history.
type VideoOwner struct {
	FullName  string `json:"fullname"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

// WatchedVideo is a history entry with its owner inlined as a single
// optional object.
type WatchedVideo struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	VideoURL     string      `json:"video_url"`
	ThumbnailURL string      `json:"thumbnail_url"`
	Duration     float64     `json:"duration"`
	Views        int64       `json:"views"`
	Owner        *VideoOwner `json:"owner,omitempty"`
}

// SubscribedChannel is a followed channel in list form.
type SubscribedChannel struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	AvatarURL string `json:"avatar"`
}
