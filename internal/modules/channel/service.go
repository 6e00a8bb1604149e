package channel

import (
	"context"
	"errors"
	"strings"

	"mediahub/internal/domain"
	"mediahub/internal/pkg/pipeline"

	"gorm.io/gorm"
)

// Service answers viewer-relative questions about the social graph by running
// declarative pipelines (filter, lookup, derive, project) over the stores.
// Missing relations always come back empty, never as errors.
type Service struct {
	users  UserReader
	subs   SubscriptionStore
	videos VideoReader
}

func NewService(users UserReader, subs SubscriptionStore, videos VideoReader) *Service {
	return &Service{
		users:  users,
		subs:   subs,
		videos: videos,
	}
}

// channelRow is the working shape of the profile pipeline: the candidate user
// with joined edges and derived fields.
type channelRow struct {
	user         domain.User
	subscribers  []domain.Subscription
	subscribedTo []domain.Subscription
	isSubscribed bool
}

// GetChannelProfile builds the profile for a channel by username. viewerID
// parameterizes isSubscribed; nil means an anonymous viewer, for whom it is
// always false. Duplicate subscription edges are counted as stored.
func (s *Service) GetChannelProfile(ctx context.Context, username string, viewerID *int64) (*ChannelProfile, error) {
	seed, err := s.matchUser(ctx, username)
	if err != nil {
		return nil, err
	}

	rows, err := pipeline.Run(ctx, seed,
		pipeline.Lookup(func(ctx context.Context, row channelRow) (channelRow, error) {
			subs, err := s.subs.ListByChannel(ctx, row.user.ID)
			if err != nil {
				return row, err
			}
			row.subscribers = subs
			return row, nil
		}),
		pipeline.Lookup(func(ctx context.Context, row channelRow) (channelRow, error) {
			subs, err := s.subs.ListBySubscriber(ctx, row.user.ID)
			if err != nil {
				return row, err
			}
			row.subscribedTo = subs
			return row, nil
		}),
		pipeline.Derive(func(row channelRow) channelRow {
			if viewerID != nil {
				for _, sub := range row.subscribers {
					if sub.SubscriberID == *viewerID {
						row.isSubscribed = true
						break
					}
				}
			}
			return row
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrChannelNotFound
	}

	profiles := pipeline.Project(rows, func(row channelRow) ChannelProfile {
		var cover string
		if row.user.CoverImageURL != nil {
			cover = *row.user.CoverImageURL
		}
		return ChannelProfile{
			FullName:                  row.user.FullName,
			Username:                  row.user.Username,
			SubscribersCount:          len(row.subscribers),
			ChannelsSubscribedToCount: len(row.subscribedTo),
			IsSubscribed:              row.isSubscribed,
			AvatarURL:                 row.user.AvatarURL,
			CoverImageURL:             cover,
			Email:                     row.user.Email,
		}
	})
	return &profiles[0], nil
}

// matchUser is the filter stage seed: zero or one user by normalized
// username.
func (s *Service) matchUser(ctx context.Context, username string) ([]channelRow, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []channelRow{}, nil
		}
		return nil, err
	}
	return []channelRow{{user: *user}}, nil
}

// historyRow is the working shape of the watch-history pipeline.
type historyRow struct {
	entry domain.WatchEntry
	video *domain.Video
	owner *domain.User
}

// GetWatchHistory returns the viewer's watched videos in stored watch order,
// each with a one-level owner projection collapsed to a single optional
// object. An unknown viewer or empty history yields an empty slice.
func (s *Service) GetWatchHistory(ctx context.Context, viewerID int64) ([]WatchedVideo, error) {
	entries, err := s.videos.ListWatchEntries(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	seed := make([]historyRow, 0, len(entries))
	for _, entry := range entries {
		seed = append(seed, historyRow{entry: entry})
	}

	videosByID, err := s.videosByID(ctx, entries)
	if err != nil {
		return nil, err
	}

	rows, err := pipeline.Run(ctx, seed,
		pipeline.Lookup(func(ctx context.Context, row historyRow) (historyRow, error) {
			if v, ok := videosByID[row.entry.VideoID]; ok {
				row.video = &v
			}
			return row, nil
		}),
		// A dangling reference simply drops out of the result.
		pipeline.Match(func(row historyRow) bool { return row.video != nil }),
	)
	if err != nil {
		return nil, err
	}

	ownersByID, err := s.ownersByID(ctx, rows)
	if err != nil {
		return nil, err
	}
	rows, err = pipeline.Run(ctx, rows,
		pipeline.Lookup(func(ctx context.Context, row historyRow) (historyRow, error) {
			if owner, ok := ownersByID[row.video.OwnerID]; ok {
				row.owner = &owner
			}
			return row, nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pipeline.Project(rows, func(row historyRow) WatchedVideo {
		watched := WatchedVideo{
			ID:           row.video.ID,
			Title:        row.video.Title,
			Description:  row.video.Description,
			VideoURL:     row.video.VideoURL,
			ThumbnailURL: row.video.ThumbnailURL,
			Duration:     row.video.Duration,
			Views:        row.video.Views,
		}
		if row.owner != nil {
			watched.Owner = &VideoOwner{
				FullName:  row.owner.FullName,
				Username:  row.owner.Username,
				AvatarURL: row.owner.AvatarURL,
			}
		}
		return watched
	}), nil
}

func (s *Service) videosByID(ctx context.Context, entries []domain.WatchEntry) (map[int64]domain.Video, error) {
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.VideoID)
	}
	videos, err := s.videos.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	return byID, nil
}

func (s *Service) ownersByID(ctx context.Context, rows []historyRow) (map[int64]domain.User, error) {
	ids := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if !seen[row.video.OwnerID] {
			seen[row.video.OwnerID] = true
			ids = append(ids, row.video.OwnerID)
		}
	}
	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.User, len(owners))
	for _, owner := range owners {
		byID[owner.ID] = owner
	}
	return byID, nil
}

// ToggleSubscription follows the channel if no edge exists and unfollows it
// otherwise. Returns whether the viewer is subscribed afterwards.
func (s *Service) ToggleSubscription(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	if subscriberID == channelID {
		return false, ErrSelfSubscription
	}
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrChannelNotFound
		}
		return false, err
	}

	exists, err := s.subs.Exists(ctx, subscriberID, channelID)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err := s.subs.Delete(ctx, subscriberID, channelID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.subs.Create(ctx, subscriberID, channelID); err != nil {
		return false, err
	}
	return true, nil
}

// ListSubscribedChannels returns the channels the viewer follows.
func (s *Service) ListSubscribedChannels(ctx context.Context, subscriberID int64) ([]SubscribedChannel, error) {
	edges, err := s.subs.ListBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(edges))
	seen := make(map[int64]bool, len(edges))
	for _, edge := range edges {
		if !seen[edge.ChannelID] {
			seen[edge.ChannelID] = true
			ids = append(ids, edge.ChannelID)
		}
	}
	channels, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return pipeline.Project(channels, func(u domain.User) SubscribedChannel {
		return SubscribedChannel{
			ID:        u.ID,
			Username:  u.Username,
			FullName:  u.FullName,
			AvatarURL: u.AvatarURL,
		}
	}), nil
}
