package youtube

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"github.com/scheisemanich/news/internal/retry"
)

// Quota units per Data API call, per Google's published cost table.
const (
	quotaChannelsList      = 1
	quotaPlaylistItemsList = 1
	quotaVideosList        = 1
	quotaPlaylistItemWrite = 50
	quotaPlaylistInsert    = 50
)

// dailyQuota is the default daily quota for a Data API project.
const dailyQuota = 10000

// APIFetcher implements VideoFetcher using YouTube Data API v3.
// It tracks estimated quota usage so a scheduled run can log how close it is
// to exhausting the daily budget.
type APIFetcher struct {
	service     *youtube.Service
	RetryConfig *retry.Config

	mu             sync.Mutex
	estimatedQuota int
	lastQuotaReset time.Time
	quotaExhausted bool
}

// NewAPIFetcher creates a Data API-backed video fetcher.
func NewAPIFetcher(service *youtube.Service) *APIFetcher {
	cfg := retry.DefaultConfig()
	return &APIFetcher{
		service:        service,
		RetryConfig:    &cfg,
		estimatedQuota: dailyQuota,
		lastQuotaReset: time.Now(),
	}
}

// FetchChannel returns the channel's recent uploads, filtered by opts.
// It resolves the channel's uploads playlist, pages through it until the
// cutoff, hydrates durations and statistics, and applies the filters.
func (f *APIFetcher) FetchChannel(ctx context.Context, channelID string, opts *FetchOptions) ([]VideoInfo, error) {
	if f.exhausted() {
		return nil, &APIError{Op: "channels.list", Resource: channelID, Err: ErrQuotaExceeded}
	}

	uploadsID, channelTitle, err := f.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, &APIError{Op: "channels.list", Resource: channelID, Err: err}
	}

	videos, err := f.listRecentUploads(ctx, uploadsID, channelID, channelTitle, opts)
	if err != nil {
		return nil, &APIError{Op: "playlistItems.list", Resource: channelID, Err: err}
	}

	if err := f.hydrateDetails(ctx, videos); err != nil {
		return nil, &APIError{Op: "videos.list", Resource: channelID, Err: err}
	}

	return filterVideos(videos, opts), nil
}

// uploadsPlaylistID resolves a channel's uploads playlist ID and title.
func (f *APIFetcher) uploadsPlaylistID(ctx context.Context, channelID string) (string, string, error) {
	var playlistID, channelTitle string

	err := retry.Do(ctx, f.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
		call := f.service.Channels.List([]string{"contentDetails", "snippet"}).
			Id(channelID).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return err
		}
		f.trackQuotaUsage(quotaChannelsList)

		if len(resp.Items) == 0 {
			return ErrChannelNotFound
		}

		channel := resp.Items[0]
		playlistID = channel.ContentDetails.RelatedPlaylists.Uploads
		if channel.Snippet != nil {
			channelTitle = channel.Snippet.Title
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	return playlistID, channelTitle, nil
}

// listRecentUploads pages through an uploads playlist collecting videos
// published after the cutoff. Uploads playlists are ordered newest-first, so
// pagination stops at the first page whose items all predate the cutoff.
func (f *APIFetcher) listRecentUploads(ctx context.Context, playlistID, channelID, channelTitle string, opts *FetchOptions) ([]VideoInfo, error) {
	var videos []VideoInfo

	var cutoff time.Time
	maxResults := 0
	if opts != nil {
		cutoff = opts.PublishedAfter
		maxResults = opts.MaxResults
	}

	pageToken := ""
	for {
		if maxResults > 0 && len(videos) >= maxResults {
			videos = videos[:maxResults]
			break
		}

		pastCutoff := false
		err := retry.Do(ctx, f.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
			call := f.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(50).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return err
			}
			f.trackQuotaUsage(quotaPlaylistItemsList)

			var page []VideoInfo
			page, pastCutoff = collectRecentUploads(resp.Items, channelID, channelTitle, cutoff)
			videos = append(videos, page...)

			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, err
		}

		if pageToken == "" || pastCutoff {
			break
		}
	}

	return dedupVideos(videos), nil
}

// collectRecentUploads converts one page of uploads-playlist items, keeping
// only videos published at or after the cutoff. pastCutoff reports that the
// page had items and every one predates the cutoff; uploads playlists are
// newest-first, so the caller can stop paging at that point. A zero cutoff
// keeps everything.
func collectRecentUploads(items []*youtube.PlaylistItem, channelID, channelTitle string, cutoff time.Time) (videos []VideoInfo, pastCutoff bool) {
	pastCutoff = len(items) > 0
	for _, item := range items {
		video := VideoInfo{
			ChannelID:    channelID,
			ChannelTitle: channelTitle,
		}
		if item.ContentDetails != nil {
			video.ID = item.ContentDetails.VideoId
		}

		var published time.Time
		if item.Snippet != nil {
			video.Title = item.Snippet.Title
			video.Description = item.Snippet.Description
			video.Thumbnail = bestThumbnail(item.Snippet.Thumbnails)
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				published = t
			}
		}
		video.Published = published

		if !cutoff.IsZero() && published.Before(cutoff) {
			continue
		}
		pastCutoff = false
		videos = append(videos, video)
	}
	return videos, pastCutoff
}

// hydrateDetails fills in duration, statistics, and tags from videos.list,
// batching 50 IDs per call (the API limit).
func (f *APIFetcher) hydrateDetails(ctx context.Context, videos []VideoInfo) error {
	byID := make(map[string]*VideoInfo, len(videos))
	ids := make([]string, 0, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
		ids = append(ids, videos[i].ID)
	}

	for start := 0; start < len(ids); start += 50 {
		end := start + 50
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		err := retry.Do(ctx, f.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
			call := f.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
				Id(batch...).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return err
			}
			f.trackQuotaUsage(quotaVideosList)

			for _, item := range resp.Items {
				video, ok := byID[item.Id]
				if !ok {
					continue
				}
				if item.ContentDetails != nil {
					if d, err := parseISODuration(item.ContentDetails.Duration); err == nil {
						video.Duration = d
					} else {
						log.Printf("youtube: video %s: %v", item.Id, err)
					}
				}
				if item.Statistics != nil {
					video.ViewCount = int64(item.Statistics.ViewCount)
					video.LikeCount = int64(item.Statistics.LikeCount)
					video.CommentCount = int64(item.Statistics.CommentCount)
				}
				if item.Snippet != nil {
					video.Tags = item.Snippet.Tags
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// bestThumbnail prefers the high resolution thumbnail, falling back to default.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}

func (f *APIFetcher) retryConfig() retry.Config {
	if f.RetryConfig != nil {
		return *f.RetryConfig
	}
	return retry.DefaultConfig()
}

// trackQuotaUsage updates the estimated quota and checks if we've exhausted it.
func (f *APIFetcher) trackQuotaUsage(units int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Quota resets daily
	if time.Since(f.lastQuotaReset) > 24*time.Hour {
		f.estimatedQuota = dailyQuota
		f.lastQuotaReset = time.Now()
		f.quotaExhausted = false
		log.Printf("youtube: quota reset (new day)")
	}

	f.estimatedQuota -= units

	if f.estimatedQuota <= 0 && !f.quotaExhausted {
		log.Printf("youtube: estimated quota exhausted")
		f.quotaExhausted = true
	}
}

// EstimatedQuota returns the estimated remaining quota units.
func (f *APIFetcher) EstimatedQuota() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.estimatedQuota
}

// exhausted reports whether the estimated daily quota has been spent. Further
// channel fetches would only burn retries on quotaExceeded responses.
func (f *APIFetcher) exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quotaExhausted
}

// apiErrorClassifier determines if a Data API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrChannelNotFound),
		errors.Is(err, ErrPlaylistNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrQuotaExceeded),
		errors.Is(err, context.Canceled):
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 400, 401, 404:
			return false
		case 403:
			// 403 covers both hard permission errors and transient
			// rateLimitExceeded/quotaExceeded responses.
			for _, e := range gerr.Errors {
				if e.Reason == "rateLimitExceeded" || e.Reason == "quotaExceeded" {
					return true
				}
			}
			return false
		case 429, 500, 502, 503, 504:
			return true
		}
	}

	// Timeouts and unknown transport errors are retryable.
	return true
}
