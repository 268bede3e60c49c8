// Package youtube provides YouTube Data API access for video aggregation
// and playlist synchronization.
package youtube

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentinel errors for YouTube API operations.
var (
	ErrChannelNotFound     = errors.New("youtube: channel not found")
	ErrPlaylistNotFound    = errors.New("youtube: playlist not found")
	ErrQuotaExceeded       = errors.New("youtube: quota exceeded")
	ErrCredentialsNotFound = errors.New("youtube: credential file not found")
	ErrInvalidCredentials  = errors.New("youtube: invalid credentials")
)

// VideoFetcher fetches recent videos from a channel's uploads.
type VideoFetcher interface {
	// FetchChannel returns the channel's recent uploads, filtered by opts.
	FetchChannel(ctx context.Context, channelID string, opts *FetchOptions) ([]VideoInfo, error)
}

// FetchOptions configures video fetching behavior.
type FetchOptions struct {
	// PublishedAfter filters videos to only those published after this time.
	// Zero time means no filter.
	PublishedAfter time.Time

	// MaxResults limits the number of videos returned per channel. 0 means no limit.
	MaxResults int

	// MinDuration filters out videos shorter than this. 0 means no filter.
	MinDuration time.Duration

	// Keywords restricts results to videos whose title or description matches
	// at least one keyword (case-insensitive). Empty means no filter.
	Keywords []string
}

// VideoInfo contains metadata about a YouTube video. It is populated from
// the API and never mutated afterwards.
type VideoInfo struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Title is the video title.
	Title string `json:"title"`

	// ChannelID is the YouTube channel ID (e.g., "UCupvZG-5ko_eiXAupbDfxWw").
	ChannelID string `json:"channel_id"`

	// ChannelTitle is the display name of the channel.
	ChannelTitle string `json:"channel_title"`

	// Description is the video description.
	Description string `json:"description,omitempty"`

	// Published is when the video was published.
	Published time.Time `json:"published_at"`

	// Duration is the video length.
	Duration time.Duration `json:"duration,omitempty"`

	// Thumbnail is the URL to the video thumbnail image.
	Thumbnail string `json:"thumbnail,omitempty"`

	// Tags are the video's tags, when exposed by the API.
	Tags []string `json:"tags,omitempty"`

	// ViewCount is the number of views at fetch time.
	ViewCount int64 `json:"view_count,omitempty"`

	// LikeCount is the number of likes at fetch time.
	LikeCount int64 `json:"like_count,omitempty"`

	// CommentCount is the number of comments at fetch time.
	CommentCount int64 `json:"comment_count,omitempty"`
}

// URL returns the full YouTube URL for this video.
func (v VideoInfo) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// APIError wraps API errors with context about what failed.
// Use errors.As() to extract this error type and get operation details:
//
//	var apiErr *youtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s failed for %s: %v\n", apiErr.Op, apiErr.Resource, apiErr.Err)
//	}
type APIError struct {
	// Op is the API operation ("channels.list", "playlistItems.insert", ...).
	Op string
	// Resource is the channel, playlist, or video the operation targeted.
	Resource string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the API error.
func (e *APIError) Error() string {
	return "youtube: " + e.Op + " " + e.Resource + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *APIError) Unwrap() error { return e.Err }

// AuthError wraps credential loading failures.
type AuthError struct {
	// Path is the credential file involved.
	Path string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the auth error.
func (e *AuthError) Error() string {
	return "youtube: auth " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *AuthError) Unwrap() error { return e.Err }

// filterVideos applies duration and keyword filters.
func filterVideos(videos []VideoInfo, opts *FetchOptions) []VideoInfo {
	if opts == nil || (opts.MinDuration <= 0 && len(opts.Keywords) == 0) {
		return videos
	}

	filtered := make([]VideoInfo, 0, len(videos))
	for _, v := range videos {
		if opts.MinDuration > 0 && v.Duration < opts.MinDuration {
			continue
		}
		if len(opts.Keywords) > 0 && !matchesAnyKeyword(v, opts.Keywords) {
			continue
		}
		filtered = append(filtered, v)
	}
	return filtered
}

// matchesAnyKeyword reports whether the video's title or description
// contains at least one keyword, case-insensitively.
func matchesAnyKeyword(v VideoInfo, keywords []string) bool {
	text := strings.ToLower(v.Title + " " + v.Description)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// dedupVideos removes duplicate video IDs, keeping first occurrence.
// Uploads playlists should not repeat IDs, but pagination bugs upstream have
// produced duplicates before and the snapshot requires unique IDs.
func dedupVideos(videos []VideoInfo) []VideoInfo {
	seen := make(map[string]struct{}, len(videos))
	out := videos[:0]
	for _, v := range videos {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out
}
