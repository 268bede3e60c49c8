package storage

import (
	"time"

	"github.com/google/uuid"
)

// Video is one snapshot entry. The JSON field names are the snapshot file
// format consumed by downstream diffing and the HTML rendering; they do not
// change with internal refactors.
type Video struct {
	// ID is the YouTube video ID, unique within a snapshot.
	ID string `json:"id"`
	// Title is the video title.
	Title string `json:"title"`
	// Description is the video description.
	Description string `json:"description,omitempty"`
	// ChannelID is the YouTube channel ID.
	ChannelID string `json:"channel_id"`
	// ChannelTitle is the display name of the channel.
	ChannelTitle string `json:"channel_title"`
	// PublishedAt is when the video was published.
	PublishedAt time.Time `json:"published_at"`
	// DurationSeconds is the video length in seconds.
	DurationSeconds int `json:"duration_seconds,omitempty"`
	// Thumbnail is the URL to the video thumbnail image.
	Thumbnail string `json:"thumbnail,omitempty"`

	// ViewCount is the number of views at fetch time.
	ViewCount int64 `json:"view_count,omitempty"`
	// LikeCount is the number of likes at fetch time.
	LikeCount int64 `json:"like_count,omitempty"`
	// CommentCount is the number of comments at fetch time.
	CommentCount int64 `json:"comment_count,omitempty"`

	// QualityScore is the weighted quality score (0-1).
	QualityScore float64 `json:"quality_score,omitempty"`
	// ViralScore is the weighted viral score (0-1).
	ViralScore float64 `json:"viral_score,omitempty"`
	// TotalScore is the combined selection score (0-1).
	TotalScore float64 `json:"total_score,omitempty"`
}

// URL returns the full YouTube URL for this video.
func (v Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// RunRecord describes one pipeline run for the side log.
type RunRecord struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the run completed.
	FinishedAt time.Time `json:"finished_at,omitempty"`
	// Channels is the number of channels fetched.
	Channels int `json:"channels"`
	// Fetched is the number of videos retrieved before selection.
	Fetched int `json:"fetched"`
	// Selected is the size of the final snapshot.
	Selected int `json:"selected"`
	// Added and Removed are the snapshot diff counts against the previous run.
	Added   int `json:"added"`
	Removed int `json:"removed"`
	// PlaylistID is the playlist updated by this run, when the update step ran.
	PlaylistID string `json:"playlist_id,omitempty"`
}

// NewRunRecord starts a run record with a fresh ID.
func NewRunRecord() *RunRecord {
	return &RunRecord{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
}
