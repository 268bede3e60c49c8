// Package score ranks and selects fetched videos.
//
// Scored channels are ranked by a weighted quality/viral score; curated
// channels pass named rule filters instead. The weights mirror the editorial
// tuning the playlist has run with: quality carries 70% of the total.
package score

import (
	"strings"
	"time"

	"github.com/scheisemanich/news/youtube"
)

// Scores holds the computed scores for one video, all on a 0-1 scale.
type Scores struct {
	Quality float64 `json:"quality_score"`
	Viral   float64 `json:"viral_score"`
	Total   float64 `json:"total_score"`
}

// ScoredVideo is a fetched video with its computed scores.
type ScoredVideo struct {
	youtube.VideoInfo
	Scores
}

// Calculator computes quality and viral scores for videos.
type Calculator struct {
	// QualityKeywords feed the thematic relevance component.
	QualityKeywords []string
}

// NewCalculator creates a calculator with the given relevance keywords.
func NewCalculator(qualityKeywords []string) *Calculator {
	return &Calculator{QualityKeywords: qualityKeywords}
}

// Score computes all scores for a video. now anchors the recency and
// views-per-hour components so runs are reproducible under a pinned clock.
func (c *Calculator) Score(v youtube.VideoInfo, now time.Time) Scores {
	quality := c.qualityScore(v, now)
	viral := c.viralScore(v, now)
	return Scores{
		Quality: quality,
		Viral:   viral,
		Total:   0.7*quality + 0.3*viral,
	}
}

// qualityScore weights engagement 25%, comments 15%, length 20%, information
// depth 15%, recency 10%, and thematic relevance 15%.
func (c *Calculator) qualityScore(v youtube.VideoInfo, now time.Time) float64 {
	var engagement, comments float64
	if v.ViewCount > 0 {
		// Rates are per 10k views; 300 likes and 50 comments per 10k are
		// treated as ceiling values.
		engagement = clamp01(float64(v.LikeCount) / float64(v.ViewCount) * 10000 / 300)
		comments = clamp01(float64(v.CommentCount) / float64(v.ViewCount) * 10000 / 50)
	}

	var length float64
	minutes := v.Duration.Minutes()
	switch {
	case minutes >= 7 && minutes <= 20:
		length = 1.0
	case minutes >= 3 && minutes < 7:
		length = 0.7
	case minutes > 20:
		length = 0.8
	default:
		length = 0.2
	}

	tagsScore := clamp01(float64(len(v.Tags)) / 10)
	descScore := clamp01(float64(len(v.Description)) / 1000)
	infoDepth := 0.4*tagsScore + 0.6*descScore

	recency := clamp01(1.0 - hoursSince(v.Published, now)/24)

	thematic := c.thematicRelevance(v.Title, v.Description)

	return 0.25*engagement +
		0.15*comments +
		0.20*length +
		0.15*infoDepth +
		0.10*recency +
		0.15*thematic
}

// viralScore weights views per hour 60%, like ratio 25%, comment ratio 15%.
func (c *Calculator) viralScore(v youtube.VideoInfo, now time.Time) float64 {
	hours := hoursSince(v.Published, now)
	if hours < 1 {
		hours = 1
	}

	viewsPerHour := clamp01(float64(v.ViewCount) / hours / 1000)

	var likeRatio, commentRatio float64
	if v.ViewCount > 0 {
		likeRatio = clamp01(float64(v.LikeCount) / float64(v.ViewCount) * 100 / 5)
		commentRatio = clamp01(float64(v.CommentCount) / float64(v.ViewCount) * 100 / 1)
	}

	return 0.60*viewsPerHour + 0.25*likeRatio + 0.15*commentRatio
}

// thematicRelevance scores keyword matches in title and description.
// Matching 20% of the configured keywords earns the full score; with no
// keywords configured every video gets a neutral 0.5.
func (c *Calculator) thematicRelevance(title, description string) float64 {
	if len(c.QualityKeywords) == 0 {
		return 0.5
	}

	text := strings.ToLower(title + " " + description)
	matches := 0
	for _, kw := range c.QualityKeywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			matches++
		}
	}

	maxExpected := float64(len(c.QualityKeywords)) * 0.2
	if maxExpected < 1 {
		maxExpected = 1
	}
	return clamp01(float64(matches) / maxExpected)
}

// hoursSince returns the hours between published and now, defaulting to a
// full day when the published time is unknown.
func hoursSince(published, now time.Time) float64 {
	if published.IsZero() {
		return 24
	}
	h := now.Sub(published).Hours()
	if h < 0 {
		return 0
	}
	return h
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
