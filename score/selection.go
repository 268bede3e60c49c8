package score

import (
	"log"
	"sort"
	"time"

	"github.com/scheisemanich/news/config"
	"github.com/scheisemanich/news/youtube"
)

// Selector applies the per-channel selection rules to a fetched video set.
type Selector struct {
	Calc *Calculator
	// Criteria maps channel IDs to their rules; channels without an entry
	// are treated as scored.
	Criteria map[string]config.ChannelRule
	// MaxPerChannel caps selected videos per scored channel.
	MaxPerChannel int
	// MaxTotal caps the combined selection. 0 means no cap.
	MaxTotal int
}

// NewSelector builds a selector from run configuration.
func NewSelector(cfg *config.Config) *Selector {
	return &Selector{
		Calc:          NewCalculator(cfg.QualityKeywords),
		Criteria:      cfg.ChannelCriteria,
		MaxPerChannel: cfg.MaxVideosPerChannel,
		MaxTotal:      cfg.MaxTotal,
	}
}

// Select scores and filters videos into the final playlist candidate set.
//
// Scored channels are ranked by total score (highest first) and capped per
// channel. Curated channels contribute every video passing their rules.
// When the combined set exceeds MaxTotal, curated videos are kept
// preferentially and the scored tail is trimmed.
func (s *Selector) Select(videos []youtube.VideoInfo, now time.Time) []ScoredVideo {
	var scored, curated []ScoredVideo

	for _, v := range videos {
		sv := ScoredVideo{VideoInfo: v, Scores: s.Calc.Score(v, now)}

		rule := s.rule(v.ChannelID)
		switch rule.Type {
		case config.ChannelTypeCurated:
			if passesRule(v, rule) {
				log.Printf("score: selected curated video %q (%s)", v.Title, v.ID)
				curated = append(curated, sv)
			}
		default:
			scored = append(scored, sv)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Total > scored[j].Total
	})
	scored = capScoredPerChannel(scored, s.MaxPerChannel)

	selected := append(scored, curated...)

	if s.MaxTotal > 0 && len(selected) > s.MaxTotal {
		if len(curated) <= s.MaxTotal {
			keep := s.MaxTotal - len(curated)
			selected = append(scored[:keep], curated...)
		} else {
			selected = curated[:s.MaxTotal]
		}
	}

	log.Printf("score: selected %d of %d videos (%d scored, %d curated)",
		len(selected), len(videos), len(scored), len(curated))
	return selected
}

func (s *Selector) rule(channelID string) config.ChannelRule {
	if r, ok := s.Criteria[channelID]; ok {
		return r
	}
	return config.ChannelRule{Type: config.ChannelTypeScored}
}

// capScoredPerChannel keeps at most max videos per channel, preserving the
// score ordering.
func capScoredPerChannel(videos []ScoredVideo, max int) []ScoredVideo {
	if max <= 0 {
		return videos
	}

	counts := make(map[string]int)
	out := videos[:0]
	for _, v := range videos {
		if counts[v.ChannelID] >= max {
			continue
		}
		counts[v.ChannelID]++
		out = append(out, v)
	}
	return out
}
