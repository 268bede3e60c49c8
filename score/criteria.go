package score

import (
	"strings"

	"github.com/scheisemanich/news/config"
	"github.com/scheisemanich/news/youtube"
)

// Morning briefing heuristics. The format is rigid: published in the early
// morning, bullet-separated headlines in the title, around ten minutes long,
// description opening with a fixed lead-in.
var (
	morningBriefingStartHour = 5
	morningBriefingEndHour   = 7
	morningBriefingPrefixes  = []string{"das wichtigste", "die nachrichten"}
)

// podcastSeries are title markers for known podcast series.
var podcastSeries = []string{
	"podcast für deutschland",
	"f.a.z. digitalwirtschaft",
	"f.a.z. einspruch",
	"f.a.z. gesundheit",
	"f.a.z. finanzen & immobilien",
}

// expertMarkers indicate interview or analysis formats when followed by a colon.
var expertMarkers = []string{"interview", "gespräch", "experte", "analyse"}

// IsMorningBriefing reports whether a video matches the daily morning
// briefing format.
func IsMorningBriefing(v youtube.VideoInfo) bool {
	if v.Published.IsZero() {
		return false
	}
	hour := v.Published.Hour()
	if hour < morningBriefingStartHour || hour > morningBriefingEndHour {
		return false
	}

	if !strings.Contains(v.Title, "•") {
		return false
	}

	minutes := v.Duration.Minutes()
	if minutes < 8 || minutes > 12 {
		return false
	}

	desc := strings.ToLower(v.Description)
	for _, prefix := range morningBriefingPrefixes {
		if strings.HasPrefix(desc, prefix) {
			return true
		}
	}
	return false
}

// IsPodcast reports whether a video looks like a podcast episode: either a
// known series name in the title, or a long-form interview/analysis format.
func IsPodcast(v youtube.VideoInfo) bool {
	title := strings.ToLower(v.Title)

	for _, series := range podcastSeries {
		if strings.Contains(title, series) {
			return true
		}
	}

	minutes := v.Duration.Minutes()
	if minutes < 10 {
		return false
	}

	hasInterviewFormat := strings.Contains(title, ":") || strings.Contains(title, "?")

	hasExpertFormat := false
	squeezed := strings.ReplaceAll(title, " ", "")
	for _, marker := range expertMarkers {
		if strings.Contains(squeezed, marker+":") {
			hasExpertFormat = true
			break
		}
	}

	longFormat := minutes >= 20 &&
		(strings.Contains(title, " - ") || strings.ContainsAny(v.Title, `"„“`))

	return hasInterviewFormat || hasExpertFormat || longFormat
}

// MatchesKeywords reports whether the title or description contains any of
// the keywords, case-insensitively.
func MatchesKeywords(v youtube.VideoInfo, keywords []string) bool {
	text := strings.ToLower(v.Title + " " + v.Description)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// passesRule reports whether a video satisfies a curated channel's rule set.
// Any named rule matching qualifies the video.
func passesRule(v youtube.VideoInfo, rule config.ChannelRule) bool {
	if len(rule.Rules) == 0 {
		// A curated channel without named rules falls back to keywords.
		return MatchesKeywords(v, rule.Keywords)
	}
	for _, r := range rule.Rules {
		switch r {
		case config.RuleMorningBriefing:
			if IsMorningBriefing(v) {
				return true
			}
		case config.RulePodcast:
			if IsPodcast(v) {
				return true
			}
		case config.RuleKeyword:
			if MatchesKeywords(v, rule.Keywords) {
				return true
			}
		}
	}
	return false
}
