package score

import (
	"testing"
	"time"

	"github.com/scheisemanich/news/config"
	"github.com/scheisemanich/news/youtube"
)

func briefingVideo() youtube.VideoInfo {
	return youtube.VideoInfo{
		Title:       "Ukraine-Gipfel • Zinsentscheid • Wetterchaos",
		Description: "Das Wichtigste am Morgen, kompakt zusammengefasst.",
		Duration:    10 * time.Minute,
		Published:   time.Date(2026, 3, 10, 6, 15, 0, 0, time.UTC),
	}
}

func TestIsMorningBriefing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*youtube.VideoInfo)
		want   bool
	}{
		{"typical briefing", func(v *youtube.VideoInfo) {}, true},
		{
			"alternate description lead-in",
			func(v *youtube.VideoInfo) { v.Description = "Die Nachrichten des Tages." },
			true,
		},
		{
			"published too late",
			func(v *youtube.VideoInfo) { v.Published = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
			false,
		},
		{
			"published too early",
			func(v *youtube.VideoInfo) { v.Published = time.Date(2026, 3, 10, 4, 59, 0, 0, time.UTC) },
			false,
		},
		{
			"no bullet separator in title",
			func(v *youtube.VideoInfo) { v.Title = "Ukraine-Gipfel und Zinsentscheid" },
			false,
		},
		{
			"too short",
			func(v *youtube.VideoInfo) { v.Duration = 5 * time.Minute },
			false,
		},
		{
			"too long",
			func(v *youtube.VideoInfo) { v.Duration = 20 * time.Minute },
			false,
		},
		{
			"wrong description lead-in",
			func(v *youtube.VideoInfo) { v.Description = "Heute sprechen wir über..." },
			false,
		},
		{
			"unknown publish time",
			func(v *youtube.VideoInfo) { v.Published = time.Time{} },
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := briefingVideo()
			tt.mutate(&v)
			if got := IsMorningBriefing(v); got != tt.want {
				t.Errorf("IsMorningBriefing = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPodcast(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		duration time.Duration
		want     bool
	}{
		{"known series short", "Podcast für Deutschland: die neue Folge", 5 * time.Minute, true},
		{"einspruch series", "F.A.Z. Einspruch über das Urteil", 30 * time.Minute, true},
		{"interview format", "Wie geht es weiter, Herr Minister?", 25 * time.Minute, true},
		{"colon format", "Energiewende: Was jetzt kommt", 15 * time.Minute, true},
		{"long quoted format", `Historiker über 1989 - "Eine Zäsur"`, 25 * time.Minute, true},
		{"short plain clip", "Tagesschau in 100 Sekunden", 100 * time.Second, false},
		{"plain ten minute report", "Bericht aus Berlin", 12 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := youtube.VideoInfo{Title: tt.title, Duration: tt.duration}
			if got := IsPodcast(v); got != tt.want {
				t.Errorf("IsPodcast(%q, %v) = %v, want %v", tt.title, tt.duration, got, tt.want)
			}
		})
	}
}

func TestMatchesKeywords(t *testing.T) {
	v := youtube.VideoInfo{Title: "Haushaltsdebatte im Bundestag", Description: "Die Opposition kritisiert"}

	if !MatchesKeywords(v, []string{"bundestag"}) {
		t.Error("title keyword not matched")
	}
	if !MatchesKeywords(v, []string{"opposition"}) {
		t.Error("description keyword not matched")
	}
	if MatchesKeywords(v, []string{"fußball"}) {
		t.Error("unrelated keyword matched")
	}
	if MatchesKeywords(v, nil) {
		t.Error("empty keyword list matched")
	}
}

func TestPassesRule(t *testing.T) {
	briefing := briefingVideo()
	plain := youtube.VideoInfo{Title: "Sportschau", Duration: 5 * time.Minute}

	tests := []struct {
		name  string
		video youtube.VideoInfo
		rule  config.ChannelRule
		want  bool
	}{
		{
			"briefing rule matches briefing",
			briefing,
			config.ChannelRule{Rules: []string{config.RuleMorningBriefing}},
			true,
		},
		{
			"briefing rule rejects plain video",
			plain,
			config.ChannelRule{Rules: []string{config.RuleMorningBriefing}},
			false,
		},
		{
			"any rule qualifies",
			briefing,
			config.ChannelRule{Rules: []string{config.RulePodcast, config.RuleMorningBriefing}},
			true,
		},
		{
			"keyword rule uses rule keywords",
			plain,
			config.ChannelRule{Rules: []string{config.RuleKeyword}, Keywords: []string{"sportschau"}},
			true,
		},
		{
			"no named rules falls back to keywords",
			plain,
			config.ChannelRule{Keywords: []string{"sportschau"}},
			true,
		},
		{
			"no rules and no keywords rejects",
			plain,
			config.ChannelRule{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := passesRule(tt.video, tt.rule); got != tt.want {
				t.Errorf("passesRule = %v, want %v", got, tt.want)
			}
		})
	}
}
