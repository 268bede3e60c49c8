package score

import (
	"testing"
	"time"

	"github.com/scheisemanich/news/config"
	"github.com/scheisemanich/news/youtube"
)

var selectNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// scoredAt builds a video whose total score is dominated by view velocity,
// so higher views means a strictly higher score.
func scoredAt(id, channelID string, views int64) youtube.VideoInfo {
	return youtube.VideoInfo{
		ID:        id,
		Title:     "Video " + id,
		ChannelID: channelID,
		ViewCount: views,
		Duration:  10 * time.Minute,
		Published: selectNow.Add(-2 * time.Hour),
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Channels = []string{"scored-ch", "curated-ch"}
	cfg.ChannelCriteria = map[string]config.ChannelRule{
		"curated-ch": {
			Type:     config.ChannelTypeCurated,
			Rules:    []string{config.RuleKeyword},
			Keywords: []string{"briefing"},
		},
	}
	return cfg
}

func TestSelectRanksScoredChannels(t *testing.T) {
	cfg := testConfig()
	cfg.MaxVideosPerChannel = 2

	s := NewSelector(cfg)
	videos := []youtube.VideoInfo{
		scoredAt("low", "scored-ch", 100),
		scoredAt("high", "scored-ch", 5000),
		scoredAt("mid", "scored-ch", 1000),
	}

	selected := s.Select(videos, selectNow)
	if len(selected) != 2 {
		t.Fatalf("selected %d videos, want 2", len(selected))
	}
	if selected[0].ID != "high" || selected[1].ID != "mid" {
		t.Errorf("got %s,%s want high,mid", selected[0].ID, selected[1].ID)
	}
	if selected[0].Total <= selected[1].Total {
		t.Errorf("scores not descending: %v, %v", selected[0].Total, selected[1].Total)
	}
}

func TestSelectCuratedPassesRules(t *testing.T) {
	cfg := testConfig()
	s := NewSelector(cfg)

	videos := []youtube.VideoInfo{
		{ID: "match", ChannelID: "curated-ch", Title: "Morgen-Briefing", Duration: 10 * time.Minute, Published: selectNow.Add(-time.Hour)},
		{ID: "nomatch", ChannelID: "curated-ch", Title: "Sondersendung", Duration: 10 * time.Minute, Published: selectNow.Add(-time.Hour)},
	}

	selected := s.Select(videos, selectNow)
	if len(selected) != 1 {
		t.Fatalf("selected %d videos, want 1", len(selected))
	}
	if selected[0].ID != "match" {
		t.Errorf("selected %s, want match", selected[0].ID)
	}
}

func TestSelectUnknownChannelIsScored(t *testing.T) {
	cfg := testConfig()
	s := NewSelector(cfg)

	selected := s.Select([]youtube.VideoInfo{scoredAt("v1", "unlisted-ch", 1000)}, selectNow)
	if len(selected) != 1 {
		t.Fatalf("selected %d videos, want 1", len(selected))
	}
}

func TestSelectTotalCapKeepsCurated(t *testing.T) {
	cfg := testConfig()
	cfg.MaxVideosPerChannel = 10
	cfg.MaxTotal = 3

	s := NewSelector(cfg)

	videos := []youtube.VideoInfo{
		scoredAt("s1", "scored-ch", 5000),
		scoredAt("s2", "scored-ch", 4000),
		scoredAt("s3", "scored-ch", 3000),
		{ID: "c1", ChannelID: "curated-ch", Title: "Briefing am Morgen", Duration: 10 * time.Minute, Published: selectNow.Add(-time.Hour)},
		{ID: "c2", ChannelID: "curated-ch", Title: "Briefing am Abend", Duration: 10 * time.Minute, Published: selectNow.Add(-time.Hour)},
	}

	selected := s.Select(videos, selectNow)
	if len(selected) != 3 {
		t.Fatalf("selected %d videos, want 3", len(selected))
	}

	// Both curated survive; only the top scored video fits.
	ids := make(map[string]bool, len(selected))
	for _, v := range selected {
		ids[v.ID] = true
	}
	for _, want := range []string{"s1", "c1", "c2"} {
		if !ids[want] {
			t.Errorf("missing %s from selection %v", want, ids)
		}
	}
}

func TestSelectEmptyInput(t *testing.T) {
	s := NewSelector(testConfig())
	if selected := s.Select(nil, selectNow); len(selected) != 0 {
		t.Errorf("selected %d videos from empty input", len(selected))
	}
}

func TestCapScoredPerChannel(t *testing.T) {
	videos := []ScoredVideo{
		{VideoInfo: youtube.VideoInfo{ID: "a1", ChannelID: "a"}},
		{VideoInfo: youtube.VideoInfo{ID: "a2", ChannelID: "a"}},
		{VideoInfo: youtube.VideoInfo{ID: "b1", ChannelID: "b"}},
		{VideoInfo: youtube.VideoInfo{ID: "a3", ChannelID: "a"}},
	}

	got := capScoredPerChannel(videos, 2)
	if len(got) != 3 {
		t.Fatalf("got %d videos, want 3", len(got))
	}
	for _, v := range got {
		if v.ID == "a3" {
			t.Error("a3 kept despite cap of 2")
		}
	}
}
