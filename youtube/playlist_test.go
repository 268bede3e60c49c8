package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakePlaylistService records playlist mutations in memory.
type fakePlaylistService struct {
	items  []PlaylistItemRef
	nextID int

	inserted []PlaylistItemRef
	deleted  []string
	created  []string

	failInsertVideo string
	failDelete      bool
}

func newFakePlaylistService(videoIDs ...string) *fakePlaylistService {
	s := &fakePlaylistService{}
	for i, id := range videoIDs {
		s.items = append(s.items, PlaylistItemRef{
			ID:       fmt.Sprintf("item-%d", i),
			VideoID:  id,
			Position: int64(i),
		})
	}
	return s
}

func (s *fakePlaylistService) ListItems(ctx context.Context, playlistID string) ([]PlaylistItemRef, error) {
	out := make([]PlaylistItemRef, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakePlaylistService) InsertItem(ctx context.Context, playlistID, videoID string, position int64) error {
	if videoID == s.failInsertVideo {
		return &APIError{Op: "playlistItems.insert", Resource: videoID, Err: errors.New("rejected")}
	}
	s.nextID++
	ref := PlaylistItemRef{ID: fmt.Sprintf("new-%d", s.nextID), VideoID: videoID, Position: position}
	s.items = append(s.items, ref)
	s.inserted = append(s.inserted, ref)
	return nil
}

func (s *fakePlaylistService) DeleteItem(ctx context.Context, itemID string) error {
	if s.failDelete {
		return &APIError{Op: "playlistItems.delete", Resource: itemID, Err: errors.New("rejected")}
	}
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.deleted = append(s.deleted, itemID)
	return nil
}

func (s *fakePlaylistService) Create(ctx context.Context, title, description, privacy string) (string, error) {
	s.created = append(s.created, title)
	return "PL-created", nil
}

func (s *fakePlaylistService) Info(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	return &PlaylistInfo{ID: playlistID, ItemCount: int64(len(s.items))}, nil
}

func publishedAt(hoursAgo int) time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).Add(-time.Duration(hoursAgo) * time.Hour)
}

func TestSyncReplacesPlaylist(t *testing.T) {
	fake := newFakePlaylistService("old1", "old2", "old3")
	sync := NewSynchronizer(fake, 0)

	videos := []VideoInfo{
		{ID: "older", ChannelID: "ch1", Published: publishedAt(5)},
		{ID: "newest", ChannelID: "ch1", Published: publishedAt(1)},
		{ID: "middle", ChannelID: "ch2", Published: publishedAt(3)},
	}

	report, err := sync.Sync(context.Background(), "PL1", videos)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if report.Removed != 3 {
		t.Errorf("Removed = %d, want 3", report.Removed)
	}
	if report.Added != 3 {
		t.Errorf("Added = %d, want 3", report.Added)
	}
	if report.Failed != 0 {
		t.Errorf("Failed = %d, want 0", report.Failed)
	}

	// Newest first, sequential positions from zero.
	wantOrder := []string{"newest", "middle", "older"}
	if len(fake.inserted) != len(wantOrder) {
		t.Fatalf("inserted %d videos, want %d", len(fake.inserted), len(wantOrder))
	}
	for i, ref := range fake.inserted {
		if ref.VideoID != wantOrder[i] {
			t.Errorf("inserted[%d] = %s, want %s", i, ref.VideoID, wantOrder[i])
		}
		if ref.Position != int64(i) {
			t.Errorf("inserted[%d] position = %d, want %d", i, ref.Position, i)
		}
	}
}

func TestSyncPerChannelCap(t *testing.T) {
	fake := newFakePlaylistService()
	sync := NewSynchronizer(fake, 2)

	videos := []VideoInfo{
		{ID: "a1", ChannelID: "a", Published: publishedAt(1)},
		{ID: "a2", ChannelID: "a", Published: publishedAt(2)},
		{ID: "a3", ChannelID: "a", Published: publishedAt(3)},
		{ID: "b1", ChannelID: "b", Published: publishedAt(4)},
	}

	report, err := sync.Sync(context.Background(), "PL1", videos)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if report.Added != 3 {
		t.Errorf("Added = %d, want 3 (channel a capped at 2)", report.Added)
	}
	for _, ref := range fake.inserted {
		if ref.VideoID == "a3" {
			t.Error("a3 inserted despite per-channel cap")
		}
	}
}

func TestSyncInsertFailureContinues(t *testing.T) {
	fake := newFakePlaylistService()
	fake.failInsertVideo = "bad"
	sync := NewSynchronizer(fake, 0)

	videos := []VideoInfo{
		{ID: "good1", ChannelID: "ch", Published: publishedAt(1)},
		{ID: "bad", ChannelID: "ch", Published: publishedAt(2)},
		{ID: "good2", ChannelID: "ch", Published: publishedAt(3)},
	}

	report, err := sync.Sync(context.Background(), "PL1", videos)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if report.Added != 2 {
		t.Errorf("Added = %d, want 2", report.Added)
	}
	if report.Failed != 1 {
		t.Errorf("Failed = %d, want 1", report.Failed)
	}

	// Positions stay sequential across the skipped insert.
	if len(fake.inserted) != 2 {
		t.Fatalf("inserted %d videos, want 2", len(fake.inserted))
	}
	if fake.inserted[0].Position != 0 || fake.inserted[1].Position != 1 {
		t.Errorf("positions = %d,%d, want 0,1",
			fake.inserted[0].Position, fake.inserted[1].Position)
	}
}

func TestSyncDeleteFailureStops(t *testing.T) {
	fake := newFakePlaylistService("old1", "old2")
	fake.failDelete = true
	sync := NewSynchronizer(fake, 0)

	report, err := sync.Sync(context.Background(), "PL1", []VideoInfo{
		{ID: "new1", ChannelID: "ch", Published: publishedAt(1)},
	})
	if err == nil {
		t.Fatal("Sync succeeded, want delete error")
	}

	if report.Removed != 0 {
		t.Errorf("Removed = %d, want 0", report.Removed)
	}
	if report.Added != 0 {
		t.Errorf("Added = %d, want 0 (insert must not run after failed clear)", report.Added)
	}
}

func TestCreateAndSync(t *testing.T) {
	fake := newFakePlaylistService()
	sync := NewSynchronizer(fake, 0)

	report, err := sync.CreateAndSync(context.Background(), "News", "daily", "unlisted", []VideoInfo{
		{ID: "v1", ChannelID: "ch", Published: publishedAt(1)},
		{ID: "v2", ChannelID: "ch", Published: publishedAt(2)},
	})
	if err != nil {
		t.Fatalf("CreateAndSync: %v", err)
	}

	if report.PlaylistID != "PL-created" {
		t.Errorf("PlaylistID = %q, want PL-created", report.PlaylistID)
	}
	if len(fake.created) != 1 || fake.created[0] != "News" {
		t.Errorf("created = %v, want [News]", fake.created)
	}
	if report.Added != 2 {
		t.Errorf("Added = %d, want 2", report.Added)
	}
}

func TestCapPerChannel(t *testing.T) {
	videos := []VideoInfo{
		{ID: "a1", ChannelID: "a"},
		{ID: "b1", ChannelID: "b"},
		{ID: "a2", ChannelID: "a"},
		{ID: "a3", ChannelID: "a"},
		{ID: "b2", ChannelID: "b"},
	}

	tests := []struct {
		name string
		max  int
		want []string
	}{
		{"no cap", 0, []string{"a1", "b1", "a2", "a3", "b2"}},
		{"cap one", 1, []string{"a1", "b1"}},
		{"cap two", 2, []string{"a1", "b1", "a2", "b2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capPerChannel(videos, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d videos, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v.ID != tt.want[i] {
					t.Errorf("video[%d] = %s, want %s", i, v.ID, tt.want[i])
				}
			}
		})
	}
}

func TestPlaylistInfoURL(t *testing.T) {
	p := &PlaylistInfo{ID: "PLabc"}
	want := "https://www.youtube.com/playlist?list=PLabc"
	if got := p.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
