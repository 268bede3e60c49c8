package youtube

import (
	"context"
	"log"
	"sort"

	"google.golang.org/api/youtube/v3"

	"github.com/scheisemanich/news/internal/ratelimit"
	"github.com/scheisemanich/news/internal/retry"
)

// PlaylistItemRef identifies one entry in a playlist.
type PlaylistItemRef struct {
	// ID is the playlist item ID, required for deletion.
	ID string
	// VideoID is the video the entry points at.
	VideoID string
	// Position is the entry's ordinal position within the playlist.
	Position int64
}

// PlaylistInfo summarizes a playlist for status reporting.
type PlaylistInfo struct {
	ID          string
	Title       string
	Description string
	Privacy     string
	ItemCount   int64
}

// URL returns the public URL for the playlist.
func (p *PlaylistInfo) URL() string {
	return "https://www.youtube.com/playlist?list=" + p.ID
}

// PlaylistService abstracts the playlist operations of the Data API so the
// synchronizer can be exercised against a fake in tests.
type PlaylistService interface {
	// ListItems returns all items in the playlist, paginating as needed.
	ListItems(ctx context.Context, playlistID string) ([]PlaylistItemRef, error)
	// InsertItem adds a video to the playlist at the given position.
	InsertItem(ctx context.Context, playlistID, videoID string, position int64) error
	// DeleteItem removes a playlist item by its item ID.
	DeleteItem(ctx context.Context, itemID string) error
	// Create creates a playlist and returns its ID.
	Create(ctx context.Context, title, description, privacy string) (string, error)
	// Info returns metadata about a playlist.
	Info(ctx context.Context, playlistID string) (*PlaylistInfo, error)
}

// apiPlaylistService implements PlaylistService against the Data API.
// Mutating calls are paced by a token-bucket limiter; at 50 quota units per
// insert/delete a burst of writes is what empties the daily budget.
type apiPlaylistService struct {
	service  *youtube.Service
	limiter  *ratelimit.Limiter
	retryCfg retry.Config
}

// NewPlaylistService creates a Data API-backed playlist service.
func NewPlaylistService(service *youtube.Service) PlaylistService {
	return &apiPlaylistService{
		service:  service,
		limiter:  ratelimit.New(ratelimit.DefaultWriteRPS),
		retryCfg: retry.DefaultConfig(),
	}
}

func (s *apiPlaylistService) ListItems(ctx context.Context, playlistID string) ([]PlaylistItemRef, error) {
	var items []PlaylistItemRef

	pageToken := ""
	for {
		err := retry.Do(ctx, s.retryCfg, apiErrorClassifier, func(ctx context.Context) error {
			call := s.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(50).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return err
			}

			for _, item := range resp.Items {
				ref := PlaylistItemRef{ID: item.Id}
				if item.ContentDetails != nil {
					ref.VideoID = item.ContentDetails.VideoId
				}
				if item.Snippet != nil {
					ref.Position = item.Snippet.Position
				}
				items = append(items, ref)
			}

			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return items, &APIError{Op: "playlistItems.list", Resource: playlistID, Err: err}
		}

		if pageToken == "" {
			return items, nil
		}
	}
}

func (s *apiPlaylistService) InsertItem(ctx context.Context, playlistID, videoID string, position int64) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	err := retry.Do(ctx, s.retryCfg, apiErrorClassifier, func(ctx context.Context) error {
		item := &youtube.PlaylistItem{
			Snippet: &youtube.PlaylistItemSnippet{
				PlaylistId: playlistID,
				Position:   position,
				ResourceId: &youtube.ResourceId{
					Kind:    "youtube#video",
					VideoId: videoID,
				},
				ForceSendFields: []string{"Position"},
			},
		}

		_, err := s.service.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do()
		return err
	})
	if err != nil {
		return &APIError{Op: "playlistItems.insert", Resource: videoID, Err: err}
	}
	return nil
}

func (s *apiPlaylistService) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	err := retry.Do(ctx, s.retryCfg, apiErrorClassifier, func(ctx context.Context) error {
		return s.service.PlaylistItems.Delete(itemID).Context(ctx).Do()
	})
	if err != nil {
		return &APIError{Op: "playlistItems.delete", Resource: itemID, Err: err}
	}
	return nil
}

func (s *apiPlaylistService) Create(ctx context.Context, title, description, privacy string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var playlistID string
	err := retry.Do(ctx, s.retryCfg, apiErrorClassifier, func(ctx context.Context) error {
		playlist := &youtube.Playlist{
			Snippet: &youtube.PlaylistSnippet{
				Title:       title,
				Description: description,
			},
			Status: &youtube.PlaylistStatus{
				PrivacyStatus: privacy,
			},
		}

		resp, err := s.service.Playlists.Insert([]string{"snippet", "status"}, playlist).Context(ctx).Do()
		if err != nil {
			return err
		}
		playlistID = resp.Id
		return nil
	})
	if err != nil {
		return "", &APIError{Op: "playlists.insert", Resource: title, Err: err}
	}
	return playlistID, nil
}

func (s *apiPlaylistService) Info(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	var info *PlaylistInfo
	err := retry.Do(ctx, s.retryCfg, apiErrorClassifier, func(ctx context.Context) error {
		resp, err := s.service.Playlists.List([]string{"snippet", "contentDetails", "status"}).
			Id(playlistID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return ErrPlaylistNotFound
		}

		p := resp.Items[0]
		info = &PlaylistInfo{ID: p.Id}
		if p.Snippet != nil {
			info.Title = p.Snippet.Title
			info.Description = p.Snippet.Description
		}
		if p.ContentDetails != nil {
			info.ItemCount = p.ContentDetails.ItemCount
		}
		if p.Status != nil {
			info.Privacy = p.Status.PrivacyStatus
		}
		return nil
	})
	if err != nil {
		return nil, &APIError{Op: "playlists.list", Resource: playlistID, Err: err}
	}
	return info, nil
}

// SyncReport contains the outcome of a playlist synchronization.
type SyncReport struct {
	// PlaylistID is the playlist that was synchronized.
	PlaylistID string
	// Removed is the number of pre-existing items deleted.
	Removed int
	// Added is the number of videos successfully inserted.
	Added int
	// Failed is the number of videos that could not be inserted.
	Failed int
}

// Synchronizer reconciles remote playlist membership with a candidate set:
// all existing items are removed, then the candidates are inserted
// newest-first with sequential positions, honoring a per-channel cap.
//
// There is no transactional guarantee. A failure mid-sync leaves the playlist
// partially cleared or partially populated; the report carries the partial
// counts and no rollback is attempted.
type Synchronizer struct {
	Service PlaylistService

	// MaxPerChannel caps inserted videos per channel. 0 means no cap.
	MaxPerChannel int
}

// NewSynchronizer creates a synchronizer over the given playlist service.
func NewSynchronizer(service PlaylistService, maxPerChannel int) *Synchronizer {
	return &Synchronizer{Service: service, MaxPerChannel: maxPerChannel}
}

// Sync clears the playlist and inserts the candidate videos.
func (s *Synchronizer) Sync(ctx context.Context, playlistID string, videos []VideoInfo) (*SyncReport, error) {
	report := &SyncReport{PlaylistID: playlistID}

	removed, err := s.clear(ctx, playlistID, report)
	report.Removed = removed
	if err != nil {
		return report, err
	}
	log.Printf("youtube: removed %d items from playlist %s", removed, playlistID)

	return report, s.insert(ctx, playlistID, videos, report)
}

// CreateAndSync creates a playlist and inserts the candidate videos.
func (s *Synchronizer) CreateAndSync(ctx context.Context, title, description, privacy string, videos []VideoInfo) (*SyncReport, error) {
	playlistID, err := s.Service.Create(ctx, title, description, privacy)
	if err != nil {
		return &SyncReport{}, err
	}
	log.Printf("youtube: created playlist %q (%s)", title, playlistID)

	report := &SyncReport{PlaylistID: playlistID}
	return report, s.insert(ctx, playlistID, videos, report)
}

// clear deletes every item currently in the playlist, returning the count
// deleted. A delete failure stops the pass; the count covers what succeeded.
func (s *Synchronizer) clear(ctx context.Context, playlistID string, report *SyncReport) (int, error) {
	items, err := s.Service.ListItems(ctx, playlistID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, item := range items {
		if err := s.Service.DeleteItem(ctx, item.ID); err != nil {
			log.Printf("youtube: delete item %s: %v", item.ID, err)
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// insert adds the candidates newest-first with sequential positions. Insert
// failures are logged and counted; the pass continues so one bad video does
// not drop the rest of the run.
func (s *Synchronizer) insert(ctx context.Context, playlistID string, videos []VideoInfo, report *SyncReport) error {
	selected := capPerChannel(videos, s.MaxPerChannel)

	// Newest first, matching the order viewers expect from a news playlist.
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Published.After(selected[j].Published)
	})

	position := int64(0)
	for _, v := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Service.InsertItem(ctx, playlistID, v.ID, position); err != nil {
			log.Printf("youtube: insert video %s: %v", v.ID, err)
			report.Failed++
			continue
		}
		report.Added++
		position++
	}

	log.Printf("youtube: added %d of %d videos to playlist %s", report.Added, len(selected), playlistID)
	return nil
}

// capPerChannel keeps at most max videos per channel, preserving input order.
func capPerChannel(videos []VideoInfo, max int) []VideoInfo {
	if max <= 0 {
		out := make([]VideoInfo, len(videos))
		copy(out, videos)
		return out
	}

	counts := make(map[string]int)
	out := make([]VideoInfo, 0, len(videos))
	for _, v := range videos {
		if counts[v.ChannelID] >= max {
			continue
		}
		counts[v.ChannelID]++
		out = append(out, v)
	}
	return out
}
