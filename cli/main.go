package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/scheisemanich/news/config"
	"github.com/scheisemanich/news/score"
	"github.com/scheisemanich/news/storage"
	"github.com/scheisemanich/news/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "fetch":
		cmdFetch(args)
	case "update":
		cmdUpdate(args)
	case "status":
		cmdStatus(args)
	case "run":
		cmdRun(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `news - YouTube news aggregator and playlist updater

Usage:
  news fetch [flags]    Fetch and select recent videos, write the snapshot
  news update [flags]   Synchronize the playlist from a snapshot
  news status [flags]   Show playlist title, size, and URL
  news run [flags]      Fetch then update, as the scheduled pipeline does
  news help             Show this help message

Examples:
  news fetch --load-config config/news.json
  news fetch --days-back 2 --now 2026-08-23T06:00:00Z
  news update --json-file output/latest_news.json --playlist-id PLxxxx
  news update --title "News Feed" --privacy unlisted
  news run --skip-fetch

For help on a specific command: news <command> -h
`)
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := fs.String("load-config", "", "Path to the configuration file")
	jsonFile := fs.String("json-file", "", "Extra path to write the snapshot JSON to")
	credentials := fs.String("credentials", "", "Service-account key file (default: API key from config)")
	daysBack := fs.Int("days-back", 0, "Override the lookback window in days")
	nowStr := fs.String("now", "", "Pin the clock to this RFC3339 time (for reproducible runs)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: news fetch [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	if *daysBack > 0 {
		cfg.DaysBack = *daysBack
	}

	now := time.Now()
	if *nowStr != "" {
		t, err := time.Parse(time.RFC3339, *nowStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing --now: %v (use RFC3339 format)\n", err)
			os.Exit(1)
		}
		now = t
	}

	ctx := context.Background()
	service, err := fetchService(ctx, cfg, *credentials)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error authenticating: %v\n", err)
		os.Exit(1)
	}

	rec, err := runFetch(ctx, cfg, service, now, *jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching videos: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Selected %d of %d videos (+%d/-%d vs previous run)\n",
		rec.Selected, rec.Fetched, rec.Added, rec.Removed)
}

func cmdUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	configPath := fs.String("load-config", "", "Path to the configuration file")
	jsonFile := fs.String("json-file", "", "Path to the snapshot JSON (default: <output_dir>/latest_news.json)")
	credentials := fs.String("credentials", "", "OAuth client secret file (default from config)")
	token := fs.String("token", "", "OAuth token file (default from config)")
	serviceAccount := fs.String("service-account", "", "Service-account key file, used instead of OAuth when set")
	playlistID := fs.String("playlist-id", "", "Existing playlist ID to update")
	playlistIDFile := fs.String("playlist-id-file", "", "Playlist ID file (default from config)")
	title := fs.String("title", "", "Title for a new playlist")
	description := fs.String("description", "", "Description for a new playlist")
	privacy := fs.String("privacy", "private", "Privacy for a new playlist: public, private, or unlisted")
	maxPerChannel := fs.Int("max-per-channel", 0, "Override the per-channel video cap")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: news update [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if *playlistID != "" && *title != "" {
		fmt.Fprintf(os.Stderr, "Error: --playlist-id and --title are mutually exclusive\n")
		os.Exit(1)
	}
	switch *privacy {
	case "public", "private", "unlisted":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid --privacy value %q\n", *privacy)
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	if *maxPerChannel > 0 {
		cfg.MaxVideosPerChannel = *maxPerChannel
	}

	ctx := context.Background()
	service, err := updateService(ctx, cfg, *credentials, *token, *serviceAccount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error authenticating: %v\n", err)
		os.Exit(1)
	}

	params := updateParams{
		jsonFile:       *jsonFile,
		playlistID:     *playlistID,
		playlistIDFile: *playlistIDFile,
		title:          *title,
		description:    *description,
		privacy:        *privacy,
	}
	report, err := runUpdate(ctx, cfg, service, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating playlist: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Playlist %s: removed %d, added %d, failed %d\n",
		report.PlaylistID, report.Removed, report.Added, report.Failed)
	printPlaylistInfo(ctx, service, report.PlaylistID)
}

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("load-config", "", "Path to the configuration file")
	credentials := fs.String("credentials", "", "OAuth client secret file (default from config)")
	token := fs.String("token", "", "OAuth token file (default from config)")
	serviceAccount := fs.String("service-account", "", "Service-account key file, used instead of OAuth when set")
	playlistID := fs.String("playlist-id", "", "Playlist ID (default: read from the playlist ID file)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: news status [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig(*configPath)

	id := *playlistID
	if id == "" {
		var err error
		id, err = storage.ReadPlaylistID(cfg.PlaylistIDFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: no playlist ID: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	service, err := updateService(ctx, cfg, *credentials, *token, *serviceAccount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error authenticating: %v\n", err)
		os.Exit(1)
	}

	printPlaylistInfo(ctx, service, id)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("load-config", "", "Path to the configuration file")
	skipFetch := fs.Bool("skip-fetch", false, "Skip the fetch step")
	skipUpdate := fs.Bool("skip-update", false, "Skip the playlist update step")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: news run [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	ctx := context.Background()
	now := time.Now()

	if !*skipFetch {
		fmt.Fprintf(os.Stderr, "[1/2] Fetching and selecting videos...\n")
		service, err := fetchService(ctx, cfg, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error authenticating: %v\n", err)
			os.Exit(1)
		}
		if _, err := runFetch(ctx, cfg, service, now, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching videos: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[1/2] Skipping fetch step\n")
	}

	if *skipUpdate {
		fmt.Fprintf(os.Stderr, "[2/2] Skipping playlist update step\n")
		return
	}

	// The update step refuses to run without a snapshot; a fetch that
	// silently produced nothing must not wipe the playlist unnoticed.
	store, err := storage.NewSnapshotStore(cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	snapshotPath := store.Path(storage.SnapshotFile)
	if _, err := os.Stat(snapshotPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: snapshot %s not found, aborting playlist update\n", snapshotPath)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "[2/2] Updating playlist...\n")
	service, err := updateService(ctx, cfg, "", "", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error authenticating: %v\n", err)
		os.Exit(1)
	}

	report, err := runUpdate(ctx, cfg, service, updateParams{privacy: "private"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating playlist: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Playlist %s: removed %d, added %d, failed %d\n",
		report.PlaylistID, report.Removed, report.Added, report.Failed)
}

// loadConfig loads the run configuration, exiting on error.
func loadConfig(path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// fetchService builds the read-path service: a service account when a key
// file is given, otherwise the configured API key.
func fetchService(ctx context.Context, cfg *config.Config, keyFile string) (*yt.Service, error) {
	if keyFile != "" {
		return youtube.NewServiceFromKeyFile(ctx, keyFile)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key missing from config and no --credentials given")
	}
	return youtube.NewServiceWithAPIKey(ctx, cfg.APIKey)
}

// updateService builds the write-path service: a service account when
// configured, otherwise the OAuth client secret plus stored token.
func updateService(ctx context.Context, cfg *config.Config, credentials, token, serviceAccount string) (*yt.Service, error) {
	if serviceAccount != "" {
		return youtube.NewServiceFromKeyFile(ctx, serviceAccount)
	}
	if _, err := os.Stat(cfg.ServiceAccountFile); err == nil && credentials == "" {
		return youtube.NewServiceFromKeyFile(ctx, cfg.ServiceAccountFile)
	}
	if credentials == "" {
		credentials = cfg.CredentialsFile
	}
	if token == "" {
		token = cfg.TokenFile
	}
	return youtube.NewServiceFromOAuth(ctx, credentials, token)
}

// runFetch executes the aggregation step: fetch every configured channel,
// select, snapshot, and record the run.
func runFetch(ctx context.Context, cfg *config.Config, service *yt.Service, now time.Time, extraJSONPath string) (*storage.RunRecord, error) {
	rec := storage.NewRunRecord()
	rec.Channels = len(cfg.Channels)

	fetcher := youtube.NewAPIFetcher(service)
	cutoff := now.AddDate(0, 0, -cfg.DaysBack)

	opts := &youtube.FetchOptions{
		PublishedAfter: cutoff,
		MaxResults:     cfg.MaxResults,
		MinDuration:    time.Duration(cfg.MinDuration) * time.Second,
		Keywords:       cfg.FetchKeywords,
	}

	var videos []youtube.VideoInfo
	for _, channelID := range cfg.Channels {
		fmt.Fprintf(os.Stderr, "Fetching channel %s...\n", channelID)
		channelVideos, err := fetcher.FetchChannel(ctx, channelID, opts)
		if err != nil {
			// One broken channel must not sink the run; it just
			// contributes nothing.
			log.Printf("news: fetch channel %s: %v", channelID, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "Found %d recent videos\n", len(channelVideos))
		videos = append(videos, channelVideos...)
	}
	rec.Fetched = len(videos)

	selector := score.NewSelector(cfg)
	selected := selector.Select(videos, now)
	rec.Selected = len(selected)

	store, err := storage.NewSnapshotStore(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	snapshot := toSnapshot(selected)
	previous, err := store.Load()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("news: load previous snapshot: %v", err)
	}

	if err := store.Save(snapshot); err != nil {
		return nil, err
	}

	changes := storage.Diff(previous, snapshot)
	rec.Added = len(changes.Added)
	rec.Removed = len(changes.Removed)
	rec.FinishedAt = time.Now()
	if err := store.SaveRunRecord(rec); err != nil {
		log.Printf("news: save run record: %v", err)
	}

	if extraJSONPath != "" && extraJSONPath != store.Path(storage.SnapshotFile) {
		if err := writeJSONCopy(extraJSONPath, snapshot); err != nil {
			log.Printf("news: write %s: %v", extraJSONPath, err)
		}
	}

	log.Printf("news: run %s: %d fetched, %d selected, +%d/-%d",
		rec.RunID, rec.Fetched, rec.Selected, rec.Added, rec.Removed)
	return rec, nil
}

type updateParams struct {
	jsonFile       string
	playlistID     string
	playlistIDFile string
	title          string
	description    string
	privacy        string
}

// runUpdate executes the playlist synchronization step from a snapshot.
func runUpdate(ctx context.Context, cfg *config.Config, service *yt.Service, params updateParams) (*youtube.SyncReport, error) {
	jsonFile := params.jsonFile
	if jsonFile == "" {
		store, err := storage.NewSnapshotStore(cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		jsonFile = store.Path(storage.SnapshotFile)
	}

	snapshot, err := storage.LoadFile(jsonFile)
	if err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		return nil, fmt.Errorf("no videos in %s", jsonFile)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d videos from %s\n", len(snapshot), jsonFile)

	idFile := params.playlistIDFile
	if idFile == "" {
		idFile = cfg.PlaylistIDFile
	}

	playlistID := params.playlistID
	if playlistID == "" && params.title == "" {
		id, err := storage.ReadPlaylistID(idFile)
		if err == nil {
			playlistID = id
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	sync := youtube.NewSynchronizer(youtube.NewPlaylistService(service), cfg.MaxVideosPerChannel)
	candidates := fromSnapshot(snapshot)

	if playlistID != "" {
		return sync.Sync(ctx, playlistID, candidates)
	}

	// First run or explicit --title: create the playlist, then remember it.
	title := params.title
	if title == "" {
		title = "News Feed " + time.Now().Format("2006-01-02")
	}
	description := params.description
	if description == "" {
		description = "Auto-generated news playlist, updated " + time.Now().Format("2006-01-02 15:04:05")
	}

	report, err := sync.CreateAndSync(ctx, title, description, params.privacy, candidates)
	if err != nil {
		return report, err
	}
	if err := storage.WritePlaylistID(idFile, report.PlaylistID); err != nil {
		log.Printf("news: persist playlist ID: %v", err)
	}
	return report, nil
}

// toSnapshot converts selected videos to snapshot entries.
func toSnapshot(selected []score.ScoredVideo) []storage.Video {
	out := make([]storage.Video, 0, len(selected))
	for _, v := range selected {
		out = append(out, storage.Video{
			ID:              v.ID,
			Title:           v.Title,
			Description:     v.Description,
			ChannelID:       v.ChannelID,
			ChannelTitle:    v.ChannelTitle,
			PublishedAt:     v.Published,
			DurationSeconds: int(v.Duration.Seconds()),
			Thumbnail:       v.Thumbnail,
			ViewCount:       v.ViewCount,
			LikeCount:       v.LikeCount,
			CommentCount:    v.CommentCount,
			QualityScore:    v.Quality,
			ViralScore:      v.Viral,
			TotalScore:      v.Total,
		})
	}
	return out
}

// fromSnapshot converts snapshot entries back to the fields the playlist
// synchronizer needs.
func fromSnapshot(snapshot []storage.Video) []youtube.VideoInfo {
	out := make([]youtube.VideoInfo, 0, len(snapshot))
	for _, v := range snapshot {
		out = append(out, youtube.VideoInfo{
			ID:           v.ID,
			Title:        v.Title,
			ChannelID:    v.ChannelID,
			ChannelTitle: v.ChannelTitle,
			Published:    v.PublishedAt,
		})
	}
	return out
}

// writeJSONCopy writes the snapshot to an extra path requested by --json-file.
func writeJSONCopy(path string, videos []storage.Video) error {
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// printPlaylistInfo prints a short playlist summary, best effort.
func printPlaylistInfo(ctx context.Context, service *yt.Service, playlistID string) {
	info, err := youtube.NewPlaylistService(service).Info(ctx, playlistID)
	if err != nil {
		log.Printf("news: playlist info: %v", err)
		return
	}
	fmt.Printf("Title:  %s\n", info.Title)
	fmt.Printf("Videos: %d\n", info.ItemCount)
	fmt.Printf("URL:    %s\n", info.URL())
}
