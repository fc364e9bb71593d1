package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
	"vlivedl/internal/player"
	"vlivedl/internal/subtitle"
	"vlivedl/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Resolve a URL and stream it with the configured player",
	Args:  cobra.ExactArgs(1),
	RunE:  playRun,
}

func playRun(cmd *cobra.Command, args []string) error {
	return resolveAndPlay(cmd.Context(), args[0])
}

// resolveAndPlay resolves rawURL, lets the user pick an entry for
// playlists, and plays the chosen format.
func resolveAndPlay(ctx context.Context, rawURL string) error {
	ex, session, err := newExtractor(ctx)
	if err != nil {
		return err
	}

	res, err := ex.Resolve(ctx, rawURL)
	if err != nil {
		return err
	}

	video, err := selectVideo(ctx, ex.Video, res)
	if err != nil {
		return err
	}
	f, err := selectFormat(video)
	if err != nil {
		return err
	}
	debugf("format: %s (%s)", f.ID, f.URL)

	subFile, cleanup := fetchSubtitle(ctx, session, video)
	defer cleanup()

	p := player.New(cfg.Player)
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	err = p.Play(ctx, player.Request{
		Format:    f,
		Title:     video.Title,
		SubFile:   subFile,
		UserAgent: session.UserAgent,
		Referer:   cfg.BaseURL + "/video/" + video.ID,
	})
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	record(ctx, &media.Result{Video: video})
	return nil
}

// selectVideo returns the single video of res, or asks the user to pick a
// playlist entry. Entries listed flat are resolved on selection.
func selectVideo(ctx context.Context, resolve func(context.Context, string) (*media.Video, error), res *media.Result) (*media.Video, error) {
	if res.Video != nil {
		return res.Video, nil
	}
	if res.Playlist == nil || len(res.Playlist.Entries) == 0 {
		return nil, fmt.Errorf("nothing to play")
	}

	entries := res.Playlist.Entries
	items := make([]string, len(entries))
	for i, e := range entries {
		switch {
		case e.Video != nil:
			items[i] = e.Video.Title
		case e.Err != "":
			items[i] = e.ID + " (" + e.Err + ")"
		default:
			items[i] = e.ID
		}
	}

	idx, err := ui.Select("Video", items)
	if err != nil {
		return nil, err
	}
	selected := entries[idx]
	if selected.Video != nil {
		return selected.Video, nil
	}
	return resolve(ctx, selected.ID)
}

func selectFormat(v *media.Video) (media.Format, error) {
	f, ok := media.PickFormat(v.Formats, cfg.Quality)
	if !ok {
		return media.Format{}, fmt.Errorf("no playable formats for %s", v.ID)
	}
	return f, nil
}

// fetchSubtitle downloads the best subtitle for the configured language.
// Failures are logged and playback continues without subtitles.
func fetchSubtitle(ctx context.Context, session *httputil.Session, v *media.Video) (string, func()) {
	noop := func() {}
	if flagNoSubs {
		return "", noop
	}
	best := subtitle.BestMatch(v, cfg.SubsLanguage)
	if best == nil {
		return "", noop
	}

	tmpDir, err := subtitle.NewTempDir()
	if err != nil {
		logger.Warn().Err(err).Msg("creating subtitle dir")
		return "", noop
	}
	subFile, err := tmpDir.Download(ctx, session, *best)
	if err != nil {
		fmt.Fprintf(os.Stderr, "subtitle download failed: %v\n", err)
		tmpDir.Cleanup()
		return "", noop
	}
	debugf("subtitle file: %s", subFile)
	return subFile, tmpDir.Cleanup
}
