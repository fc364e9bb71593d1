package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vlivedl/internal/download"
	"vlivedl/internal/media"
)

var flagDir string

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Resolve a URL and download it with ffmpeg",
	Args:  cobra.ExactArgs(1),
	RunE:  downloadRun,
}

func init() {
	downloadCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "Download directory (default: download_dir from config)")
}

func downloadRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ex, session, err := newExtractor(ctx)
	if err != nil {
		return err
	}

	res, err := ex.Resolve(ctx, args[0])
	if err != nil {
		return err
	}

	dir := flagDir
	if dir == "" {
		if dir, err = cfg.ExpandDownloadDir(); err != nil {
			return fmt.Errorf("resolving download dir: %w", err)
		}
	}

	// A single video downloads directly; a playlist downloads every
	// resolved entry unless the user asked to pick one.
	videos := res.Videos()
	if res.Video == nil && cfg.Flat {
		v, err := selectVideo(ctx, ex.Video, res)
		if err != nil {
			return err
		}
		videos = []*media.Video{v}
	}
	if len(videos) == 0 {
		return fmt.Errorf("nothing to download")
	}

	for _, v := range videos {
		f, err := selectFormat(v)
		if err != nil {
			logger.Warn().Err(err).Str("video", v.ID).Msg("skipping download")
			continue
		}

		subFile, cleanup := fetchSubtitle(ctx, session, v)
		path, err := download.Download(ctx, download.Job{
			Format:    f,
			Title:     v.Title,
			OutputDir: dir,
			SubFile:   subFile,
			UserAgent: session.UserAgent,
			Referer:   cfg.BaseURL + "/video/" + v.ID,
		}, logger)
		cleanup()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Downloaded: %s\n", path)
	}

	record(ctx, res)
	return nil
}
