// Package download provides secure ffmpeg-based media downloading.
// Uses exec.CommandContext with explicit argument slices and validates
// output paths against directory traversal attacks.
package download

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

// Job is one download.
type Job struct {
	Format    media.Format
	Title     string
	OutputDir string
	SubFile   string
	UserAgent string
	Referer   string
}

// Download fetches a format to a local file using ffmpeg and returns the
// file's path.
func Download(ctx context.Context, job Job, log zerolog.Logger) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	outputPath, err := OutputPath(job.OutputDir, job.Title)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, buildArgs(job, outputPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Info().Str("format", job.Format.ID).Str("path", outputPath).Msg("downloading")

	if err := cmd.Run(); err != nil {
		// Clean up partial download on failure
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg download failed: %w", err)
	}
	return outputPath, nil
}

// OutputPath creates outputDir if needed and returns the file path for title.
func OutputPath(outputDir, title string) (string, error) {
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := httputil.SanitizeFilename(title) + ".mkv"
	outputPath, err := httputil.SafeDownloadPath(absDir, filename)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	return outputPath, nil
}

func buildArgs(job Job, outputPath string) []string {
	args := []string{"-y"}

	// Input options apply to the next -i only.
	if job.UserAgent != "" {
		args = append(args, "-user_agent", job.UserAgent)
	}
	if job.Referer != "" {
		args = append(args, "-headers", "Referer: "+job.Referer+"\r\n")
	}
	args = append(args, "-i", job.Format.URL)

	if job.SubFile != "" {
		args = append(args, "-i", job.SubFile)
	}

	args = append(args,
		"-c:v", "copy",
		"-c:a", "copy",
	)

	if job.SubFile != "" {
		args = append(args,
			"-c:s", "srt",
			"-map", "0:v",
			"-map", "0:a",
			"-map", "1:s",
		)
	}

	return append(args,
		"-metadata", "title="+job.Title,
		outputPath,
	)
}
