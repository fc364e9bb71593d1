package download

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"vlivedl/internal/media"
)

func TestBuildArgs(t *testing.T) {
	job := Job{
		Format:    media.Format{URL: "https://cdn/720.mp4"},
		Title:     "[V LIVE] Broadcast",
		UserAgent: "agent",
		Referer:   "https://www.vlive.tv/video/1326",
	}

	args := buildArgs(job, "/out/x.mkv")
	want := []string{
		"-y",
		"-user_agent", "agent",
		"-headers", "Referer: https://www.vlive.tv/video/1326\r\n",
		"-i", "https://cdn/720.mp4",
		"-c:v", "copy",
		"-c:a", "copy",
		"-metadata", "title=[V LIVE] Broadcast",
		"/out/x.mkv",
	}
	if !slices.Equal(args, want) {
		t.Errorf("buildArgs() = %q\nwant %q", args, want)
	}
}

func TestBuildArgsWithSubtitle(t *testing.T) {
	args := buildArgs(Job{
		Format:  media.Format{URL: "https://cdn/720.mp4"},
		Title:   "t",
		SubFile: "/tmp/en.vtt",
	}, "/out/t.mkv")

	joined := strings.Join(args, " ")
	for _, want := range []string{"-i /tmp/en.vtt", "-c:s srt", "-map 1:s"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	path, err := OutputPath(filepath.Join(dir, "videos"), "../../[V LIVE] a/b")
	if err != nil {
		t.Fatalf("OutputPath() error: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, "videos") {
		t.Errorf("path %q escaped the output directory", path)
	}
	if !strings.HasSuffix(path, ".mkv") {
		t.Errorf("path %q has no .mkv suffix", path)
	}
}
