package player

import (
	"slices"
	"testing"

	"vlivedl/internal/media"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mpv", "mpv"},
		{"vlc", "vlc"},
		{"iina", "iina"},
		{"celluloid", "celluloid"},
		{"unknown", "mpv"},
	}
	for _, tt := range tests {
		if got := New(tt.name).Name(); got != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMPVArgs(t *testing.T) {
	req := Request{
		Format:    media.Format{URL: "https://live.cdn/1080p/playlist.m3u8", Live: true},
		Title:     "[V LIVE] On Air; rm -rf /",
		SubFile:   "/tmp/subs/en_US.vtt",
		UserAgent: "test-agent",
		Referer:   "https://www.vlive.tv/video/1326",
	}

	args := mpvArgs(req)
	want := []string{
		"https://live.cdn/1080p/playlist.m3u8",
		"--force-media-title=[V LIVE] On Air; rm -rf /",
		"--http-header-fields=Referer: https://www.vlive.tv/video/1326",
		"--user-agent=test-agent",
		"--force-seekable=no",
		"--sub-file=/tmp/subs/en_US.vtt",
	}
	if !slices.Equal(args, want) {
		t.Errorf("mpvArgs() = %q\nwant %q", args, want)
	}

	req.Format.Live = false
	if slices.Contains(mpvArgs(req), "--force-seekable=no") {
		t.Error("replay marked as non-seekable")
	}
}

func TestVLCArgs(t *testing.T) {
	args := vlcArgs(Request{
		Format: media.Format{URL: "https://cdn/720.mp4"},
		Title:  "Broadcast",
	})
	want := []string{"https://cdn/720.mp4", "--meta-title", "Broadcast", "--play-and-exit"}
	if !slices.Equal(args, want) {
		t.Errorf("vlcArgs() = %q, want %q", args, want)
	}
}
