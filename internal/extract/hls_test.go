package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

func manifestServer(t *testing.T) *httptest.Server {
	t.Helper()
	master, err := os.ReadFile("testdata/master.m3u8")
	if err != nil {
		t.Fatal(err)
	}
	mediaPl, err := os.ReadFile("testdata/media.m3u8")
	if err != nil {
		t.Fatal(err)
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/master.m3u8":
			w.Write(master)
		case "/media.m3u8":
			w.Write(mediaPl)
		case "/html":
			w.Write([]byte("<html>error page</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestHLSFormatMaster(t *testing.T) {
	srv := manifestServer(t)
	defer srv.Close()

	h := NewHLS(httputil.NewSession(0, ""), "https://www.vlive.tv/video/1")
	f, err := h.Format(context.Background(), srv.URL+"/master.m3u8", "stream_1080", true)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if f.ID != "stream_1080" || f.Protocol != media.M3U8 || !f.Live {
		t.Errorf("format = %+v", f)
	}
	if f.Height != 1080 || f.Width != 1920 || f.Bitrate != 4500000 {
		t.Errorf("best variant not picked: %+v", f)
	}
}

func TestHLSFormatMediaPlaylist(t *testing.T) {
	srv := manifestServer(t)
	defer srv.Close()

	f, err := NewHLS(httputil.NewSession(0, ""), "").Format(context.Background(), srv.URL+"/media.m3u8", "", false)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if f.ID != "hls" {
		t.Errorf("default ID = %q, want hls", f.ID)
	}
	if f.Height != 0 || f.Live {
		t.Errorf("media playlist format = %+v", f)
	}
}

func TestHLSFormatErrors(t *testing.T) {
	srv := manifestServer(t)
	defer srv.Close()

	h := NewHLS(httputil.NewSession(0, ""), "")
	for _, p := range []string{"/missing.m3u8", "/html"} {
		if _, err := h.Format(context.Background(), srv.URL+p, "x", true); err == nil {
			t.Errorf("Format(%s) expected error", p)
		}
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
	}{
		{"1280x720", 1280, 720},
		{"", 0, 0},
		{"bogus", 0, 0},
	}
	for _, tt := range tests {
		w, h := parseResolution(tt.in)
		if w != tt.w || h != tt.h {
			t.Errorf("parseResolution(%q) = %d,%d want %d,%d", tt.in, w, h, tt.w, tt.h)
		}
	}
}
