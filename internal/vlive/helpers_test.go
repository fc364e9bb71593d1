package vlive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vlivedl/internal/extract"
	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

// site is a fake V LIVE server that counts hits per path.
type site struct {
	mu   sync.Mutex
	hits map[string]int
	mux  *http.ServeMux
	srv  *httptest.Server
}

func newSite(t *testing.T) *site {
	t.Helper()
	s := &site{hits: make(map[string]int), mux: http.NewServeMux()}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *site) handle(path, contentType, body string) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	})
}

func (s *site) html(path, body string) { s.handle(path, "text/html", body) }
func (s *site) json(path, body string) { s.handle(path, "application/json", body) }

func (s *site) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *site) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", name, err)
	}
	return string(data)
}

func statePage(typ string, upcoming bool, vodID string) string {
	return fmt.Sprintf(`<html><head><script>window.__PRELOADED_STATE__={"postDetail":{"post":{"title":"Girl's Day's Broadcast","officialVideo":{"type":%q,"upcomingYn":%t,"vodId":%q,"videoSeq":1326,"thumb":"https://thumb/1326.jpg"}}},"channel":{"channel":{"channelName":"Girl's Day"}}};</script></head><body></body></html>`,
		typ, upcoming, vodID)
}

type fakeVOD struct {
	calls  int
	vodID  string
	key    string
	result media.Video
	err    error
}

func (f *fakeVOD) Extract(_ context.Context, videoID, vodID, key string) (*media.Video, error) {
	f.calls++
	f.vodID, f.key = vodID, key
	if f.err != nil {
		return nil, f.err
	}
	v := f.result
	v.ID = videoID
	return &v, nil
}

type fakeManifest struct {
	calls int
	fail  map[string]bool
}

func (f *fakeManifest) Format(_ context.Context, manifestURL, formatID string, live bool) (media.Format, error) {
	f.calls++
	if f.fail[formatID] {
		return media.Format{}, errors.New("manifest unavailable")
	}
	return media.Format{ID: formatID, URL: manifestURL, Protocol: media.M3U8, Ext: "mp4", Live: live}, nil
}

func newTestExtractor(s *site, opts Options, vod extract.VOD, manifest extract.Manifest) *Extractor {
	opts.BaseURL = s.srv.URL
	opts.APIURL = s.srv.URL
	opts.ChannelsURL = s.srv.URL + "/channels"
	e := New(httputil.NewSession(5*time.Second, ""), opts, zerolog.Nop())
	if vod != nil {
		e.vod = vod
	}
	if manifest != nil {
		e.manifest = manifest
	}
	return e
}
