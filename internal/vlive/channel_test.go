package vlive

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
)

const (
	decodePath = "/vproxy/channelplus/decodeChannelCode"
	listPath   = "/vproxy/channelplus/getChannelVideoList"
)

// serveChannel serves a channel whose videos are split into pages of the
// given sizes. Video sequence numbers count up from 1.
func serveChannel(t *testing.T, s *site, wantAppID string, pages ...int) {
	t.Helper()
	s.mux.HandleFunc(decodePath, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("app_id"); got != wantAppID {
			t.Errorf("decode app_id = %q, want %q", got, wantAppID)
		}
		if r.URL.Query().Get("channelCode") != "FDF27" {
			t.Errorf("channelCode = %q", r.URL.Query().Get("channelCode"))
		}
		fmt.Fprint(w, `{"result":{"channelSeq":8}}`)
	})
	s.mux.HandleFunc(listPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("channelSeq") != "8" || q.Get("app_id") != wantAppID {
			t.Errorf("list query = %v", q)
		}
		if q.Get("maxNumOfRows") != "100" {
			t.Errorf("maxNumOfRows = %q, want 100", q.Get("maxNumOfRows"))
		}
		page, _ := strconv.Atoi(q.Get("pageNo"))
		if page < 1 || page > len(pages) {
			fmt.Fprint(w, `{"result":{"videoList":[]}}`)
			return
		}
		start := 1
		for _, n := range pages[:page-1] {
			start += n
		}
		var items []string
		for seq := start; seq < start+pages[page-1]; seq++ {
			items = append(items, fmt.Sprintf(`{"videoSeq":%d,"title":"video %d"}`, seq, seq))
		}
		fmt.Fprintf(w, `{"result":{"channelInfo":{"channelName":"Girl's Day"},"videoList":[%s]}}`, strings.Join(items, ","))
	})
}

func TestChannelPagination(t *testing.T) {
	s := newSite(t)
	s.html("/channels/FDF27/video", readFixture(t, "channel_video.html"))
	s.handle("/js/app.js", "application/javascript", `(function(){Global.VFAN_APP_ID = 'a1b2c3';})();`)
	serveChannel(t, s, "a1b2c3", 100, 37)

	e := newTestExtractor(s, Options{}, nil, nil)
	pl, err := e.Channel(context.Background(), "FDF27")
	if err != nil {
		t.Fatalf("Channel() error: %v", err)
	}

	if len(pl.Entries) != 137 {
		t.Fatalf("got %d entries, want 137", len(pl.Entries))
	}
	for i, entry := range pl.Entries {
		if want := strconv.Itoa(i + 1); entry.ID != want {
			t.Fatalf("entry[%d].ID = %q, want %q", i, entry.ID, want)
		}
	}
	if pl.Entries[136].URL != s.srv.URL+"/video/137" {
		t.Errorf("last entry URL = %q", pl.Entries[136].URL)
	}
	if pl.Title != "Girl's Day" || pl.ID != "FDF27" {
		t.Errorf("playlist = %q %q", pl.ID, pl.Title)
	}
	if got := s.count(listPath); got != 3 {
		t.Errorf("list requests = %d, want 3", got)
	}
}

func TestChannelDefaultAppID(t *testing.T) {
	s := newSite(t)
	s.html("/channels/FDF27/video", `<html><head><script src="/js/vendor.js"></script></head></html>`)
	serveChannel(t, s, DefaultAppID, 3)

	e := newTestExtractor(s, Options{}, nil, nil)
	pl, err := e.Channel(context.Background(), "FDF27")
	if err != nil {
		t.Fatalf("Channel() error: %v", err)
	}
	if len(pl.Entries) != 3 {
		t.Errorf("got %d entries, want 3", len(pl.Entries))
	}
}

func TestChannelSkipsEntriesWithoutID(t *testing.T) {
	s := newSite(t)
	s.json(decodePath, `{"result":{"channelSeq":"8"}}`)
	s.mux.HandleFunc(listPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageNo") == "1" {
			fmt.Fprint(w, `{"result":{"videoList":[{"videoSeq":5},{"title":"notice"},{"videoSeq":0},{"videoSeq":6}]}}`)
			return
		}
		fmt.Fprint(w, `{"result":{}}`)
	})

	e := newTestExtractor(s, Options{}, nil, nil)
	pl, err := e.Channel(context.Background(), "FDF27")
	if err != nil {
		t.Fatalf("Channel() error: %v", err)
	}
	if len(pl.Entries) != 2 || pl.Entries[0].ID != "5" || pl.Entries[1].ID != "6" {
		t.Errorf("entries = %+v", pl.Entries)
	}
}

func TestChannelTitleWithoutVideos(t *testing.T) {
	s := newSite(t)
	s.json(decodePath, `{"result":{"channelSeq":"8"}}`)
	s.json(listPath, `{"result":{"channelInfo":{"channelName":"MAMAMOO"},"videoList":[]}}`)

	e := newTestExtractor(s, Options{}, nil, nil)
	pl, err := e.Channel(context.Background(), "FDF27")
	if err != nil {
		t.Fatalf("Channel() error: %v", err)
	}
	if pl.Title != "MAMAMOO" {
		t.Errorf("Title = %q, want MAMAMOO", pl.Title)
	}
	if len(pl.Entries) != 0 {
		t.Errorf("entries = %+v, want none", pl.Entries)
	}
}

func TestChannelErrors(t *testing.T) {
	s := newSite(t)
	s.json(decodePath, `{"result":null}`)
	e := newTestExtractor(s, Options{}, nil, nil)

	if _, err := e.Channel(context.Background(), "FDF27"); err == nil {
		t.Error("expected error without channelSeq")
	}
	if _, err := e.Channel(context.Background(), "fdf27"); err == nil {
		t.Error("expected error for lower-case channel code")
	}
}
