package vlive

import (
	"context"
	"errors"
	"testing"
)

func TestPlaylist(t *testing.T) {
	s := newSite(t)
	s.html("/video/1326/playlist/77", readFixture(t, "playlist.html"))

	e := newTestExtractor(s, Options{}, nil, nil)
	res, err := e.Playlist(context.Background(), "1326", "77")
	if err != nil {
		t.Fatalf("Playlist() error: %v", err)
	}
	if res.Playlist == nil {
		t.Fatal("expected a playlist result")
	}

	pl := res.Playlist
	if pl.ID != "77" || pl.Title != "Girl's Day Multicam" {
		t.Errorf("playlist = %q %q", pl.ID, pl.Title)
	}
	want := []string{"1326", "1327", "1328"}
	if len(pl.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(pl.Entries), len(want))
	}
	for i, id := range want {
		if pl.Entries[i].ID != id {
			t.Errorf("entry[%d].ID = %q, want %q", i, pl.Entries[i].ID, id)
		}
	}
}

func TestPlaylistFallsBackToAnchor(t *testing.T) {
	tests := []struct {
		name       string
		page       string
		noPlaylist bool
	}{
		{"no item ids", `<html><div class="multicam_playlist"><h3>x</h3></div></html>`, false},
		{"empty item list", `<script>var playlistVideoSeqs = [ ];</script>`, false},
		{"no playlist toggle", `<script>var playlistVideoSeqs = [1326, 1327];</script>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSite(t)
			s.html("/video/1326/playlist/77", tt.page)
			s.html("/video/1326", statePage("VOD", false, "VOD123"))
			s.json(inkeyPath, `{"inkey":"k"}`)

			e := newTestExtractor(s, Options{NoPlaylist: tt.noPlaylist}, replayBackend(), nil)
			res, err := e.Playlist(context.Background(), "1326", "77")
			if err != nil {
				t.Fatalf("Playlist() error: %v", err)
			}
			if res.Playlist != nil || res.Video == nil {
				t.Fatalf("result = %+v, want only the anchor video", res)
			}
			if res.Video.ID != "1326" {
				t.Errorf("ID = %q, want 1326", res.Video.ID)
			}
			if tt.noPlaylist && s.count("/video/1326/playlist/77") != 0 {
				t.Error("playlist page fetched with the no-playlist toggle set")
			}
		})
	}
}

func TestPlaylistMalformedItemList(t *testing.T) {
	s := newSite(t)
	s.html("/video/1326/playlist/77", `<script>var playlistVideoSeqs = [1326, 1327,];</script>`)

	e := newTestExtractor(s, Options{}, nil, nil)
	res, err := e.Playlist(context.Background(), "1326", "77")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got res=%+v err=%v", res, err)
	}
	if pe.Field != "playlist video seqs" {
		t.Errorf("Field = %q", pe.Field)
	}
	if s.count("/video/1326") != 0 {
		t.Error("anchor video fetched for a malformed item list")
	}
}
