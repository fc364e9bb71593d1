package vlive

import (
	"context"
	"errors"
	"testing"
)

func TestPost(t *testing.T) {
	s := newSite(t)
	s.html("/post/0-18396482", readFixture(t, "video_1326.html"))
	s.html("/video/1326", readFixture(t, "video_1326.html"))
	s.json(inkeyPath, `{"inkey":"k"}`)

	e := newTestExtractor(s, Options{}, replayBackend(), nil)
	video, err := e.Post(context.Background(), "0-18396482")
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	if video.ID != "1326" {
		t.Errorf("ID = %q, want 1326", video.ID)
	}
}

func TestPostWithoutVideo(t *testing.T) {
	s := newSite(t)
	s.html("/post/1-1", `<script>window.__PRELOADED_STATE__={"postDetail":{"post":{"title":"text only"}}}</script>`)

	e := newTestExtractor(s, Options{}, nil, nil)
	_, err := e.Post(context.Background(), "1-1")
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Field != "videoSeq" {
		t.Errorf("error = %v, want ParseError for videoSeq", err)
	}
}
