package vlive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const preloadMarker = "window.__PRELOADED_STATE__="

// PreloadState is the subset of the page-embedded application state that
// video and post pages carry.
type PreloadState struct {
	PostDetail struct {
		Post Post `json:"post"`
	} `json:"postDetail"`
	Channel struct {
		Channel struct {
			ChannelName string `json:"channelName"`
		} `json:"channel"`
	} `json:"channel"`
}

// Post is the post block of the page state.
type Post struct {
	Title         string        `json:"title"`
	OfficialVideo OfficialVideo `json:"officialVideo"`
}

// OfficialVideo describes the video attached to a post.
type OfficialVideo struct {
	Type       string      `json:"type"`
	UpcomingYn bool        `json:"upcomingYn"`
	VodID      string      `json:"vodId"`
	VideoSeq   json.Number `json:"videoSeq"`
	Thumb      string      `json:"thumb"`
}

// ParsePreloadState locates the script whose body assigns the preloaded
// state and decodes it. Exactly one such script must be present.
func ParsePreloadState(page string) (*PreloadState, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, &ParseError{Field: "preload state", Err: err}
	}

	var bodies []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, preloadMarker) {
			bodies = append(bodies, strings.TrimPrefix(text, preloadMarker))
		}
	})
	if len(bodies) != 1 {
		return nil, &ParseError{
			Field: "preload state",
			Err:   fmt.Errorf("found %d state scripts, want 1", len(bodies)),
		}
	}

	raw := bodies[0]
	end := strings.LastIndexByte(raw, '}')
	if end < 0 {
		return nil, &ParseError{Field: "preload state", Err: errors.New("no JSON object")}
	}

	var state PreloadState
	if err := json.Unmarshal([]byte(raw[:end+1]), &state); err != nil {
		return nil, &ParseError{Field: "preload state", Err: err}
	}
	return &state, nil
}

// Video returns the official video block.
func (s *PreloadState) Video() OfficialVideo {
	return s.PostDetail.Post.OfficialVideo
}

// Title is the post title with the site prefix.
func (s *PreloadState) Title() string {
	return titlePrefix + s.PostDetail.Post.Title
}

// Creator is the channel name.
func (s *PreloadState) Creator() string {
	return s.Channel.Channel.ChannelName
}
