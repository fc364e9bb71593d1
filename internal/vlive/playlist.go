package vlive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

var playlistSeqsRe = regexp.MustCompile(`playlistVideoSeqs\s*=\s*(\[[^]]+\])`)

// Playlist resolves a multi-camera playlist anchored at videoID. When the
// page lists no item ids, or NoPlaylist is set, only the anchor video is
// returned.
func (e *Extractor) Playlist(ctx context.Context, videoID, playlistID string) (*media.Result, error) {
	if e.opts.NoPlaylist {
		e.log.Debug().Str("video", videoID).Msg("downloading just the anchor video")
		return e.anchor(ctx, videoID)
	}

	page, err := e.session.Page(ctx, httputil.Request{
		URL: e.videoURL(videoID) + "/playlist/" + url.PathEscape(playlistID),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading playlist page %s: %w", playlistID, err)
	}

	ids, err := playlistVideoIDs(page)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		e.log.Debug().Str("playlist", playlistID).Msg("no playlist items, using anchor video")
		return e.anchor(ctx, videoID)
	}

	pl := &media.Playlist{ID: playlistID, Title: playlistTitle(page)}
	for _, id := range ids {
		pl.Entries = append(pl.Entries, media.Entry{ID: id, URL: e.videoURL(id)})
	}
	return &media.Result{Playlist: pl}, nil
}

func (e *Extractor) anchor(ctx context.Context, videoID string) (*media.Result, error) {
	v, err := e.Video(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &media.Result{Video: v}, nil
}

// playlistVideoIDs returns the item ids listed on the page. A missing list
// yields no ids; a list that is present but undecodable is an error.
func playlistVideoIDs(page string) ([]string, error) {
	m := playlistSeqsRe.FindStringSubmatch(page)
	if m == nil {
		return nil, nil
	}
	var seqs []json.Number
	if err := json.Unmarshal([]byte(m[1]), &seqs); err != nil {
		return nil, &ParseError{Field: "playlist video seqs", Err: err}
	}
	ids := make([]string, 0, len(seqs))
	for _, s := range seqs {
		if s != "" {
			ids = append(ids, s.String())
		}
	}
	return ids, nil
}

func playlistTitle(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find(`div[class~="multicam_playlist"] h3`).First().Text())
}
