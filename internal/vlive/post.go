package vlive

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

// Post resolves the video attached to a post.
func (e *Extractor) Post(ctx context.Context, postID string) (*media.Video, error) {
	page, err := e.session.Page(ctx, httputil.Request{URL: e.opts.BaseURL + "/post/" + url.PathEscape(postID)})
	if err != nil {
		return nil, fmt.Errorf("downloading post page %s: %w", postID, err)
	}
	state, err := ParsePreloadState(page)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", postID, err)
	}

	seq := state.Video().VideoSeq.String()
	if seq == "" || seq == "0" {
		return nil, &ParseError{Field: "videoSeq", Err: errors.New("post " + postID + " has no video")}
	}
	return e.Video(ctx, seq)
}
