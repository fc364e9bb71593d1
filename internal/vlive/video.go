package vlive

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"vlivedl/internal/extract"
	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

type livePlayInfo struct {
	Result *struct {
		StreamList []struct {
			ServiceURL string `json:"serviceUrl"`
			StreamName string `json:"streamName"`
		} `json:"streamList"`
	} `json:"result"`
}

type inkeyResponse struct {
	Inkey string `json:"inkey"`
}

// Video resolves a single numeric video id.
func (e *Extractor) Video(ctx context.Context, videoID string) (*media.Video, error) {
	if err := httputil.ValidateNumericID(videoID); err != nil {
		return nil, fmt.Errorf("invalid video id: %w", err)
	}

	page, err := e.session.Page(ctx, httputil.Request{URL: e.videoURL(videoID)})
	if err != nil {
		return nil, fmt.Errorf("downloading video page %s: %w", videoID, err)
	}
	state, err := ParsePreloadState(page)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.VideoID = videoID
		}
		return nil, err
	}
	return e.fromState(ctx, videoID, state)
}

// fromState dispatches on the resolved status. Only the Replay arm fetches
// the video key.
func (e *Extractor) fromState(ctx context.Context, videoID string, state *PreloadState) (*media.Video, error) {
	ov := state.Video()
	if ov.Type == "" {
		return nil, &ParseError{VideoID: videoID, Field: "officialVideo.type"}
	}
	status := ResolveStatus(ov)
	e.log.Debug().Str("video", videoID).Str("status", status.Raw).Msg("resolved status")

	switch status.Kind {
	case StatusLiveOnAir, StatusBigEventOnAir, StatusLive:
		return e.live(ctx, videoID, state)
	case StatusVODOnAir, StatusBigEventIntro, StatusVOD:
		return e.replay(ctx, videoID, state)
	case StatusLiveEnd:
		return nil, &StatusError{VideoID: videoID, Status: status, Message: "replay not yet available"}
	case StatusComingSoon, StatusUpcoming:
		return nil, &StatusError{VideoID: videoID, Status: status, Message: "not yet started"}
	case StatusCanceled:
		return nil, &StatusError{VideoID: videoID, Status: status, Message: "broadcast canceled"}
	case StatusOnlyApp:
		return nil, &StatusError{VideoID: videoID, Status: status, Message: "unsupported delivery channel"}
	case StatusUnknown:
		return nil, &UnknownStatusError{VideoID: videoID, Raw: status.Raw}
	}
	return nil, &UnknownStatusError{VideoID: videoID, Raw: status.Raw}
}

func (e *Extractor) common(videoID string, state *PreloadState) *media.Video {
	return &media.Video{
		ID:        videoID,
		Formats:   []media.Format{},
		Title:     state.Title(),
		Creator:   state.Creator(),
		Thumbnail: state.Video().Thumb,
	}
}

// live builds one manifest format per stream entry. Entries whose manifest
// cannot be read are skipped.
func (e *Extractor) live(ctx context.Context, videoID string, state *PreloadState) (*media.Video, error) {
	var info livePlayInfo
	err := e.session.DecodeJSON(ctx, httputil.Request{
		URL:     e.opts.BaseURL + "/globalv-web/vam-web/old/v3/live/" + url.PathEscape(videoID) + "/playInfo",
		Referer: e.videoURL(videoID),
	}, &info)
	if err != nil {
		return nil, fmt.Errorf("downloading live play info %s: %w", videoID, err)
	}
	if info.Result == nil {
		return nil, &ParseError{VideoID: videoID, Field: "live play info"}
	}

	video := e.common(videoID, state)
	video.IsLive = true
	for _, s := range info.Result.StreamList {
		if s.ServiceURL == "" {
			e.log.Warn().Str("video", videoID).Str("stream", s.StreamName).Msg("stream without manifest URL")
			continue
		}
		f, err := e.manifest.Format(ctx, s.ServiceURL, s.StreamName, true)
		if err != nil {
			e.log.Warn().Err(err).Str("video", videoID).Str("stream", s.StreamName).Msg("skipping live stream")
			continue
		}
		video.Formats = append(video.Formats, f)
	}
	extract.SortFormats(video.Formats)
	return video, nil
}

// replay fetches the video key and hands off to the VOD backend. Page
// metadata wins over backend metadata where the page has a value.
func (e *Extractor) replay(ctx context.Context, videoID string, state *PreloadState) (*media.Video, error) {
	vodID := state.Video().VodID
	if vodID == "" {
		return nil, &ParseError{VideoID: videoID, Field: "vodId"}
	}
	key, err := e.fetchKey(ctx, videoID)
	if err != nil {
		return nil, err
	}

	video, err := e.vod.Extract(ctx, videoID, vodID, key)
	if err != nil {
		return nil, fmt.Errorf("extracting replay %s: %w", videoID, err)
	}

	page := e.common(videoID, state)
	video.ID = videoID
	video.Title = page.Title
	if page.Creator != "" {
		video.Creator = page.Creator
	}
	if page.Thumbnail != "" {
		video.Thumbnail = page.Thumbnail
	}
	return video, nil
}

func (e *Extractor) fetchKey(ctx context.Context, videoID string) (string, error) {
	var resp inkeyResponse
	err := e.session.DecodeJSON(ctx, httputil.Request{
		URL:     e.opts.BaseURL + "/globalv-web/vam-web/video/v1.0/vod/" + url.PathEscape(videoID) + "/inkey",
		Referer: e.videoURL(videoID),
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("downloading video key %s: %w", videoID, err)
	}
	if resp.Inkey == "" {
		return "", &ParseError{VideoID: videoID, Field: "inkey"}
	}
	return resp.Inkey, nil
}
