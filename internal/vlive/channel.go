package vlive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

var appIDRe = regexp.MustCompile(`Global\.VFAN_APP_ID\s*=\s*['"]([^'"]+)['"]`)

type decodeChannelResponse struct {
	Result *struct {
		ChannelSeq json.Number `json:"channelSeq"`
	} `json:"result"`
}

type channelVideoListResponse struct {
	Result *struct {
		ChannelInfo *struct {
			ChannelName string `json:"channelName"`
		} `json:"channelInfo"`
		VideoList []struct {
			VideoSeq json.Number `json:"videoSeq"`
			Title    string      `json:"title"`
		} `json:"videoList"`
	} `json:"result"`
}

// Channel lists every video of a channel, oldest page first.
func (e *Extractor) Channel(ctx context.Context, code string) (*media.Playlist, error) {
	if err := httputil.ValidateChannelCode(code); err != nil {
		return nil, fmt.Errorf("invalid channel code: %w", err)
	}

	appID := e.appID(ctx, code)

	var decoded decodeChannelResponse
	err := e.session.DecodeJSON(ctx, httputil.Request{
		URL: e.opts.APIURL + "/vproxy/channelplus/decodeChannelCode",
		Query: url.Values{
			"app_id":      {appID},
			"channelCode": {code},
			"_":           {cacheBuster()},
		},
	}, &decoded)
	if err != nil {
		return nil, fmt.Errorf("decoding channel code %s: %w", code, err)
	}
	if decoded.Result == nil || decoded.Result.ChannelSeq == "" {
		return nil, &ParseError{Field: "channelSeq", Err: fmt.Errorf("channel %s", code)}
	}
	channelSeq := decoded.Result.ChannelSeq.String()

	pl := &media.Playlist{ID: code}
	for page := 1; ; page++ {
		var list channelVideoListResponse
		err := e.session.DecodeJSON(ctx, httputil.Request{
			URL: e.opts.APIURL + "/vproxy/channelplus/getChannelVideoList",
			Query: url.Values{
				"app_id":       {appID},
				"channelSeq":   {channelSeq},
				"maxNumOfRows": {strconv.Itoa(e.opts.PageSize)},
				"pageNo":       {strconv.Itoa(page)},
				"_":            {cacheBuster()},
			},
		}, &list)
		if err != nil {
			return nil, fmt.Errorf("downloading channel list page %d: %w", page, err)
		}
		if list.Result == nil {
			break
		}
		if pl.Title == "" && list.Result.ChannelInfo != nil {
			pl.Title = list.Result.ChannelInfo.ChannelName
		}
		if len(list.Result.VideoList) == 0 {
			break
		}
		for _, v := range list.Result.VideoList {
			id := v.VideoSeq.String()
			if id == "" || id == "0" {
				continue
			}
			pl.Entries = append(pl.Entries, media.Entry{ID: id, URL: e.videoURL(id)})
		}
		e.log.Debug().Str("channel", code).Int("page", page).Int("entries", len(pl.Entries)).Msg("channel list page")
	}
	return pl, nil
}

// appID reads the app id from the channel page's app.js bundle and falls back
// to the configured default when either request fails.
func (e *Extractor) appID(ctx context.Context, code string) string {
	page, err := e.session.Page(ctx, httputil.Request{URL: e.opts.ChannelsURL + "/" + code + "/video"})
	if err != nil {
		e.log.Warn().Err(err).Str("channel", code).Msg("downloading channel page")
		return e.opts.AppID
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return e.opts.AppID
	}

	var src string
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("src")
		if strings.Contains(v, "/app.js") {
			src = v
			return false
		}
		return true
	})
	if src == "" {
		return e.opts.AppID
	}
	if base, err := url.Parse(e.opts.ChannelsURL + "/"); err == nil {
		if ref, err := url.Parse(src); err == nil {
			src = base.ResolveReference(ref).String()
		}
	}

	js, err := e.session.Page(ctx, httputil.Request{URL: src})
	if err != nil {
		e.log.Warn().Err(err).Str("channel", code).Msg("downloading app.js")
		return e.opts.AppID
	}
	if m := appIDRe.FindStringSubmatch(js); m != nil {
		return m[1]
	}
	return e.opts.AppID
}

func cacheBuster() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
