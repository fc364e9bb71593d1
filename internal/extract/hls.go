package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

// HLS builds formats from HLS manifests.
type HLS struct {
	session *httputil.Session
	referer string
}

// NewHLS creates an HLS manifest reader. referer is sent with manifest requests.
func NewHLS(session *httputil.Session, referer string) *HLS {
	return &HLS{session: session, referer: referer}
}

// Format fetches and decodes the manifest at manifestURL and returns one
// format describing it. For a master playlist the best variant supplies the
// resolution and bandwidth; a media playlist carries none.
func (h *HLS) Format(ctx context.Context, manifestURL, formatID string, live bool) (media.Format, error) {
	body, err := h.session.Page(ctx, httputil.Request{URL: manifestURL, Referer: h.referer})
	if err != nil {
		return media.Format{}, fmt.Errorf("fetching manifest: %w", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(body), "#EXTM3U") {
		return media.Format{}, fmt.Errorf("not an HLS manifest: %s", manifestURL)
	}

	playlist, listType, err := m3u8.DecodeFrom(strings.NewReader(body), false)
	if err != nil {
		return media.Format{}, fmt.Errorf("decoding manifest: %w", err)
	}

	if formatID == "" {
		formatID = "hls"
	}
	f := media.Format{
		ID:       formatID,
		URL:      manifestURL,
		Protocol: media.M3U8,
		Ext:      "mp4",
		Live:     live,
	}

	if listType == m3u8.MASTER {
		master := playlist.(*m3u8.MasterPlaylist)
		if best := bestVariant(master.Variants); best != nil {
			f.Bitrate = int(best.Bandwidth)
			f.Width, f.Height = parseResolution(best.Resolution)
		}
	}
	return f, nil
}

func bestVariant(variants []*m3u8.Variant) *m3u8.Variant {
	var best *m3u8.Variant
	for _, v := range variants {
		if v == nil || v.Iframe {
			continue
		}
		if best == nil || v.Bandwidth > best.Bandwidth {
			best = v
		}
	}
	return best
}

// parseResolution splits a RESOLUTION attribute such as "1280x720".
func parseResolution(res string) (width, height int) {
	w, h, ok := strings.Cut(res, "x")
	if !ok {
		return 0, 0
	}
	width, _ = strconv.Atoi(w)
	height, _ = strconv.Atoi(h)
	return width, height
}
