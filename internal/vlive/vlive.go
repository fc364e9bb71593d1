// Package vlive resolves V LIVE video, post, playlist and channel URLs into
// normalized media descriptors.
package vlive

import (
	"strings"

	"github.com/rs/zerolog"

	"vlivedl/internal/extract"
	"vlivedl/internal/httputil"
)

const (
	DefaultBaseURL     = "https://www.vlive.tv"
	DefaultChannelsURL = "http://channels.vlive.tv"
	DefaultAPIURL      = "http://api.vfan.vlive.tv"

	// DefaultAppID is used when the channel page does not expose one.
	DefaultAppID = "8c6cc7b45d2568fb668be6e05b6e5a3b"

	// MaxPageSize caps channel list pages. The API answers larger
	// maxNumOfRows values (around 300) with empty pages.
	MaxPageSize = 100

	titlePrefix = "[V LIVE] "
)

// Options configures an Extractor. Zero values select the public endpoints.
type Options struct {
	BaseURL     string
	ChannelsURL string
	APIURL      string
	PlayURL     string
	AppID       string
	PageSize    int

	// NoPlaylist resolves only the anchor video of a playlist URL.
	NoPlaylist bool
	// Flat lists playlist and channel entries without resolving each video.
	Flat bool
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.ChannelsURL == "" {
		o.ChannelsURL = DefaultChannelsURL
	}
	if o.APIURL == "" {
		o.APIURL = DefaultAPIURL
	}
	if o.AppID == "" {
		o.AppID = DefaultAppID
	}
	if o.PageSize <= 0 || o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	o.ChannelsURL = strings.TrimRight(o.ChannelsURL, "/")
	o.APIURL = strings.TrimRight(o.APIURL, "/")
	return o
}

// Extractor talks to V LIVE through one explicit session.
type Extractor struct {
	session  *httputil.Session
	opts     Options
	vod      extract.VOD
	manifest extract.Manifest
	log      zerolog.Logger
}

// New creates an Extractor using the Naver backend for replays and HLS
// manifests for live streams.
func New(session *httputil.Session, opts Options, log zerolog.Logger) *Extractor {
	opts = opts.withDefaults()
	return &Extractor{
		session:  session,
		opts:     opts,
		vod:      extract.NewNaver(session, opts.PlayURL),
		manifest: extract.NewHLS(session, opts.BaseURL+"/"),
		log:      log,
	}
}

func (e *Extractor) videoURL(id string) string {
	return e.opts.BaseURL + "/video/" + id
}
