// Package media defines shared types for the vlivedl application.
package media

import (
	"strconv"
	"time"
)

// Protocol names how a format is retrieved.
type Protocol string

const (
	HTTPS Protocol = "https" // single progressive file
	M3U8  Protocol = "m3u8"  // HLS manifest
)

// Video is the normalized descriptor for a single video.
type Video struct {
	ID                string                `json:"id" yaml:"id"`
	Title             string                `json:"title" yaml:"title"`
	Creator           string                `json:"creator,omitempty" yaml:"creator,omitempty"`
	Thumbnail         string                `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Formats           []Format              `json:"formats" yaml:"formats"`
	Subtitles         map[string][]Subtitle `json:"subtitles,omitempty" yaml:"subtitles,omitempty"`
	AutomaticCaptions map[string][]Subtitle `json:"automatic_captions,omitempty" yaml:"automatic_captions,omitempty"`
	IsLive            bool                  `json:"is_live" yaml:"is_live"`
	ViewCount         *int64                `json:"view_count,omitempty" yaml:"view_count,omitempty"`
	Uploader          string                `json:"uploader,omitempty" yaml:"uploader,omitempty"`
	UploaderID        string                `json:"uploader_id,omitempty" yaml:"uploader_id,omitempty"`
	UploaderURL       string                `json:"uploader_url,omitempty" yaml:"uploader_url,omitempty"`
}

// Format is one retrievable variant of a video.
type Format struct {
	ID       string   `json:"format_id" yaml:"format_id"`
	URL      string   `json:"url" yaml:"url"`
	Protocol Protocol `json:"protocol" yaml:"protocol"`
	Ext      string   `json:"ext" yaml:"ext"`
	Width    int      `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int      `json:"height,omitempty" yaml:"height,omitempty"`
	VBR      int      `json:"vbr,omitempty" yaml:"vbr,omitempty"` // video bitrate, kbps
	ABR      int      `json:"abr,omitempty" yaml:"abr,omitempty"` // audio bitrate, kbps
	Bitrate  int      `json:"tbr,omitempty" yaml:"tbr,omitempty"` // total bitrate, bps (HLS BANDWIDTH)
	Filesize int64    `json:"filesize,omitempty" yaml:"filesize,omitempty"`
	Live     bool     `json:"live,omitempty" yaml:"live,omitempty"`
}

// Quality returns a short label such as "1080p" or the format ID.
func (f Format) Quality() string {
	if f.Height > 0 {
		return strconv.Itoa(f.Height) + "p"
	}
	return f.ID
}

// Subtitle is a single subtitle track in one container format.
type Subtitle struct {
	URL string `json:"url" yaml:"url"`
	Ext string `json:"ext,omitempty" yaml:"ext,omitempty"`
}

// Entry is one item of a playlist or channel listing.
type Entry struct {
	ID    string `json:"id" yaml:"id"`
	URL   string `json:"url" yaml:"url"`
	Video *Video `json:"video,omitempty" yaml:"video,omitempty"`
	Err   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Playlist is an ordered collection of video entries.
type Playlist struct {
	ID      string  `json:"id" yaml:"id"`
	Title   string  `json:"title,omitempty" yaml:"title,omitempty"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Result is what resolving a URL yields: exactly one of Video or Playlist is set.
type Result struct {
	Video    *Video    `json:"video,omitempty" yaml:"video,omitempty"`
	Playlist *Playlist `json:"playlist,omitempty" yaml:"playlist,omitempty"`
}

// Videos returns every resolved video in the result, in order.
func (r *Result) Videos() []*Video {
	if r == nil {
		return nil
	}
	if r.Video != nil {
		return []*Video{r.Video}
	}
	var out []*Video
	if r.Playlist != nil {
		for _, e := range r.Playlist.Entries {
			if e.Video != nil {
				out = append(out, e.Video)
			}
		}
	}
	return out
}

// HistoryEntry is one resolved video recorded in the local history.
type HistoryEntry struct {
	VideoID    string
	Title      string
	Creator    string
	URL        string
	Live       bool
	RunID      string
	ResolvedAt time.Time
}
