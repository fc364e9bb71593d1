// Package extract turns V LIVE video keys and stream manifests into
// playable formats by talking to the Naver play-info backend and the HLS CDNs.
package extract

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"vlivedl/internal/media"
)

// ErrDRMProtected is returned when the content is encrypted with a DRM scheme
// this tool cannot decode.
var ErrDRMProtected = errors.New("video is DRM protected")

// VOD resolves a replay video into formats and subtitles.
type VOD interface {
	// Extract fetches play info for the long-form vodID authorized by key.
	// videoID is the user-facing numeric id and becomes the descriptor's ID.
	Extract(ctx context.Context, videoID, vodID, key string) (*media.Video, error)
}

// Manifest builds a single format from a streaming manifest URL.
type Manifest interface {
	Format(ctx context.Context, manifestURL, formatID string, live bool) (media.Format, error)
}

// SortFormats orders formats from worst to best: by height, then bitrate,
// then format ID so the order is stable across runs.
func SortFormats(formats []media.Format) {
	slices.SortStableFunc(formats, func(a, b media.Format) int {
		if c := cmp.Compare(a.Height, b.Height); c != 0 {
			return c
		}
		if c := cmp.Compare(totalBitrate(a), totalBitrate(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// totalBitrate returns the format's bitrate in bits per second.
func totalBitrate(f media.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return (f.VBR + f.ABR) * 1000
}
