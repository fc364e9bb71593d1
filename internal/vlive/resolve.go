package vlive

import (
	"context"
	"fmt"

	"vlivedl/internal/media"
)

// Resolve turns any supported URL into a result. Playlist and channel
// entries are resolved one after another unless Flat is set; a failed
// entry keeps its error and does not stop the listing.
func (e *Extractor) Resolve(ctx context.Context, rawURL string) (*media.Result, error) {
	target, err := Match(rawURL)
	if err != nil {
		return nil, err
	}

	switch target.Kind {
	case KindVideo:
		v, err := e.Video(ctx, target.VideoID)
		if err != nil {
			return nil, err
		}
		return &media.Result{Video: v}, nil
	case KindPost:
		v, err := e.Post(ctx, target.PostID)
		if err != nil {
			return nil, err
		}
		return &media.Result{Video: v}, nil
	case KindPlaylist:
		res, err := e.Playlist(ctx, target.VideoID, target.PlaylistID)
		if err != nil {
			return nil, err
		}
		if res.Playlist != nil {
			if err := e.fill(ctx, res.Playlist); err != nil {
				return nil, err
			}
		}
		return res, nil
	case KindChannel:
		pl, err := e.Channel(ctx, target.ChannelCode)
		if err != nil {
			return nil, err
		}
		if err := e.fill(ctx, pl); err != nil {
			return nil, err
		}
		return &media.Result{Playlist: pl}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
}

func (e *Extractor) fill(ctx context.Context, pl *media.Playlist) error {
	if e.opts.Flat {
		return nil
	}
	for i := range pl.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := &pl.Entries[i]
		v, err := e.Video(ctx, entry.ID)
		if err != nil {
			e.log.Warn().Err(err).Str("video", entry.ID).Str("playlist", pl.ID).Msg("skipping entry")
			entry.Err = err.Error()
			continue
		}
		entry.Video = v
	}
	return nil
}
