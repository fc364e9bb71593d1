package extract

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

// DefaultPlayURL is the Naver media backend serving V LIVE replays.
const DefaultPlayURL = "http://play.rmcnmv.naver.com"

var captionExtRe = regexp.MustCompile(`\.(?:ttml|vtt)`)

// Naver extracts replay formats from the Naver play-info API.
type Naver struct {
	session *httputil.Session
	playURL string
}

// NewNaver creates a Naver extractor. An empty playURL selects DefaultPlayURL.
func NewNaver(session *httputil.Session, playURL string) *Naver {
	if playURL == "" {
		playURL = DefaultPlayURL
	}
	return &Naver{
		session: session,
		playURL: strings.TrimRight(playURL, "/"),
	}
}

// playInfoResponse is the JSON returned by /vod/play/v2.0/{vodId}.
type playInfoResponse struct {
	Meta struct {
		Subject string    `json:"subject"`
		Count   *looseInt `json:"count"`
		Cover   struct {
			Source string `json:"source"`
		} `json:"cover"`
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"user"`
		DRM bool `json:"drm"`
	} `json:"meta"`
	Videos struct {
		List []stream `json:"list"`
	} `json:"videos"`
	Streams  []streamSet `json:"streams"`
	Captions struct {
		List []caption `json:"list"`
	} `json:"captions"`
}

type stream struct {
	Source         string `json:"source"`
	Type           string `json:"type"`
	EncodingOption struct {
		ID     looseString `json:"id"`
		Name   string      `json:"name"`
		Width  looseInt    `json:"width"`
		Height looseInt    `json:"height"`
	} `json:"encodingOption"`
	Bitrate struct {
		Video looseInt `json:"video"`
		Audio looseInt `json:"audio"`
	} `json:"bitrate"`
	Size looseInt `json:"size"`
}

type streamSet struct {
	Type    string   `json:"type"`
	Source  string   `json:"source"`
	DRMType string   `json:"drmType"`
	Videos  []stream `json:"videos"`
	Keys    []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"keys"`
}

type caption struct {
	Source   string `json:"source"`
	Type     string `json:"type"`
	Locale   string `json:"locale"`
	Language string `json:"language"`
}

// Extract resolves a replay into formats, subtitles and uploader metadata.
func (n *Naver) Extract(ctx context.Context, videoID, vodID, key string) (*media.Video, error) {
	if vodID == "" {
		return nil, fmt.Errorf("empty vod id for video %s", videoID)
	}
	if key == "" {
		return nil, fmt.Errorf("empty key for video %s", videoID)
	}

	var resp playInfoResponse
	err := n.session.DecodeJSON(ctx, httputil.Request{
		URL:   n.playURL + "/vod/play/v2.0/" + url.PathEscape(vodID),
		Query: url.Values{"key": {key}},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetching play info: %w", err)
	}

	if resp.Meta.DRM {
		return nil, ErrDRMProtected
	}
	for _, set := range resp.Streams {
		if set.DRMType != "" {
			return nil, fmt.Errorf("%w (%s)", ErrDRMProtected, set.DRMType)
		}
	}

	// Progressive files first, then every stream set. HLS sets without an
	// explicit video list are a single adaptive manifest.
	formats := append([]media.Format{}, streamFormats(resp.Videos.List, "H264", nil)...)
	for _, set := range resp.Streams {
		query := url.Values{}
		for _, k := range set.Keys {
			query.Set(k.Name, k.Value)
		}
		switch {
		case len(set.Videos) > 0:
			formats = append(formats, streamFormats(set.Videos, set.Type, query)...)
		case set.Type == "HLS" && set.Source != "":
			u, err := httputil.AddQuery(set.Source, query)
			if err != nil {
				continue
			}
			formats = append(formats, media.Format{
				ID:       set.Type,
				URL:      u,
				Protocol: media.M3U8,
				Ext:      "mp4",
			})
		}
	}
	SortFormats(formats)

	subtitles, automatic := captionTracks(resp.Captions.List)

	video := &media.Video{
		ID:                videoID,
		Title:             resp.Meta.Subject,
		Thumbnail:         resp.Meta.Cover.Source,
		Formats:           formats,
		Subtitles:         subtitles,
		AutomaticCaptions: automatic,
		Uploader:          resp.Meta.User.Name,
		UploaderID:        resp.Meta.User.ID,
		UploaderURL:       resp.Meta.User.URL,
	}
	if resp.Meta.Count != nil {
		count := int64(*resp.Meta.Count)
		video.ViewCount = &count
	}
	return video, nil
}

// streamFormats converts a list of encoded streams into formats. streamType
// names the backend when the stream itself does not.
func streamFormats(streams []stream, streamType string, query url.Values) []media.Format {
	var formats []media.Format
	for _, s := range streams {
		if s.Source == "" {
			continue
		}
		u, err := httputil.AddQuery(s.Source, query)
		if err != nil {
			continue
		}

		typ := s.Type
		if typ == "" {
			typ = streamType
		}
		name := s.EncodingOption.Name
		if name == "" {
			name = string(s.EncodingOption.ID)
		}

		f := media.Format{
			ID:       typ + "_" + name,
			URL:      u,
			Protocol: media.HTTPS,
			Ext:      "mp4",
			Width:    int(s.EncodingOption.Width),
			Height:   int(s.EncodingOption.Height),
			VBR:      int(s.Bitrate.Video),
			ABR:      int(s.Bitrate.Audio),
			Filesize: int64(s.Size),
		}
		if streamType == "HLS" {
			f.Protocol = media.M3U8
		}
		formats = append(formats, f)
	}
	return formats
}

// captionTracks groups caption sources by locale. Sources that name a
// ttml or vtt file are offered in both containers.
func captionTracks(captions []caption) (subtitles, automatic map[string][]media.Subtitle) {
	for _, c := range captions {
		if c.Source == "" {
			continue
		}
		lang := c.Locale
		if lang == "" {
			lang = c.Language
		}

		var tracks []media.Subtitle
		if captionExtRe.MatchString(c.Source) {
			tracks = []media.Subtitle{
				{URL: captionExtRe.ReplaceAllString(c.Source, ".ttml"), Ext: "ttml"},
				{URL: captionExtRe.ReplaceAllString(c.Source, ".vtt"), Ext: "vtt"},
			}
		} else {
			tracks = []media.Subtitle{{URL: c.Source, Ext: sourceExt(c.Source)}}
		}

		if c.Type == "auto" {
			if automatic == nil {
				automatic = make(map[string][]media.Subtitle)
			}
			automatic[lang] = append(automatic[lang], tracks...)
		} else {
			if subtitles == nil {
				subtitles = make(map[string][]media.Subtitle)
			}
			subtitles[lang] = append(subtitles[lang], tracks...)
		}
	}
	return subtitles, automatic
}

func sourceExt(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(path.Ext(u.Path), ".")
}
