package vlive

import (
	"fmt"
	"regexp"
)

// Kind is the shape of an input URL.
type Kind int

const (
	KindVideo Kind = iota + 1
	KindPost
	KindChannel
	KindPlaylist
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindPost:
		return "post"
	case KindChannel:
		return "channel"
	case KindPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

var (
	playlistURLRe = regexp.MustCompile(`^https?://(?:(?:www|m)\.)?vlive\.tv/video/(\d+)/playlist/(\d+)`)
	videoURLRe    = regexp.MustCompile(`^https?://(?:(?:www|m)\.)?vlive\.tv/video/(\d+)`)
	postURLRe     = regexp.MustCompile(`^https?://(?:(?:www|m)\.)?vlive\.tv/post/([\d-]+)`)
	channelURLRe  = regexp.MustCompile(`^https?://channels\.vlive\.tv/([0-9A-Z]+)`)
)

// Target is a classified input URL.
type Target struct {
	Kind        Kind
	URL         string
	VideoID     string
	PlaylistID  string
	PostID      string
	ChannelCode string
}

// Match classifies rawURL. Playlist URLs are checked before plain video URLs
// since every playlist URL also starts like a video URL.
func Match(rawURL string) (Target, error) {
	if m := playlistURLRe.FindStringSubmatch(rawURL); m != nil {
		return Target{Kind: KindPlaylist, URL: rawURL, VideoID: m[1], PlaylistID: m[2]}, nil
	}
	if m := videoURLRe.FindStringSubmatch(rawURL); m != nil {
		return Target{Kind: KindVideo, URL: rawURL, VideoID: m[1]}, nil
	}
	if m := postURLRe.FindStringSubmatch(rawURL); m != nil {
		return Target{Kind: KindPost, URL: rawURL, PostID: m[1]}, nil
	}
	if m := channelURLRe.FindStringSubmatch(rawURL); m != nil {
		return Target{Kind: KindChannel, URL: rawURL, ChannelCode: m[1]}, nil
	}
	return Target{}, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
}
