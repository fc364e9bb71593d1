// Package subtitle picks subtitle tracks and manages a private temp
// directory for the downloaded files.
package subtitle

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
)

// Track is one subtitle file with the locale it belongs to.
type Track struct {
	media.Subtitle
	Locale    string
	Automatic bool
}

// Tracks flattens a video's subtitles and automatic captions. Manual
// subtitles come first; locales are sorted within each group.
func Tracks(v *media.Video) []Track {
	var tracks []Track
	for _, group := range []struct {
		subs map[string][]media.Subtitle
		auto bool
	}{{v.Subtitles, false}, {v.AutomaticCaptions, true}} {
		locales := make([]string, 0, len(group.subs))
		for locale := range group.subs {
			locales = append(locales, locale)
		}
		slices.Sort(locales)
		for _, locale := range locales {
			for _, sub := range group.subs[locale] {
				tracks = append(tracks, Track{Subtitle: sub, Locale: locale, Automatic: group.auto})
			}
		}
	}
	return tracks
}

// Filter returns tracks whose locale matches the preferred language
// (case-insensitive, so "en" matches "en_US").
func Filter(tracks []Track, language string) []Track {
	if language == "" {
		return tracks
	}

	lang := strings.ToLower(language)
	var matched []Track
	for _, t := range tracks {
		locale := strings.ToLower(t.Locale)
		if locale == lang || strings.HasPrefix(locale, lang+"_") || strings.HasPrefix(locale, lang+"-") {
			matched = append(matched, t)
		}
	}
	return matched
}

// BestMatch returns the best track for the given language. Manual subtitles
// win over automatic captions and WebVTT wins over other containers.
func BestMatch(v *media.Video, language string) *Track {
	filtered := Filter(Tracks(v), language)
	if len(filtered) == 0 {
		return nil
	}

	for _, auto := range []bool{false, true} {
		for _, t := range filtered {
			if t.Automatic == auto && t.Ext == "vtt" {
				return &t
			}
		}
	}
	return &filtered[0]
}

// TempDir manages a secure temporary directory for subtitle files.
type TempDir struct {
	path string
}

// NewTempDir creates a randomized temporary directory for subtitle files.
func NewTempDir() (*TempDir, error) {
	dir, err := os.MkdirTemp("", "vlivedl-subs-*")
	if err != nil {
		return nil, fmt.Errorf("creating subtitle temp dir: %w", err)
	}
	return &TempDir{path: dir}, nil
}

// Cleanup removes the temporary directory and all contents.
func (t *TempDir) Cleanup() {
	if t.path != "" {
		os.RemoveAll(t.path)
	}
}

// Download fetches a subtitle file to the temp directory and returns the local path.
func (t *TempDir) Download(ctx context.Context, session *httputil.Session, track Track) (string, error) {
	body, err := session.Page(ctx, httputil.Request{URL: track.URL})
	if err != nil {
		return "", fmt.Errorf("downloading subtitle: %w", err)
	}

	filename := "subtitle.vtt"
	switch {
	case track.Locale != "" && track.Ext != "":
		filename = httputil.SanitizeFilename(track.Locale + "." + track.Ext)
	default:
		if u, err := url.Parse(track.URL); err == nil && path.Base(u.Path) != "/" {
			filename = httputil.SanitizeFilename(path.Base(u.Path))
		}
	}

	localPath := filepath.Join(t.path, filename)
	if err := os.WriteFile(localPath, []byte(body), 0600); err != nil {
		return "", fmt.Errorf("writing subtitle file: %w", err)
	}
	return localPath, nil
}
