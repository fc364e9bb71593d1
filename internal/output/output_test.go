package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"vlivedl/internal/media"
)

func testResult() *media.Result {
	views := int64(1523)
	return &media.Result{Video: &media.Video{
		ID:        "1326",
		Title:     "[V LIVE] Girl's Day's Broadcast",
		Creator:   "Girl's Day",
		ViewCount: &views,
		Formats: []media.Format{
			{ID: "H264_360", Protocol: media.HTTPS, Height: 360, VBR: 600, ABR: 96},
			{ID: "HLS", Protocol: media.M3U8, Bitrate: 4500000},
		},
		Subtitles: map[string][]media.Subtitle{
			"ko_KR": {{URL: "https://cdn/ko.vtt", Ext: "vtt"}},
			"en_US": {{URL: "https://cdn/en.vtt", Ext: "vtt"}},
		},
	}}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testResult(), JSON); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	var got struct {
		Video struct {
			ID      string `json:"id"`
			Formats []struct {
				ID string `json:"format_id"`
			} `json:"formats"`
		} `json:"video"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Video.ID != "1326" || len(got.Video.Formats) != 2 || got.Video.Formats[1].ID != "HLS" {
		t.Errorf("decoded %+v", got)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testResult(), YAML); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	var got map[string]map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got["video"]["id"] != "1326" {
		t.Errorf("video.id = %v", got["video"]["id"])
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testResult(), Text); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Girl's Day's Broadcast", "H264_360", "360p", "696k", "4500k", "1523 views", "en_US, ko_KR"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextPlaylist(t *testing.T) {
	res := &media.Result{Playlist: &media.Playlist{
		ID:    "FDF27",
		Title: "Girl's Day",
		Entries: []media.Entry{
			{ID: "1", Video: &media.Video{ID: "1", Title: "[V LIVE] One", IsLive: true}},
			{ID: "2", Err: "broadcast canceled"},
			{ID: "3", URL: "https://www.vlive.tv/video/3"},
		},
	}}

	var buf bytes.Buffer
	if err := Write(&buf, res, Text); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Girl's Day", "(3 entries)", "[V LIVE] One", "LIVE", "broadcast canceled", "https://www.vlive.tv/video/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, testResult(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
