// Package output renders resolution results as styled text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"vlivedl/internal/media"
)

// Format selects how results are written.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	liveStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idCol      = lipgloss.NewStyle().Width(16)
	qualityCol = lipgloss.NewStyle().Width(8)
	protoCol   = lipgloss.NewStyle().Width(6)
	rateCol    = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
)

// Write renders res to w.
func Write(w io.Writer, res *media.Result, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case Text, "":
		_, err := io.WriteString(w, renderText(res))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(res *media.Result) string {
	var b strings.Builder
	if res.Video != nil {
		writeVideo(&b, res.Video, "")
		return b.String()
	}
	if res.Playlist == nil {
		return ""
	}

	pl := res.Playlist
	header := pl.Title
	if header == "" {
		header = pl.ID
	}
	fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render(header), dimStyle.Render(fmt.Sprintf("(%d entries)", len(pl.Entries))))
	for i, e := range pl.Entries {
		prefix := fmt.Sprintf("%3d. ", i+1)
		switch {
		case e.Video != nil:
			writeVideo(&b, e.Video, prefix)
		case e.Err != "":
			fmt.Fprintf(&b, "%s%s %s\n", prefix, e.ID, errStyle.Render(e.Err))
		default:
			fmt.Fprintf(&b, "%s%s %s\n", prefix, e.ID, dimStyle.Render(e.URL))
		}
	}
	return b.String()
}

func writeVideo(b *strings.Builder, v *media.Video, prefix string) {
	line := prefix + titleStyle.Render(v.Title)
	if v.IsLive {
		line += " " + liveStyle.Render("LIVE")
	}
	fmt.Fprintln(b, line)

	indent := strings.Repeat(" ", len(prefix))
	meta := []string{"id " + v.ID}
	if v.Creator != "" {
		meta = append(meta, v.Creator)
	}
	if v.ViewCount != nil {
		meta = append(meta, strconv.FormatInt(*v.ViewCount, 10)+" views")
	}
	fmt.Fprintln(b, indent+dimStyle.Render(strings.Join(meta, " · ")))

	for _, f := range v.Formats {
		fmt.Fprintln(b, indent+"  "+lipgloss.JoinHorizontal(lipgloss.Top,
			idCol.Render(f.ID),
			qualityCol.Render(f.Quality()),
			protoCol.Render(string(f.Protocol)),
			rateCol.Render(bitrate(f)),
		))
	}

	if locales := subtitleLocales(v); len(locales) > 0 {
		fmt.Fprintln(b, indent+dimStyle.Render("  subtitles: "+strings.Join(locales, ", ")))
	}
}

func bitrate(f media.Format) string {
	switch {
	case f.Bitrate > 0:
		return strconv.Itoa(f.Bitrate/1000) + "k"
	case f.VBR+f.ABR > 0:
		return strconv.Itoa(f.VBR+f.ABR) + "k"
	default:
		return ""
	}
}

func subtitleLocales(v *media.Video) []string {
	var locales []string
	for l := range v.Subtitles {
		locales = append(locales, l)
	}
	slices.Sort(locales)
	return locales
}
