package player

import (
	"context"
	"strings"
)

// MPV implements the Player interface for mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool { return available("mpv") }

// Play launches mpv with the given format.
func (m *MPV) Play(ctx context.Context, req Request) error {
	return run(ctx, "mpv", mpvArgs(req))
}

// mpvArgs builds mpv-style flags, shared with players that accept them.
func mpvArgs(req Request) []string {
	args := []string{
		req.Format.URL,
		"--force-media-title=" + req.Title,
	}

	var headers []string
	if req.Referer != "" {
		headers = append(headers, "Referer: "+req.Referer)
	}
	if len(headers) > 0 {
		args = append(args, "--http-header-fields="+strings.Join(headers, ","))
	}
	if req.UserAgent != "" {
		args = append(args, "--user-agent="+req.UserAgent)
	}

	// Live manifests keep growing; seeking into them is unreliable.
	if req.Format.Live {
		args = append(args, "--force-seekable=no")
	}

	if req.SubFile != "" {
		args = append(args, "--sub-file="+req.SubFile)
	}
	return args
}
