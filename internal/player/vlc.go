package player

import "context"

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool { return available("vlc") }

// Play launches VLC.
func (v *VLC) Play(ctx context.Context, req Request) error {
	return run(ctx, "vlc", vlcArgs(req))
}

func vlcArgs(req Request) []string {
	args := []string{
		req.Format.URL,
		"--meta-title", req.Title,
		"--play-and-exit",
	}
	if req.Referer != "" {
		args = append(args, "--http-referrer", req.Referer)
	}
	if req.UserAgent != "" {
		args = append(args, "--http-user-agent", req.UserAgent)
	}
	if req.SubFile != "" {
		args = append(args, "--sub-file", req.SubFile)
	}
	return args
}
