// Package player provides a secure interface for launching media players.
// All player invocations use exec.CommandContext with explicit argument
// slices, so titles and URLs from remote pages never reach a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"vlivedl/internal/media"
)

// Request is one playback.
type Request struct {
	Format    media.Format
	Title     string
	SubFile   string
	UserAgent string
	Referer   string
}

// Player is the interface for media player implementations.
type Player interface {
	// Play blocks until the player exits.
	Play(ctx context.Context, req Request) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{}
	}
}

func available(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

// run starts bin attached to the terminal. A non-zero exit is how most
// players report that the user closed the window, so it is not an error.
func run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", bin, err)
	}
	return nil
}
