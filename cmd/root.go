// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vlivedl/internal/config"
	"vlivedl/internal/history"
	"vlivedl/internal/httputil"
	"vlivedl/internal/media"
	"vlivedl/internal/output"
	"vlivedl/internal/vlive"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig     string
	flagUsername   string
	flagPassword   string
	flagNoPlaylist bool
	flagFlat       bool
	flagQuality    string
	flagLanguage   string
	flagNoSubs     bool
	flagPlayer     string
	flagJSON       bool
	flagYAML       bool
	flagDebug      bool
)

// cfg holds the loaded configuration (merged: defaults < config file < env < flags).
var cfg *config.Config

var (
	runID  = uuid.NewString()
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "vlivedl [url...]",
	Short: "Resolve V LIVE videos, posts, playlists and channels",
	Long: `vlivedl resolves V LIVE video, post, playlist and channel URLs into
playable formats. Print them, stream them with mpv/vlc, or download with ffmpeg.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              resolveRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/vlivedl/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagUsername, "username", "u", "", "Account email to log in with")
	rootCmd.PersistentFlags().StringVarP(&flagPassword, "password", "p", "", "Account password (prompted when only the email is given)")
	rootCmd.PersistentFlags().BoolVar(&flagNoPlaylist, "no-playlist", false, "Resolve only the video of a playlist URL")
	rootCmd.PersistentFlags().BoolVar(&flagFlat, "flat", false, "List playlist and channel entries without resolving them")
	rootCmd.PersistentFlags().StringVarP(&flagQuality, "quality", "q", "", "Video quality: best | worst | 360 | 480 | 720 | 1080")
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "Subtitle language (default: en)")
	rootCmd.PersistentFlags().BoolVarP(&flagNoSubs, "no-subs", "n", false, "Disable subtitles")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagYAML, "yaml", false, "Output results as YAML")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vlivedl " + Version)
	},
}

// loadConfig loads and merges configuration: defaults < config file < env < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagUsername != "" {
		cfg.Email = flagUsername
	}
	if flagPassword != "" {
		cfg.Password = flagPassword
	}
	if flagNoPlaylist {
		cfg.NoPlaylist = true
	}
	if flagFlat {
		cfg.Flat = true
	}
	if flagQuality != "" {
		cfg.Quality = flagQuality
	}
	if flagLanguage != "" {
		cfg.SubsLanguage = flagLanguage
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := zerolog.WarnLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Str("run", runID[:8]).
		Logger()
	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// newExtractor creates the session and extractor, logging in first when
// an account is configured.
func newExtractor(ctx context.Context) (*vlive.Extractor, *httputil.Session, error) {
	session := httputil.NewSession(cfg.Timeout, cfg.UserAgent)
	ex := vlive.New(session, cfg.ExtractorOptions(), logger)

	password := cfg.Password
	if cfg.Email != "" && password == "" {
		var err error
		if password, err = promptPassword(); err != nil {
			return nil, nil, err
		}
	}
	if err := ex.Login(ctx, cfg.Email, password); err != nil {
		return nil, nil, err
	}
	return ex, session, nil
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("password required for %s", cfg.Email)
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", cfg.Email)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(pw)), nil
}

func outputFormat() output.Format {
	switch {
	case flagJSON:
		return output.JSON
	case flagYAML:
		return output.YAML
	default:
		return output.Text
	}
}

// resolveRun is the default command: vlivedl <url...>
func resolveRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	ex, _, err := newExtractor(cmd.Context())
	if err != nil {
		return err
	}

	for _, u := range args {
		debugf("resolving: %s", u)
		res, err := ex.Resolve(cmd.Context(), u)
		if err != nil {
			return err
		}
		if err := output.Write(os.Stdout, res, outputFormat()); err != nil {
			return err
		}
		record(cmd.Context(), res)
	}
	return nil
}

// record saves resolved videos to the history when it is enabled.
// Failures are logged, never returned.
func record(ctx context.Context, res *media.Result) {
	if !cfg.History {
		return
	}
	store, err := history.OpenDefault()
	if err != nil {
		logger.Warn().Err(err).Msg("opening history")
		return
	}
	defer store.Close()
	if err := store.Record(ctx, res, cfg.BaseURL, runID); err != nil {
		logger.Warn().Err(err).Msg("saving history")
	}
}
