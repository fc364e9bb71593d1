package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vlivedl/internal/api"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolver as a JSON API",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default: listen from config)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ex, _, err := newExtractor(ctx)
	if err != nil {
		return err
	}

	addr := cfg.Listen
	if flagListen != "" {
		addr = flagListen
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(ex, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	return serve(ctx, srv)
}

// serve runs srv until it fails or ctx is canceled. The shutdown watcher
// exits with serve in either case.
func serve(ctx context.Context, srv *http.Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
