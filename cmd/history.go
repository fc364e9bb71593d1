package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vlivedl/internal/history"
	"vlivedl/internal/media"
	"vlivedl/internal/output"
	"vlivedl/internal/ui"
)

var (
	flagHistoryLimit int
	flagYes          bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Pick a previously resolved video and play it again",
	RunE:  historyRun,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagYes {
			ok, err := ui.Confirm("Clear history?")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		store, err := history.OpenDefault()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <video-id>...",
	Short: "Delete history entries by video id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  historyRemove,
}

func historyRemove(cmd *cobra.Command, args []string) error {
	store, err := history.OpenDefault()
	if err != nil {
		return err
	}
	defer store.Close()

	for _, id := range args {
		if err := store.Remove(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", id)
	}
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 100, "Number of entries to show (0 for all)")
	historyClearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyRmCmd)
}

func historyRun(cmd *cobra.Command, args []string) error {
	store, err := history.OpenDefault()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	// Structured output lists the entries instead of prompting.
	if flagJSON || flagYAML {
		pl := &media.Playlist{ID: "history"}
		for _, e := range entries {
			pl.Entries = append(pl.Entries, media.Entry{ID: e.VideoID, URL: e.URL})
		}
		return output.Write(cmd.OutOrStdout(), &media.Result{Playlist: pl}, outputFormat())
	}

	items := history.FormatForDisplay(entries)
	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}

	selected := entries[idx]
	debugf("replaying: %s (ID: %s)", selected.Title, selected.VideoID)
	return resolveAndPlay(cmd.Context(), selected.URL)
}
