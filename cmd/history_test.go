package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"vlivedl/internal/history"
	"vlivedl/internal/media"
)

func TestHistoryRemove(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	ctx := context.Background()

	store, err := history.OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault() error: %v", err)
	}
	for _, id := range []string{"1326", "1327", "1328"} {
		err := store.Save(ctx, media.HistoryEntry{
			VideoID:    id,
			Title:      "video " + id,
			URL:        "https://www.vlive.tv/video/" + id,
			ResolvedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Save(%s) error: %v", id, err)
		}
	}
	store.Close()

	var out bytes.Buffer
	historyRmCmd.SetContext(ctx)
	historyRmCmd.SetOut(&out)
	if err := historyRemove(historyRmCmd, []string{"1326", "1328"}); err != nil {
		t.Fatalf("historyRemove() error: %v", err)
	}
	if out.String() != "Removed 1326.\nRemoved 1328.\n" {
		t.Errorf("output = %q", out.String())
	}

	store, err = history.OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault() error: %v", err)
	}
	defer store.Close()
	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 1 || entries[0].VideoID != "1327" {
		t.Errorf("entries = %+v, want only 1327", entries)
	}
}
