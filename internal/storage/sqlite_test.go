//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"darwin/internal/model"
)

func TestSQLiteStoreRunAndPopulationRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "darwin.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b"} {
		run := model.RunRecord{
			VersionedRecord: CurrentVersion(),
			ID:              id,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
			FinalSize:       10 + i,
		}
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	loaded, ok, err := store.GetRun(ctx, "run-b")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok || loaded.FinalSize != 11 {
		t.Fatalf("unexpected run: ok=%t run=%+v", ok, loaded)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-b" {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	snapshot := model.PopulationSnapshot{
		VersionedRecord: CurrentVersion(),
		RunID:           "run-b",
		Generation:      3,
		Organisms:       model.Population{{1, 2, 3}, {-7}},
	}
	if err := store.SavePopulation(ctx, snapshot); err != nil {
		t.Fatalf("save population: %v", err)
	}
	loadedSnapshot, ok, err := store.GetPopulation(ctx, "run-b")
	if err != nil {
		t.Fatalf("get population: %v", err)
	}
	if !ok || len(loadedSnapshot.Organisms) != 2 || loadedSnapshot.Organisms[1][0] != -7 {
		t.Fatalf("unexpected snapshot: ok=%t snapshot=%+v", ok, loadedSnapshot)
	}
}

func TestSQLiteStoreDiagnosticsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "darwin.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	input := []model.GenerationDiagnostics{{Generation: 1, Factor: 0.7, MergedSize: 5, Kept: 5, SizeAfter: 5}}
	if err := first.SaveGenerationDiagnostics(ctx, "run-1", input); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})
	output, ok, err := second.GetGenerationDiagnostics(ctx, "run-1")
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if !ok || len(output) != 1 || output[0].Factor != 0.7 {
		t.Fatalf("unexpected diagnostics: ok=%t %+v", ok, output)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "darwin.db"))
	if _, _, err := store.GetRun(context.Background(), "run-1"); err == nil {
		t.Fatal("expected error before init")
	}
}
