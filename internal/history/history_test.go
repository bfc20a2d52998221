package history

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndListRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runs := []Run{
		{ID: "r1", Job: "documents", Folder: "Documents", Started: 100, DurationMS: 1500, Downloaded: 3},
		{ID: "r2", Job: "documents", Folder: "Photos", Started: 200, DurationMS: 900, Skipped: 12},
		{ID: "r3", Job: "music", Folder: "Music", Started: 150, DurationMS: 400, Errors: 1, DryRun: true},
	}
	for _, run := range runs {
		if err := db.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun(%s) failed: %v", run.ID, err)
		}
	}

	got, err := db.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "r2" || got[1].ID != "r3" || got[2].ID != "r1" {
		t.Errorf("Unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if !got[1].DryRun {
		t.Error("Expected dry-run flag to round-trip")
	}
	if got[2].Downloaded != 3 || got[2].DurationMS != 1500 {
		t.Errorf("Unexpected run fields: %+v", got[2])
	}
}

func TestListRunsFiltered(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, run := range []Run{
		{ID: "r1", Job: "documents", Folder: "Documents", Started: 100},
		{ID: "r2", Job: "music", Folder: "Music", Started: 200},
	} {
		if err := db.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	got, err := db.ListRuns(ctx, "music", 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 1 || got[0].Job != "music" {
		t.Errorf("Unexpected filtered result: %+v", got)
	}
}

func TestListRunsLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		run := Run{ID: string(rune('a' + i)), Job: "j", Folder: "F", Started: int64(i)}
		if err := db.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	got, err := db.ListRuns(ctx, "", 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 runs with limit, got %d", len(got))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	if err := db.RecordRun(context.Background(), Run{ID: "r1", Job: "j", Folder: "F"}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	got, err := db.ListRuns(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected persisted run after reopen, got %d", len(got))
	}
}
