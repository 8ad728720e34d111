package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"miner-econ-lab/internal/domain"
	"miner-econ-lab/internal/storage"
)

func TestProjectionStore(t *testing.T) {
	ctx := context.Background()
	store := NewProjectionStore()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order; reads come back day-sorted.
	batch := []*domain.DailyProjection{
		{Date: start.AddDate(0, 0, 2), DayIndex: 2, NetBTC: 0.003},
		{Date: start, DayIndex: 0, NetBTC: 0.001},
		{Date: start.AddDate(0, 0, 1), DayIndex: 1, NetBTC: 0.002},
	}
	if err := store.InsertBulk(ctx, "run-a", batch); err != nil {
		t.Fatalf("InsertBulk() error = %v", err)
	}

	got, err := store.GetByRunID(ctx, "run-a")
	if err != nil {
		t.Fatalf("GetByRunID() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("GetByRunID() returned %d rows, want 3", len(got))
	}
	for i, p := range got {
		if p.DayIndex != i {
			t.Errorf("row %d has DayIndex %d, want sorted order", i, p.DayIndex)
		}
	}
}

func TestProjectionStore_DuplicateDayFailsBatch(t *testing.T) {
	ctx := context.Background()
	store := NewProjectionStore()

	if err := store.InsertBulk(ctx, "run-a", []*domain.DailyProjection{{DayIndex: 0}}); err != nil {
		t.Fatalf("InsertBulk() error = %v", err)
	}

	err := store.InsertBulk(ctx, "run-a", []*domain.DailyProjection{{DayIndex: 1}, {DayIndex: 0}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("InsertBulk() error = %v, want ErrDuplicateKey", err)
	}

	// The failed batch must not have been partially applied.
	got, _ := store.GetByRunID(ctx, "run-a")
	if len(got) != 1 {
		t.Errorf("run has %d rows after failed batch, want 1", len(got))
	}
}

func TestProjectionStore_RunsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewProjectionStore()

	if err := store.InsertBulk(ctx, "run-a", []*domain.DailyProjection{{DayIndex: 0}}); err != nil {
		t.Fatalf("InsertBulk(run-a) error = %v", err)
	}
	if err := store.InsertBulk(ctx, "run-b", []*domain.DailyProjection{{DayIndex: 0}, {DayIndex: 1}}); err != nil {
		t.Fatalf("InsertBulk(run-b) error = %v", err)
	}

	a, _ := store.GetByRunID(ctx, "run-a")
	b, _ := store.GetByRunID(ctx, "run-b")
	if len(a) != 1 || len(b) != 2 {
		t.Errorf("rows = %d/%d, want 1/2", len(a), len(b))
	}

	if err := store.InsertBulk(ctx, "", []*domain.DailyProjection{{DayIndex: 0}}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty run ID error = %v, want ErrInvalidInput", err)
	}
}
