package state

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mj1618/nirctl/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFrozenRecords(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	at := time.UnixMilli(1700000000000)
	recs := []model.FrozenRecord{
		{
			ID: "a1", BatchID: "b", Group: "Work",
			Target:      model.TargetSpec{Kind: model.KindFolder, Value: `C:\Apps`, Recursive: true},
			ProcessName: "x.exe", ClassName: "XWnd", WindowTitle: "X",
			Handle: 0x1234, PID: 99, FrozenAt: at,
		},
		{
			ID: "a2", BatchID: "b",
			Target:   model.TargetSpec{Kind: model.KindProcess, Value: "ghost.exe"},
			FrozenAt: at.Add(time.Second),
		},
	}
	if err := s.SaveFrozen(ctx, recs...); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadFrozen(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d records, want 2", len(got))
	}
	if got[0].ID != "a1" || got[0].Target != recs[0].Target || got[0].Handle != 0x1234 || got[0].PID != 99 {
		t.Errorf("first record = %+v", got[0])
	}
	if !got[0].FrozenAt.Equal(at) {
		t.Errorf("frozen_at = %v, want %v", got[0].FrozenAt, at)
	}
	if !got[1].Synthetic() {
		t.Errorf("second record should be synthetic: %+v", got[1])
	}

	recs[1].ProcessName = "ghost.exe"
	if err := s.SaveFrozen(ctx, recs[1]); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteFrozen(ctx, "a1", "missing"); err != nil {
		t.Fatal(err)
	}
	got, err = s.LoadFrozen(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ProcessName != "ghost.exe" {
		t.Errorf("after upsert+delete: %+v", got)
	}
}

func TestHistory_CappedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	for i := 0; i < 5; i++ {
		e := HistoryEntry{Command: fmt.Sprintf("beep %d", i), Success: i%2 == 0, ElapsedMs: int64(i)}
		if err := s.RecordHistory(ctx, e, 3); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.History(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("history has %d entries, want 3", len(got))
	}
	if got[0].Command != "beep 4" || got[2].Command != "beep 2" {
		t.Errorf("unexpected order: %v", got)
	}
	if !got[0].Success || got[1].Success {
		t.Errorf("success flags wrong: %+v", got)
	}

	limited, err := s.History(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d", len(limited))
	}

	if err := s.ClearHistory(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = s.History(ctx, 0)
	if len(got) != 0 {
		t.Errorf("history not cleared: %d", len(got))
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Error("expected error for empty DSN")
	}
}

func TestOpen_PrefixedDSN(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "state.db")
	s, err := Open(context.Background(), "sqlite://"+p)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()
}
