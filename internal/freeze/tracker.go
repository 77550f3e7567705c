package freeze

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mj1618/nirctl/internal/metrics"
	"github.com/mj1618/nirctl/internal/model"
)

// ErrRecordNotFound is returned when no tracked record matches a lookup.
var ErrRecordNotFound = errors.New("frozen record not found")

// Persister stores frozen records across process restarts.
type Persister interface {
	LoadFrozen(ctx context.Context) ([]model.FrozenRecord, error)
	SaveFrozen(ctx context.Context, recs ...model.FrozenRecord) error
	DeleteFrozen(ctx context.Context, ids ...string) error
}

// Tracker is the registry of currently frozen records. The engine never
// mutates it; callers commit Freeze results with Add and consume them with
// the Take methods. With a Persister, every mutation is written through.
type Tracker struct {
	mu      sync.Mutex
	records []model.FrozenRecord
	store   Persister
	log     *slog.Logger
}

// NewTracker returns an empty tracker. store may be nil for in-memory only.
func NewTracker(store Persister, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{store: store, log: log}
}

// Load replaces the in-memory list with the persisted records.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	recs, err := t.store.LoadFrozen(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.records = recs
	metrics.SetFrozenRecords(len(t.records))
	t.mu.Unlock()
	return nil
}

// Add assigns IDs to recs, tracks them and returns the stored copies.
func (t *Tracker) Add(ctx context.Context, recs ...model.FrozenRecord) []model.FrozenRecord {
	out := make([]model.FrozenRecord, len(recs))
	for i, r := range recs {
		if r.ID == "" {
			r.ID = newID()
		}
		out[i] = r
	}

	t.mu.Lock()
	t.records = append(t.records, out...)
	metrics.SetFrozenRecords(len(t.records))
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.SaveFrozen(ctx, out...); err != nil {
			t.log.Warn("persist frozen records failed", "err", err)
		}
	}
	return out
}

// List returns a copy of the tracked records in freeze order.
func (t *Tracker) List() []model.FrozenRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.FrozenRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of tracked records.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// ByHandle returns the record tracking window h.
func (t *Tracker) ByHandle(h model.Handle) (model.FrozenRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.records {
		if h != 0 && r.Handle == h {
			return r, true
		}
	}
	return model.FrozenRecord{}, false
}

// Take removes and returns the record with the given ID.
func (t *Tracker) Take(ctx context.Context, id string) (model.FrozenRecord, error) {
	recs := t.take(ctx, func(r model.FrozenRecord) bool { return r.ID == id })
	if len(recs) == 0 {
		return model.FrozenRecord{}, ErrRecordNotFound
	}
	return recs[0], nil
}

// TakeTarget removes and returns the records frozen for spec within group.
// When none match on (group, spec), a handle target takes the record that
// tracks that window, whatever target froze it. Otherwise it falls back to
// any record with the same target value.
func (t *Tracker) TakeTarget(ctx context.Context, group string, spec model.TargetSpec) ([]model.FrozenRecord, error) {
	recs := t.take(ctx, func(r model.FrozenRecord) bool {
		return r.Group == group && r.Target == spec
	})
	if len(recs) == 0 && spec.Kind == model.KindHandle {
		if h, err := model.ParseHandle(spec.Value); err == nil {
			if rec, ok := t.ByHandle(h); ok {
				recs = t.take(ctx, func(r model.FrozenRecord) bool { return r.ID == rec.ID })
			}
		}
	}
	if len(recs) == 0 {
		recs = t.take(ctx, func(r model.FrozenRecord) bool {
			return r.Target.Value == spec.Value
		})
	}
	if len(recs) == 0 {
		return nil, ErrRecordNotFound
	}
	return recs, nil
}

// TakeAll removes and returns every tracked record.
func (t *Tracker) TakeAll(ctx context.Context) []model.FrozenRecord {
	return t.take(ctx, func(model.FrozenRecord) bool { return true })
}

func (t *Tracker) take(ctx context.Context, pred func(model.FrozenRecord) bool) []model.FrozenRecord {
	t.mu.Lock()
	var taken, kept []model.FrozenRecord
	for _, r := range t.records {
		if pred(r) {
			taken = append(taken, r)
		} else {
			kept = append(kept, r)
		}
	}
	t.records = kept
	metrics.SetFrozenRecords(len(t.records))
	t.mu.Unlock()

	if len(taken) > 0 && t.store != nil {
		ids := make([]string, len(taken))
		for i, r := range taken {
			ids[i] = r.ID
		}
		if err := t.store.DeleteFrozen(ctx, ids...); err != nil {
			t.log.Warn("delete persisted frozen records failed", "err", err)
		}
	}
	return taken
}

func newID() string {
	return uuid.NewString()[:8]
}
