package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"LocalNotes/internal/state"
)

const (
	retryMin = time.Second
	retryMax = 30 * time.Second
)

// SnapshotWriter is the part of a Store the Autosaver writes through.
type SnapshotWriter interface {
	Save(ctx context.Context, revision uint64, pages state.Pages) (string, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// Autosaver writes board snapshots to a Store in the background. Only the
// newest pending snapshot is kept; older ones are skipped. A failed save is
// retried with exponential backoff until it succeeds or a newer snapshot
// replaces it.
type Autosaver struct {
	store  SnapshotWriter
	keep   int
	logger *slog.Logger

	retryMin time.Duration
	retryMax time.Duration

	mu      sync.Mutex
	pending *state.Snapshot
	saved   uint64
	wake    chan struct{}
}

// NewAutosaver saves into store and keeps at most keep snapshots.
func NewAutosaver(store SnapshotWriter, keep int, logger *slog.Logger) *Autosaver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Autosaver{
		store:    store,
		keep:     keep,
		logger:   logger,
		retryMin: retryMin,
		retryMax: retryMax,
		wake:     make(chan struct{}, 1),
	}
}

// Offer queues snap for saving without blocking. It is meant to be
// registered with Board.OnChange.
func (a *Autosaver) Offer(snap state.Snapshot) {
	a.mu.Lock()
	if a.pending == nil || snap.Revision > a.pending.Revision {
		a.pending = &snap
	}
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Run saves queued snapshots until ctx is done, then flushes whatever is
// still pending.
func (a *Autosaver) Run(ctx context.Context) {
	var (
		retry   <-chan time.Time
		backoff time.Duration
	)
	for {
		select {
		case <-ctx.Done():
			a.Flush(context.WithoutCancel(ctx))
			return
		case <-a.wake:
		case <-retry:
		}

		if err := a.Flush(ctx); err != nil {
			backoff = a.nextBackoff(backoff)
			a.logger.Debug("autosave retry scheduled", "in", backoff)
			retry = time.After(backoff)
			continue
		}
		retry, backoff = nil, 0
	}
}

func (a *Autosaver) nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return a.retryMin
	}
	return min(2*d, a.retryMax)
}

// Flush saves the pending snapshot, if any. On failure the snapshot is
// queued again unless a newer one has arrived meanwhile.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	a.mu.Unlock()

	if snap == nil || snap.Revision <= a.lastSaved() {
		return nil
	}
	id, err := a.store.Save(ctx, snap.Revision, snap.Pages)
	if err != nil {
		a.logger.Error("autosave failed", "revision", snap.Revision, "error", err)
		a.mu.Lock()
		if a.pending == nil {
			a.pending = snap
		}
		a.mu.Unlock()
		return err
	}
	a.mu.Lock()
	a.saved = snap.Revision
	a.mu.Unlock()
	a.logger.Debug("autosaved", "id", id, "revision", snap.Revision)

	if a.keep > 0 {
		if n, err := a.store.Prune(ctx, a.keep); err != nil {
			a.logger.Warn("autosave prune failed", "error", err)
		} else if n > 0 {
			a.logger.Debug("pruned snapshots", "count", n)
		}
	}
	return nil
}

func (a *Autosaver) lastSaved() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saved
}
