// Package engine runs read-modify-write transactions over game and lobby
// documents with optimistic concurrency control.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"

	"fish/internal/app"
	"fish/internal/ports"
)

// DefaultMaxAttempts bounds how often a transaction is retried on conflict.
const DefaultMaxAttempts = 5

// Engine executes transactions against a DocumentStore.
type Engine struct {
	store       ports.DocumentStore
	clock       ports.Clock
	maxAttempts int
}

// New constructs an Engine. maxAttempts <= 0 uses DefaultMaxAttempts.
func New(store ports.DocumentStore, clock ports.Clock, maxAttempts int) *Engine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Engine{store: store, clock: clock, maxAttempts: maxAttempts}
}

// Run executes fn inside a transaction. fn may run several times: every
// attempt sees fresh reads, and only the writes staged by the successful
// attempt are applied. An error from fn aborts without writing.
func (e *Engine) Run(ctx context.Context, fn func(tx *Tx) error) error {
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		tx := newTx(ctx, e.store, e.clock.Now())
		if err := fn(tx); err != nil {
			return err
		}
		err := tx.commit()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrVersionConflict) {
			return errorsmod.Wrap(app.ErrInternal, err.Error())
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return errorsmod.Wrapf(app.ErrConflict, "gave up after %d attempts", e.maxAttempts)
}

// Now returns the engine clock's time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// ScanGameIDs pages through the ids of live games in key order. Documents are
// not decoded here, so one unreadable game cannot stall a scan; it fails on
// its own when a transaction loads it.
func (e *Engine) ScanGameIDs(ctx context.Context, limit int, cursor string) ([]string, string, error) {
	docs, next, err := e.store.List(ctx, CollectionGames, limit, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("list games: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Key)
	}
	return ids, next, nil
}
