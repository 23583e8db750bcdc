// Package supervisor periodically applies the away and inactivity timeouts
// to every live game.
package supervisor

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/heroiclabs/nakama-common/runtime"

	"fish/internal/app"
	"fish/internal/command"
	"fish/internal/engine"
)

const (
	// DefaultInterval is the sweep cadence when none is configured.
	DefaultInterval = 2 * time.Minute
	pageSize        = 100
)

// Expirer applies timeouts to one game.
type Expirer interface {
	Expire(ctx context.Context, gameID string) (command.Expiry, error)
}

// Supervisor sweeps live games on a ticker.
type Supervisor struct {
	logger   runtime.Logger
	engine   *engine.Engine
	expirer  Expirer
	interval time.Duration
}

func New(logger runtime.Logger, eng *engine.Engine, expirer Expirer, interval time.Duration) *Supervisor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Supervisor{logger: logger, engine: eng, expirer: expirer, interval: interval}
}

// Run sweeps until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.logger.Info("supervisor started, sweeping every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("supervisor stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("sweep failed: %v", err)
			}
		}
	}
}

// Stats counts what one sweep did.
type Stats struct {
	Scanned  int
	Expired  map[command.Expiry]int
	Failures int
}

// Sweep visits every live game once. A failure on one game is logged and the
// sweep moves on.
func (s *Supervisor) Sweep(ctx context.Context) (Stats, error) {
	stats := Stats{Expired: map[command.Expiry]int{}}
	cursor := ""
	for {
		ids, next, err := s.engine.ScanGameIDs(ctx, pageSize, cursor)
		if err != nil {
			return stats, err
		}
		for _, id := range ids {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Scanned++
			got, err := s.expirer.Expire(ctx, id)
			switch {
			case errorsmod.IsOf(err, app.ErrGameNotFound):
				// Finished by a player between the scan and the expiry.
			case err != nil:
				stats.Failures++
				s.logger.WithField("game_id", id).Warn("expire failed: %v", err)
			case got != command.ExpiryNone:
				stats.Expired[got]++
				s.logger.WithField("game_id", id).Info("game %s", got)
			}
		}
		if next == "" {
			return stats, nil
		}
		cursor = next
	}
}
