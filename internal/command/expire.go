package command

import (
	"context"

	"fish/internal/app"
	"fish/internal/domain"
	"fish/internal/engine"
)

// Expiry is what Expire did to a game.
type Expiry string

const (
	ExpiryNone      Expiry = "none"
	ExpiryInactive  Expiry = "marked_inactive"
	ExpiryForfeited Expiry = "forfeited"
	ExpiryAbandoned Expiry = "abandoned"
)

// Expire applies the timeouts to one game: an expired pause is forfeited, a
// game idle past the inactivity timeout pauses its responsible player, and a
// finished game nobody touched for that long is archived.
func (h *Handler) Expire(ctx context.Context, gameID string) (Expiry, error) {
	rules := h.svc.Rules()
	var ch change
	outcome := ExpiryNone
	err := h.engine.Run(ctx, func(tx *engine.Tx) error {
		ch = change{}
		outcome = ExpiryNone
		g, err := tx.Game(gameID)
		if err != nil {
			return err
		}
		now := tx.Now()

		var evs []app.Event
		switch p := g.Phase.(type) {
		case domain.Paused:
			if !p.Expired(now, rules.LeaveTimeout) {
				return nil
			}
			evs, err = h.svc.ForfeitGame(g, "", now)
			outcome = ExpiryForfeited
		case domain.Over:
			if now.Sub(g.LastActivityAt) < rules.InactivityTimeout {
				return nil
			}
			return h.abandon(tx, g, &ch, &outcome)
		default:
			if now.Sub(g.LastActivityAt) < rules.InactivityTimeout {
				return nil
			}
			evs, err = h.svc.MarkInactive(g, now)
			outcome = ExpiryInactive
		}
		if err != nil {
			return err
		}
		ch.events = evs
		return h.settle(tx, g, false, &ch)
	})
	if err != nil {
		return ExpiryNone, err
	}
	if outcome != ExpiryNone {
		h.publish(ctx, ch)
	}
	return outcome, nil
}

func (h *Handler) abandon(tx *engine.Tx, g *domain.Game, ch *change, outcome *Expiry) error {
	lobby, err := lobbyOf(tx, g)
	if err != nil {
		return err
	}
	tx.ArchiveGame(g, engine.ArchiveCompleted, reasonAbandoned)
	if lobby != nil && lobby.OnGoingGame == g.ID {
		ch.events = append(ch.events, app.DetachGame(lobby))
		tx.PutLobby(lobby)
		ch.lobby = lobby
	}
	*outcome = ExpiryAbandoned
	return nil
}
