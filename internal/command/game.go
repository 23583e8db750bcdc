package command

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"fish/internal/app"
	"fish/internal/domain"
	"fish/internal/engine"
)

type gameMutation func(tx *engine.Tx, g *domain.Game, ch *change) ([]app.Event, error)

// mutateGame runs fn against a freshly loaded game and commits the result.
func (h *Handler) mutateGame(ctx context.Context, caller, gameID string, fn gameMutation) (*Result, error) {
	var ch change
	var view domain.PlayerView
	err := h.engine.Run(ctx, func(tx *engine.Tx) error {
		ch = change{}
		g, err := tx.Game(gameID)
		if err != nil {
			return err
		}
		wasOver := g.IsOver()
		evs, err := fn(tx, g, &ch)
		if err != nil {
			return err
		}
		ch.events = append(evs, ch.events...)
		if err := h.settle(tx, g, wasOver, &ch); err != nil {
			return err
		}
		view = domain.ViewFor(g, caller)
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.publish(ctx, ch)
	return &Result{Success: true, Game: &view}, nil
}

// errorsIsReplayBlocked reports a roster that cannot be dealt again.
func errorsIsReplayBlocked(err error) bool {
	return errorsmod.IsOf(err, app.ErrTeamsUneven, app.ErrTooFewPlayers)
}

// AskForCard asks req.Target for req.Card.
func (h *Handler) AskForCard(ctx context.Context, caller string, req AskForCardRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionAskForCard); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.AskForCard(g, caller, req.Target, req.Card, tx.Now())
	})
}

// PassTurn hands the caller's turn to a teammate.
func (h *Handler) PassTurn(ctx context.Context, caller string, req PassTurnRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionPassTurn); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.PassTurnToTeammate(g, caller, req.Teammate, tx.Now())
	})
}

// StartDeclaration opens a declaration.
func (h *Handler) StartDeclaration(ctx context.Context, caller string, req GameRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionStartDeclaration); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.StartDeclaration(g, caller, tx.Now())
	})
}

// SelectDeclaration commits the open declaration to a half-suit and team.
func (h *Handler) SelectDeclaration(ctx context.Context, caller string, req SelectDeclarationRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionSelectDeclaration); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.SelectDeclarationHalfSuit(g, caller, req.HalfSuit, *req.Team, tx.Now())
	})
}

// AbortDeclaration cancels an uncommitted declaration.
func (h *Handler) AbortDeclaration(ctx context.Context, caller string, req GameRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionAbortDeclaration); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.AbortDeclaration(g, caller, tx.Now())
	})
}

// FinishDeclaration resolves the open declaration.
func (h *Handler) FinishDeclaration(ctx context.Context, caller string, req FinishDeclarationRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionFinishDeclaration); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.FinishDeclaration(g, caller, req.HalfSuit, *req.Team, req.Assignments, tx.Now())
	})
}

// VoteForReplay records the caller's vote. Once every player still in the
// lobby besides the host voted, the next game is dealt in the same commit.
func (h *Handler) VoteForReplay(ctx context.Context, caller string, req GameRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionVoteForReplay); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, ch *change) ([]app.Event, error) {
		evs, err := h.svc.VoteForReplay(g, caller)
		if err != nil {
			return nil, err
		}
		lobby, err := lobbyOf(tx, g)
		if err != nil {
			return nil, err
		}
		if lobby == nil || lobby.OnGoingGame != g.ID || !h.svc.ReplayReady(g, lobby.CreatedBy, lobby.Players) {
			return evs, nil
		}
		err = h.replay(tx, g, lobby, ch)
		if errorsIsReplayBlocked(err) {
			return evs, nil
		}
		return evs, err
	})
}

// LeaveGame pauses the game while the caller is away.
func (h *Handler) LeaveGame(ctx context.Context, caller string, req GameRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionLeaveGame); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.LeaveGame(g, caller, tx.Now())
	})
}

// ReturnToGame resumes the game the caller left.
func (h *Handler) ReturnToGame(ctx context.Context, caller string, req GameRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionReturnToGame); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.ReturnToGame(g, caller, tx.Now())
	})
}

// ForfeitGame ends a paused game against the absent player's team.
func (h *Handler) ForfeitGame(ctx context.Context, caller string, req GameRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionForfeitGame); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateGame(ctx, caller, req.GameID, func(tx *engine.Tx, g *domain.Game, _ *change) ([]app.Event, error) {
		return h.svc.ForfeitGame(g, caller, tx.Now())
	})
}

// GetGame returns the caller's view of a live game.
func (h *Handler) GetGame(ctx context.Context, caller string, req GameRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionGetGame); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var view domain.PlayerView
	err := h.engine.Run(ctx, func(tx *engine.Tx) error {
		g, err := tx.Game(req.GameID)
		if err != nil {
			return err
		}
		if !g.IsPlayer(caller) {
			return app.ErrNotInGame
		}
		view = domain.ViewFor(g, caller)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, Game: &view}, nil
}
