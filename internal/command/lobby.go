package command

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"fish/internal/app"
	"fish/internal/domain"
	"fish/internal/engine"
)

type lobbyMutation func(tx *engine.Tx, l *domain.Lobby, ch *change) ([]app.Event, error)

// mutateLobby runs fn against a freshly loaded lobby. fn stages the lobby itself.
func (h *Handler) mutateLobby(ctx context.Context, lobbyID string, fn lobbyMutation) (*Result, error) {
	var ch change
	var snapshot domain.Lobby
	err := h.engine.Run(ctx, func(tx *engine.Tx) error {
		ch = change{}
		l, err := tx.Lobby(lobbyID)
		if err != nil {
			return err
		}
		evs, err := fn(tx, l, &ch)
		if err != nil {
			return err
		}
		ch.events = append(evs, ch.events...)
		snapshot = *l
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.publish(ctx, ch)
	return &Result{Success: true, Lobby: &snapshot}, nil
}

// CreateLobby opens a lobby hosted by the caller under a fresh room code.
func (h *Handler) CreateLobby(ctx context.Context, caller string, req CreateLobbyRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionCreateLobby); err != nil {
		return nil, err
	}
	if err := req.Validate(h.maxLobbyPlayers); err != nil {
		return nil, err
	}
	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = h.maxLobbyPlayers
	}

	var created *domain.Lobby
	err := h.engine.Run(ctx, func(tx *engine.Tx) error {
		for attempt := 0; attempt < app.LobbyCodeAttempts; attempt++ {
			code := h.svc.NewLobbyCode()
			taken, err := tx.LobbyExists(code)
			if err != nil {
				return err
			}
			if taken {
				continue
			}
			created = app.NewLobby(code, caller, maxPlayers, tx.Now())
			tx.PutLobby(created)
			return nil
		}
		return errorsmod.Wrapf(app.ErrIDSpaceExhausted, "after %d attempts", app.LobbyCodeAttempts)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, Lobby: created}, nil
}

// JoinLobby adds the caller to a waiting lobby.
func (h *Handler) JoinLobby(ctx context.Context, caller string, req LobbyRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionJoinLobby); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateLobby(ctx, req.LobbyID, func(tx *engine.Tx, l *domain.Lobby, ch *change) ([]app.Event, error) {
		evs, err := app.JoinLobby(l, caller)
		if err != nil {
			return nil, err
		}
		tx.PutLobby(l)
		ch.lobby = l
		return evs, nil
	})
}

// LeaveLobby removes the caller. The last one out closes the lobby and
// archives a finished game still attached to it.
func (h *Handler) LeaveLobby(ctx context.Context, caller string, req LobbyRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionLeaveLobby); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateLobby(ctx, req.LobbyID, func(tx *engine.Tx, l *domain.Lobby, ch *change) ([]app.Event, error) {
		g, err := h.currentGame(tx, l)
		if err != nil {
			return nil, err
		}
		live := g != nil && !g.IsOver()
		empty, evs, err := app.LeaveLobby(l, caller, live)
		if err != nil {
			return nil, err
		}
		if !empty {
			tx.PutLobby(l)
			ch.lobby = l
			// The leaver may have been the last player the replay waited on.
			if g != nil && g.IsOver() && l.OnGoingGame == g.ID && h.svc.ReplayReady(g, l.CreatedBy, l.Players) {
				if err := h.replay(tx, g, l, ch); err != nil && !errorsIsReplayBlocked(err) {
					return nil, err
				}
			}
			return evs, nil
		}
		if g != nil {
			tx.ArchiveGame(g, engine.ArchiveCompleted, reasonLobbyClosed)
		}
		tx.ArchiveLobby(l)
		return evs, nil
	})
}

// currentGame loads the lobby's attached game, or nil if there is none.
func (h *Handler) currentGame(tx *engine.Tx, l *domain.Lobby) (*domain.Game, error) {
	if l.OnGoingGame == "" {
		return nil, nil
	}
	g, err := tx.Game(l.OnGoingGame)
	if errorsmod.IsOf(err, app.ErrGameNotFound) {
		return nil, nil
	}
	return g, err
}

// SetTeam picks a team for the caller, or for another player when the caller hosts.
func (h *Handler) SetTeam(ctx context.Context, caller string, req SetTeamRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionSetTeam); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	target := req.UserID
	if target == "" {
		target = caller
	}
	return h.mutateLobby(ctx, req.LobbyID, func(tx *engine.Tx, l *domain.Lobby, ch *change) ([]app.Event, error) {
		evs, err := app.SetTeam(l, caller, target, req.Team)
		if err != nil {
			return nil, err
		}
		tx.PutLobby(l)
		ch.lobby = l
		return evs, nil
	})
}

func requireHost(l *domain.Lobby, caller string) error {
	if !l.HasPlayer(caller) {
		return app.ErrNotInLobby
	}
	if !l.IsHost(caller) {
		return app.ErrNotHost
	}
	return nil
}

// StartGame deals the first game of the lobby. Host only.
func (h *Handler) StartGame(ctx context.Context, caller string, req LobbyRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionStartGame); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateLobby(ctx, req.LobbyID, func(tx *engine.Tx, l *domain.Lobby, ch *change) ([]app.Event, error) {
		if err := requireHost(l, caller); err != nil {
			return nil, err
		}
		g, evs, err := h.svc.NewGameFromLobby(h.newGameID(), l, tx.Now())
		if err != nil {
			return nil, err
		}
		tx.CreateGame(g)
		evs = append(evs, app.AttachGame(l, g.ID))
		tx.PutLobby(l)
		ch.touchGame(g)
		ch.lobby = l
		return evs, nil
	})
}

// finishedGame loads the lobby's game and requires it to be over.
func (h *Handler) finishedGame(tx *engine.Tx, l *domain.Lobby) (*domain.Game, error) {
	if l.OnGoingGame == "" {
		return nil, app.ErrNoOngoingGame
	}
	g, err := tx.Game(l.OnGoingGame)
	if err != nil {
		return nil, err
	}
	if !g.IsOver() {
		return nil, app.ErrGameInProgress
	}
	return g, nil
}

// StartReplay deals the next game without waiting for every vote. Host only.
func (h *Handler) StartReplay(ctx context.Context, caller string, req LobbyRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionStartReplay); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateLobby(ctx, req.LobbyID, func(tx *engine.Tx, l *domain.Lobby, ch *change) ([]app.Event, error) {
		if err := requireHost(l, caller); err != nil {
			return nil, err
		}
		g, err := h.finishedGame(tx, l)
		if err != nil {
			return nil, err
		}
		return nil, h.replay(tx, g, l, ch)
	})
}

// ReturnToLobby archives the finished game and reopens the lobby. Host only.
func (h *Handler) ReturnToLobby(ctx context.Context, caller string, req LobbyRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionReturnToLobby); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return h.mutateLobby(ctx, req.LobbyID, func(tx *engine.Tx, l *domain.Lobby, ch *change) ([]app.Event, error) {
		if err := requireHost(l, caller); err != nil {
			return nil, err
		}
		g, err := h.finishedGame(tx, l)
		if err != nil {
			return nil, err
		}
		tx.ArchiveGame(g, engine.ArchiveCompleted, reasonReturnToLobby)
		ev := app.DetachGame(l)
		tx.PutLobby(l)
		ch.lobby = l
		return []app.Event{ev}, nil
	})
}

// GetLobby returns a lobby.
func (h *Handler) GetLobby(ctx context.Context, caller string, req LobbyRequest) (*Result, error) {
	if err := h.admit(ctx, caller, ActionGetLobby); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var snapshot domain.Lobby
	err := h.engine.Run(ctx, func(tx *engine.Tx) error {
		l, err := tx.Lobby(req.LobbyID)
		if err != nil {
			return err
		}
		snapshot = *l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, Lobby: &snapshot}, nil
}
