// Package command is the verb surface of the game server. Every verb checks
// the caller, validates its request, passes the rate gate, runs one engine
// transaction and publishes the result after commit.
package command

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"fish/internal/app"
	"fish/internal/domain"
	"fish/internal/engine"
	"fish/internal/ports"
)

// Options tunes a Handler.
type Options struct {
	MaxLobbyPlayers int
	// NewGameID generates game ids. Defaults to random UUIDs.
	NewGameID func() string
}

// Handler executes verbs.
type Handler struct {
	logger          runtime.Logger
	engine          *engine.Engine
	svc             *app.Service
	gate            ports.RateGate
	pub             ports.Publisher
	maxLobbyPlayers int
	newGameID       func() string
}

// NewHandler wires a Handler.
func NewHandler(logger runtime.Logger, eng *engine.Engine, svc *app.Service, gate ports.RateGate, pub ports.Publisher, opts Options) *Handler {
	if opts.MaxLobbyPlayers <= 0 {
		opts.MaxLobbyPlayers = app.DefaultMaxLobbyPlayers
	}
	if opts.NewGameID == nil {
		opts.NewGameID = uuid.NewString
	}
	return &Handler{
		logger:          logger,
		engine:          eng,
		svc:             svc,
		gate:            gate,
		pub:             pub,
		maxLobbyPlayers: opts.MaxLobbyPlayers,
		newGameID:       opts.NewGameID,
	}
}

// Result is the success response of every verb.
type Result struct {
	Success bool               `json:"success"`
	Game    *domain.PlayerView `json:"game,omitempty"`
	Lobby   *domain.Lobby      `json:"lobby,omitempty"`
}

// change collects what one transaction attempt touched, for publication.
type change struct {
	events []app.Event
	games  []*domain.Game
	lobby  *domain.Lobby
}

func (c *change) touchGame(g *domain.Game) {
	for _, seen := range c.games {
		if seen == g {
			return
		}
	}
	c.games = append(c.games, g)
}

func (h *Handler) admit(ctx context.Context, caller, action string) error {
	if caller == "" {
		return app.ErrUnauthenticated
	}
	if h.gate == nil {
		return nil
	}
	return h.gate.Allow(ctx, caller, action)
}

// lobbyOf loads the lobby owning g, or nil when it no longer exists.
func lobbyOf(tx *engine.Tx, g *domain.Game) (*domain.Lobby, error) {
	l, err := tx.Lobby(g.LobbyID)
	if errorsmod.IsOf(err, app.ErrLobbyNotFound) {
		return nil, nil
	}
	return l, err
}

// settle stages g after a mutation and applies lifecycle effects of a fresh
// game-over: the owning lobby's series score, and archival of forfeited games.
func (h *Handler) settle(tx *engine.Tx, g *domain.Game, wasOver bool, ch *change) error {
	ch.touchGame(g)
	over, ended := g.Outcome()
	if !ended || wasOver {
		tx.PutGame(g)
		return nil
	}

	lobby, err := lobbyOf(tx, g)
	if err != nil {
		return err
	}
	if lobby != nil && lobby.OnGoingGame != g.ID {
		lobby = nil
	}
	if lobby != nil {
		lobby.RecordResult(over.Winner)
	}

	if over.Reason == domain.OverForfeit {
		tx.ArchiveGame(g, engine.ArchiveUnfinished, string(domain.OverForfeit))
		if lobby != nil {
			ch.events = append(ch.events, app.DetachGame(lobby))
		}
	} else {
		tx.PutGame(g)
	}
	if lobby != nil {
		tx.PutLobby(lobby)
		ch.lobby = lobby
	}
	return nil
}

// replay deals the next game of the lobby's series and retires prev.
func (h *Handler) replay(tx *engine.Tx, prev *domain.Game, lobby *domain.Lobby, ch *change) error {
	if lobby.OnGoingGame != prev.ID {
		return app.ErrStaleGame
	}
	next, evs, err := h.svc.NewReplay(h.newGameID(), prev, lobby.Players, tx.Now())
	if err != nil {
		return err
	}
	next.Host = lobby.CreatedBy
	tx.CreateGame(next)
	tx.ArchiveGame(prev, engine.ArchiveCompleted, reasonReplay)
	ch.events = append(ch.events, evs...)
	ch.events = append(ch.events, app.AttachGame(lobby, next.ID))
	tx.PutLobby(lobby)
	ch.touchGame(next)
	ch.lobby = lobby
	return nil
}

func eventsFor(events []app.Event, userID string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(events))
	for _, ev := range events {
		if len(ev.Recipients) > 0 && !contains(ev.Recipients, userID) {
			continue
		}
		out = append(out, map[string]interface{}{"kind": ev.Kind, "payload": ev.Payload})
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SubjectUpdate is used when a commit carries no event.
const SubjectUpdate = "fish_update"

// publish pushes each affected player their own view. Failures are logged,
// the commit already happened.
func (h *Handler) publish(ctx context.Context, ch change) {
	if h.pub == nil {
		return
	}
	subject := SubjectUpdate
	if n := len(ch.events); n > 0 {
		subject = string(ch.events[n-1].Kind)
	}

	var out []ports.Notification
	for _, g := range ch.games {
		for _, p := range g.Players {
			out = append(out, ports.Notification{
				UserID:  p,
				Subject: subject,
				Content: map[string]interface{}{
					"events": eventsFor(ch.events, p),
					"game":   domain.ViewFor(g, p),
				},
			})
		}
	}
	if ch.lobby != nil {
		for _, p := range ch.lobby.Players {
			out = append(out, ports.Notification{
				UserID:  p,
				Subject: subject,
				Content: map[string]interface{}{
					"events": eventsFor(ch.events, p),
					"lobby":  ch.lobby,
				},
			})
		}
	}
	if len(out) == 0 {
		return
	}
	if err := h.pub.Publish(ctx, out); err != nil {
		h.logger.Warn("publish %s to %d recipients failed: %v", subject, len(out), err)
	}
}
