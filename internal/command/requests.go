package command

import (
	errorsmod "cosmossdk.io/errors"

	"fish/internal/app"
	"fish/internal/domain"
)

// GameRequest addresses a game. It is the payload of the verbs that take no
// other parameter.
type GameRequest struct {
	GameID string `json:"gameId"`
}

func (r GameRequest) Validate() error {
	if r.GameID == "" {
		return errorsmod.Wrap(app.ErrInvalidArgument, "gameId is required")
	}
	return nil
}

type AskForCardRequest struct {
	GameID string      `json:"gameId"`
	Target string      `json:"target"`
	Card   domain.Card `json:"card"`
}

func (r AskForCardRequest) Validate() error {
	if err := (GameRequest{r.GameID}).Validate(); err != nil {
		return err
	}
	if r.Target == "" {
		return errorsmod.Wrap(app.ErrInvalidArgument, "target is required")
	}
	if !r.Card.Valid() {
		return errorsmod.Wrap(app.ErrInvalidArgument, "card is required")
	}
	return nil
}

type PassTurnRequest struct {
	GameID   string `json:"gameId"`
	Teammate string `json:"teammate"`
}

func (r PassTurnRequest) Validate() error {
	if err := (GameRequest{r.GameID}).Validate(); err != nil {
		return err
	}
	if r.Teammate == "" {
		return errorsmod.Wrap(app.ErrInvalidArgument, "teammate is required")
	}
	return nil
}

type SelectDeclarationRequest struct {
	GameID   string          `json:"gameId"`
	HalfSuit domain.HalfSuit `json:"halfSuit"`
	Team     *domain.Team    `json:"team"`
}

func validateHalfSuitAndTeam(h domain.HalfSuit, team *domain.Team) error {
	if !h.Valid() {
		return errorsmod.Wrapf(app.ErrInvalidArgument, "unknown half-suit %q", h)
	}
	if team == nil || !team.Valid() {
		return errorsmod.Wrap(app.ErrInvalidArgument, "team must be 0 or 1")
	}
	return nil
}

func (r SelectDeclarationRequest) Validate() error {
	if err := (GameRequest{r.GameID}).Validate(); err != nil {
		return err
	}
	return validateHalfSuitAndTeam(r.HalfSuit, r.Team)
}

type FinishDeclarationRequest struct {
	GameID      string                 `json:"gameId"`
	HalfSuit    domain.HalfSuit        `json:"halfSuit"`
	Team        *domain.Team           `json:"team"`
	Assignments map[domain.Card]string `json:"assignments"`
}

func (r FinishDeclarationRequest) Validate() error {
	if err := (GameRequest{r.GameID}).Validate(); err != nil {
		return err
	}
	if err := validateHalfSuitAndTeam(r.HalfSuit, r.Team); err != nil {
		return err
	}
	if len(r.Assignments) == 0 {
		return errorsmod.Wrap(app.ErrInvalidArgument, "assignments are required")
	}
	for c, p := range r.Assignments {
		if !r.HalfSuit.Contains(c) {
			return errorsmod.Wrapf(app.ErrInvalidArgument, "%s is not part of %s", c, r.HalfSuit)
		}
		if p == "" {
			return errorsmod.Wrapf(app.ErrInvalidArgument, "no player named for %s", c)
		}
	}
	return nil
}

type CreateLobbyRequest struct {
	MaxPlayers int `json:"maxPlayers"`
}

func (r CreateLobbyRequest) Validate(limit int) error {
	if r.MaxPlayers != 0 && (r.MaxPlayers < app.MinPlayersToStartGame || r.MaxPlayers > limit) {
		return errorsmod.Wrapf(app.ErrInvalidArgument, "maxPlayers must be between %d and %d", app.MinPlayersToStartGame, limit)
	}
	return nil
}

// LobbyRequest addresses a lobby.
type LobbyRequest struct {
	LobbyID string `json:"lobbyId"`
}

func (r LobbyRequest) Validate() error {
	if r.LobbyID == "" {
		return errorsmod.Wrap(app.ErrInvalidArgument, "lobbyId is required")
	}
	return nil
}

// SetTeamRequest picks a team for UserID, or for the caller when UserID is
// empty. A nil Team clears the pick.
type SetTeamRequest struct {
	LobbyID string       `json:"lobbyId"`
	UserID  string       `json:"userId,omitempty"`
	Team    *domain.Team `json:"team"`
}

func (r SetTeamRequest) Validate() error {
	if err := (LobbyRequest{r.LobbyID}).Validate(); err != nil {
		return err
	}
	if r.Team != nil && !r.Team.Valid() {
		return errorsmod.Wrap(app.ErrInvalidArgument, "team must be 0 or 1")
	}
	return nil
}
