package app

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	"fish/internal/domain"
)

const (
	// LobbyCodeLength is the length of a lobby room code.
	LobbyCodeLength = 6
	// LobbyCodeAttempts bounds how many codes are tried before giving up.
	LobbyCodeAttempts = 16
	// DefaultMaxLobbyPlayers caps a lobby when config does not.
	DefaultMaxLobbyPlayers = 8

	lobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no ambiguous chars
)

// NewLobbyCode draws a random room code.
func (s *Service) NewLobbyCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := make([]byte, LobbyCodeLength)
	for i := range code {
		code[i] = lobbyCodeAlphabet[s.rng.Intn(len(lobbyCodeAlphabet))]
	}
	return string(code)
}

// NewLobby creates a waiting lobby hosted by creator.
func NewLobby(id, creator string, maxPlayers int, now time.Time) *domain.Lobby {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxLobbyPlayers
	}
	return &domain.Lobby{
		ID:         id,
		Players:    []string{creator},
		Teams:      map[string]*domain.Team{creator: nil},
		MaxPlayers: maxPlayers,
		Status:     domain.LobbyWaiting,
		CreatedBy:  creator,
		CreatedAt:  now,
	}
}

func lobbyUpdated(l *domain.Lobby) Event {
	return Event{Kind: EventLobbyUpdated, Payload: LobbyUpdatedPayload{Lobby: *l}}
}

// JoinLobby adds user to a waiting lobby.
func JoinLobby(l *domain.Lobby, user string) ([]Event, error) {
	if l.HasPlayer(user) {
		return nil, ErrAlreadyInLobby
	}
	if l.Status != domain.LobbyWaiting {
		return nil, ErrLobbyNotWaiting
	}
	if len(l.Players) >= l.MaxPlayers {
		return nil, errorsmod.Wrapf(ErrLobbyFull, "max %d players", l.MaxPlayers)
	}
	l.Players = append(l.Players, user)
	if l.Teams == nil {
		l.Teams = map[string]*domain.Team{}
	}
	l.Teams[user] = nil
	return []Event{lobbyUpdated(l)}, nil
}

// LeaveLobby removes user. Hosting moves to the next player in join order.
// It reports whether the lobby is now empty. gameLive is true while the
// lobby's game is still being played.
func LeaveLobby(l *domain.Lobby, user string, gameLive bool) (bool, []Event, error) {
	if !l.HasPlayer(user) {
		return false, nil, ErrNotInLobby
	}
	if gameLive {
		return false, nil, ErrGameInProgress
	}
	kept := l.Players[:0:0]
	for _, p := range l.Players {
		if p != user {
			kept = append(kept, p)
		}
	}
	l.Players = kept
	delete(l.Teams, user)
	if len(l.Players) == 0 {
		return true, nil, nil
	}
	if l.CreatedBy == user {
		l.CreatedBy = l.Players[0]
	}
	return false, []Event{lobbyUpdated(l)}, nil
}

// SetTeam assigns target to team, or clears the pick when team is nil.
// Players choose their own team; the host may place anyone.
func SetTeam(l *domain.Lobby, caller, target string, team *domain.Team) ([]Event, error) {
	if !l.HasPlayer(caller) {
		return nil, ErrNotInLobby
	}
	if !l.HasPlayer(target) {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "%s is not in this lobby", target)
	}
	if caller != target && !l.IsHost(caller) {
		return nil, ErrNotHost
	}
	if team != nil && !team.Valid() {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "team must be 0 or 1")
	}
	if l.Status != domain.LobbyWaiting {
		return nil, ErrLobbyNotWaiting
	}
	if team == nil {
		l.Teams[target] = nil
	} else {
		t := *team
		l.Teams[target] = &t
	}
	return []Event{lobbyUpdated(l)}, nil
}

// ValidateLobbyStart checks a lobby can start a game: enough players, every
// player on a team, and teams that are non-empty and balanced.
func ValidateLobbyStart(l *domain.Lobby) error {
	if l.Status != domain.LobbyWaiting {
		return ErrLobbyNotWaiting
	}
	if l.OnGoingGame != "" {
		return ErrGameInProgress
	}
	if len(l.Players) < MinPlayersToStartGame {
		return errorsmod.Wrapf(ErrTooFewPlayers, "need at least %d", MinPlayersToStartGame)
	}
	counts, unassigned := l.TeamCounts()
	if unassigned > 0 {
		return errorsmod.Wrapf(ErrTeamsUnassigned, "%d players without a team", unassigned)
	}
	if counts[domain.TeamA] == 0 || counts[domain.TeamB] == 0 || counts[domain.TeamA] != counts[domain.TeamB] {
		return errorsmod.Wrapf(ErrTeamsUneven, "%d vs %d", counts[domain.TeamA], counts[domain.TeamB])
	}
	return nil
}

// AttachGame marks the lobby as playing gameID.
func AttachGame(l *domain.Lobby, gameID string) Event {
	l.OnGoingGame = gameID
	l.Status = domain.LobbyPlaying
	return lobbyUpdated(l)
}

// DetachGame returns the lobby to waiting.
func DetachGame(l *domain.Lobby) Event {
	l.OnGoingGame = ""
	l.Status = domain.LobbyWaiting
	return lobbyUpdated(l)
}
