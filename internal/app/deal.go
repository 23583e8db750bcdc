package app

import (
	"time"

	errorsmod "cosmossdk.io/errors"

	"fish/internal/domain"
)

// DealHands shuffles a fresh deck and deals it round-robin starting from the
// first player, so the first 48 mod n players receive one extra card.
func (s *Service) DealHands(players []string) map[string][]domain.Card {
	deck := domain.NewDeck()
	s.mu.Lock()
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	s.mu.Unlock()

	hands := make(map[string][]domain.Card, len(players))
	for _, p := range players {
		hands[p] = make([]domain.Card, 0, len(deck)/len(players)+1)
	}
	for i, c := range deck {
		p := players[i%len(players)]
		hands[p] = append(hands[p], c)
	}
	return hands
}

// PickFirstTurn picks the opening player uniformly.
func (s *Service) PickFirstTurn(players []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return players[s.rng.Intn(len(players))]
}

// NewGame deals a game for the given roster. Every player must carry a team.
func (s *Service) NewGame(id, lobbyID, host string, players []string, teams map[string]domain.Team, now time.Time) (*domain.Game, []Event, error) {
	if len(players) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}
	roster := make(map[string]domain.Team, len(players))
	for _, p := range players {
		t, ok := teams[p]
		if !ok || !t.Valid() {
			return nil, nil, errorsmod.Wrapf(ErrTeamsUnassigned, "%s has no team", p)
		}
		roster[p] = t
	}

	g := &domain.Game{
		ID:             id,
		LobbyID:        lobbyID,
		Host:           host,
		Players:        append([]string{}, players...),
		Teams:          roster,
		Hands:          s.DealHands(players),
		CurrentTurn:    s.PickFirstTurn(players),
		Phase:          domain.Normal{},
		CreatedAt:      now,
		LastActivityAt: now,
	}
	return g, []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{GameID: id, FirstTurnUserID: g.CurrentTurn},
	}}, nil
}

// NewGameFromLobby starts a game with the lobby's roster and team picks.
func (s *Service) NewGameFromLobby(id string, l *domain.Lobby, now time.Time) (*domain.Game, []Event, error) {
	if err := ValidateLobbyStart(l); err != nil {
		return nil, nil, err
	}
	teams := make(map[string]domain.Team, len(l.Players))
	for _, p := range l.Players {
		teams[p] = *l.Teams[p]
	}
	return s.NewGame(id, l.ID, l.CreatedBy, l.Players, teams, now)
}

// NewReplay deals a fresh game for the players of prev that are still
// present, keeping their teams.
func (s *Service) NewReplay(id string, prev *domain.Game, present []string, now time.Time) (*domain.Game, []Event, error) {
	if !prev.IsOver() {
		return nil, nil, ErrGameNotOver
	}
	here := make(map[string]bool, len(present))
	for _, p := range present {
		here[p] = true
	}
	var players []string
	var counts [2]int
	for _, p := range prev.Players {
		if here[p] {
			players = append(players, p)
			counts[prev.Teams[p]]++
		}
	}
	if counts[domain.TeamA] == 0 || counts[domain.TeamA] != counts[domain.TeamB] {
		return nil, nil, errorsmod.Wrapf(ErrTeamsUneven, "%d vs %d players left for a replay", counts[domain.TeamA], counts[domain.TeamB])
	}
	return s.NewGame(id, prev.LobbyID, prev.Host, players, prev.Teams, now)
}
