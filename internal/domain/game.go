package domain

import (
	"encoding/json"
	"time"
)

// Turn is one entry of the append-only ask log.
type Turn struct {
	Asker   string    `json:"asker"`
	Target  string    `json:"target"`
	Card    Card      `json:"card"`
	Success bool      `json:"success"`
	At      time.Time `json:"timestamp"`
}

// Declaration is one entry of the append-only declaration log.
type Declaration struct {
	Declarer    string          `json:"declarer"`
	HalfSuit    HalfSuit        `json:"halfSuit"`
	Team        Team            `json:"team"`
	Assignments map[Card]string `json:"assignments"`
	Actual      map[Card]string `json:"actual"`
	Outcome     Outcome         `json:"outcome"`
	ScoringTeam *Team           `json:"scoringTeam,omitempty"`
	Forfeit     bool            `json:"forfeit"`
	At          time.Time       `json:"timestamp"`
}

// Game is the aggregate root of one match.
type Game struct {
	ID                 string            `json:"id"`
	LobbyID            string            `json:"lobbyId"`
	Host               string            `json:"host"`
	Players            []string          `json:"players"`
	Teams              map[string]Team   `json:"teams"`
	Hands              map[string][]Card `json:"playerHands"`
	CurrentTurn        string            `json:"currentTurn"`
	Turns              []Turn            `json:"turns"`
	Scores             [2]int            `json:"scores"`
	CompletedHalfSuits []HalfSuit        `json:"completedHalfsuits"`
	Declarations       []Declaration     `json:"declarations"`
	Phase              Phase             `json:"phase"`
	ReplayVotes        []string          `json:"replayVotes"`
	CreatedAt          time.Time         `json:"createdAt"`
	LastActivityAt     time.Time         `json:"lastActivityAt"`
}

type gameAlias Game

// MarshalJSON encodes the game with its phase as a tagged object.
func (g Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		gameAlias
		Phase phaseDoc `json:"phase"`
	}{gameAlias(g), encodePhase(g.Phase)})
}

// UnmarshalJSON decodes a stored game.
func (g *Game) UnmarshalJSON(b []byte) error {
	aux := struct {
		*gameAlias
		Phase phaseDoc `json:"phase"`
	}{gameAlias: (*gameAlias)(g)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	phase, err := aux.Phase.decode()
	if err != nil {
		return err
	}
	g.Phase = phase
	if g.Teams == nil {
		g.Teams = map[string]Team{}
	}
	if g.Hands == nil {
		g.Hands = map[string][]Card{}
	}
	return nil
}

// IsPlayer reports whether userID is part of the game.
func (g *Game) IsPlayer(userID string) bool {
	_, ok := g.Teams[userID]
	return ok
}

// TeamOf returns the team of a player.
func (g *Game) TeamOf(userID string) (Team, bool) {
	t, ok := g.Teams[userID]
	return t, ok
}

// SameTeam reports whether both players are in the game and on the same team.
func (g *Game) SameTeam(a, b string) bool {
	ta, okA := g.Teams[a]
	tb, okB := g.Teams[b]
	return okA && okB && ta == tb
}

// TeamMembers returns the players of a team in seat order.
func (g *Game) TeamMembers(t Team) []string {
	var out []string
	for _, p := range g.Players {
		if g.Teams[p] == t {
			out = append(out, p)
		}
	}
	return out
}

// HolderOf returns the player currently holding the card, or "".
func (g *Game) HolderOf(card Card) string {
	for _, p := range g.Players {
		if HandHasCard(g.Hands[p], card) {
			return p
		}
	}
	return ""
}

// TeamHasCards reports whether any member of the team holds a card.
func (g *Game) TeamHasCards(t Team) bool {
	for _, p := range g.TeamMembers(t) {
		if len(g.Hands[p]) > 0 {
			return true
		}
	}
	return false
}

// IsCompleted reports whether the half-suit was already retired.
func (g *Game) IsCompleted(h HalfSuit) bool {
	for _, c := range g.CompletedHalfSuits {
		if c == h {
			return true
		}
	}
	return false
}

// IsOver reports whether the game reached its terminal phase.
func (g *Game) IsOver() bool {
	_, ok := g.Phase.(Over)
	return ok
}

// Outcome returns the terminal phase, if any.
func (g *Game) Outcome() (Over, bool) {
	o, ok := g.Phase.(Over)
	return o, ok
}

// Pause returns the pause state, if any.
func (g *Game) Pause() (Paused, bool) {
	p, ok := g.Phase.(Paused)
	return p, ok
}

// HasVoted reports whether the player voted for a replay.
func (g *Game) HasVoted(userID string) bool {
	for _, v := range g.ReplayVotes {
		if v == userID {
			return true
		}
	}
	return false
}

// ForfeitedCount returns the number of retired half-suits nobody scored.
func (g *Game) ForfeitedCount() int {
	n := 0
	for _, d := range g.Declarations {
		if d.ScoringTeam == nil {
			n++
		}
	}
	return n
}

// CardsInPlay returns the total number of cards still held by players.
func (g *Game) CardsInPlay() int {
	n := 0
	for _, hand := range g.Hands {
		n += len(hand)
	}
	return n
}
