package domain

import "time"

// LobbyStatus is the lifecycle state of a lobby.
type LobbyStatus string

const (
	LobbyWaiting LobbyStatus = "waiting"
	LobbyPlaying LobbyStatus = "playing"
)

// Lobby is the pre/post-game room that owns a series of games.
type Lobby struct {
	ID               string           `json:"id"`
	Players          []string         `json:"players"`
	Teams            map[string]*Team `json:"teams"`
	MaxPlayers       int              `json:"maxPlayers"`
	Status           LobbyStatus      `json:"status"`
	CreatedBy        string           `json:"createdBy"`
	OnGoingGame      string           `json:"onGoingGame,omitempty"`
	HistoricalScores [2]int           `json:"historicalScores"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// HasPlayer reports whether the user is in the lobby.
func (l *Lobby) HasPlayer(userID string) bool {
	for _, p := range l.Players {
		if p == userID {
			return true
		}
	}
	return false
}

// IsHost reports whether the user is the lobby host.
func (l *Lobby) IsHost(userID string) bool {
	return l.CreatedBy == userID
}

// TeamCounts returns how many players are assigned to each team and how many are unassigned.
func (l *Lobby) TeamCounts() (counts [2]int, unassigned int) {
	for _, p := range l.Players {
		t := l.Teams[p]
		if t == nil {
			unassigned++
			continue
		}
		counts[*t]++
	}
	return counts, unassigned
}

// RecordResult credits a finished game to the cumulative series score.
func (l *Lobby) RecordResult(winner *Team) {
	if winner == nil {
		return
	}
	l.HistoricalScores[*winner]++
}
