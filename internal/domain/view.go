package domain

import "time"

// PlayerView is what one player is allowed to see of a game: their own hand
// and only the sizes of everybody else's.
type PlayerView struct {
	GameID             string          `json:"gameId"`
	LobbyID            string          `json:"lobbyId"`
	Viewer             string          `json:"viewer"`
	Players            []string        `json:"players"`
	Teams              map[string]Team `json:"teams"`
	Hand               []Card          `json:"hand"`
	HandSizes          map[string]int  `json:"handSizes"`
	CurrentTurn        string          `json:"currentTurn"`
	Turns              []Turn          `json:"turns"`
	Scores             [2]int          `json:"scores"`
	CompletedHalfSuits []HalfSuit      `json:"completedHalfsuits"`
	Declarations       []Declaration   `json:"declarations"`
	Phase              Phase           `json:"-"`
	PhaseDoc           phaseDoc        `json:"phase"`
	ReplayVotes        []string        `json:"replayVotes"`
	LastActivityAt     time.Time       `json:"lastActivityAt"`
}

// ViewFor projects the game for viewer. Non-players get an empty hand.
func ViewFor(g *Game, viewer string) PlayerView {
	hand := append([]Card{}, g.Hands[viewer]...)
	SortHand(hand)

	sizes := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		sizes[p] = len(g.Hands[p])
	}
	teams := make(map[string]Team, len(g.Teams))
	for p, t := range g.Teams {
		teams[p] = t
	}

	return PlayerView{
		GameID:             g.ID,
		LobbyID:            g.LobbyID,
		Viewer:             viewer,
		Players:            append([]string{}, g.Players...),
		Teams:              teams,
		Hand:               hand,
		HandSizes:          sizes,
		CurrentTurn:        g.CurrentTurn,
		Turns:              append([]Turn{}, g.Turns...),
		Scores:             g.Scores,
		CompletedHalfSuits: append([]HalfSuit{}, g.CompletedHalfSuits...),
		Declarations:       append([]Declaration{}, g.Declarations...),
		Phase:              g.Phase,
		PhaseDoc:           encodePhase(g.Phase),
		ReplayVotes:        append([]string{}, g.ReplayVotes...),
		LastActivityAt:     g.LastActivityAt,
	}
}
