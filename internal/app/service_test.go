package app

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fish/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mustCard(s string) domain.Card {
	c, err := domain.ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func cards(keys ...string) []domain.Card {
	out := make([]domain.Card, 0, len(keys))
	for _, k := range keys {
		out = append(out, mustCard(k))
	}
	return out
}

// newFixture returns a four player game with the sorted deck dealt round-robin
// over a1, b1, a2, b2. Low spades end up as a1: 2S 6S, b1: 3S 7S, a2: 4S, b2: 5S.
func newFixture(t *testing.T) (*Service, *domain.Game) {
	t.Helper()
	svc := NewService(rand.New(rand.NewSource(7)), Rules{})
	players := []string{"a1", "b1", "a2", "b2"}
	hands := map[string][]domain.Card{}
	for i, c := range domain.NewDeck() {
		p := players[i%len(players)]
		hands[p] = append(hands[p], c)
	}
	g := &domain.Game{
		ID:             "g1",
		LobbyID:        "L1",
		Host:           "a1",
		Players:        players,
		Teams:          map[string]domain.Team{"a1": domain.TeamA, "a2": domain.TeamA, "b1": domain.TeamB, "b2": domain.TeamB},
		Hands:          hands,
		CurrentTurn:    "a1",
		Phase:          domain.Normal{},
		CreatedAt:      t0,
		LastActivityAt: t0,
	}
	return svc, g
}

// giveHalfSuitToTeamA moves every low spade to a1 (2S 4S 6S) and a2 (3S 5S 7S).
func giveHalfSuitToTeamA(g *domain.Game) {
	for _, p := range g.Players {
		g.Hands[p] = domain.RemoveHalfSuit(g.Hands[p], "low-spades")
	}
	g.Hands["a1"] = append(g.Hands["a1"], cards("2S", "4S", "6S")...)
	g.Hands["a2"] = append(g.Hands["a2"], cards("3S", "5S", "7S")...)
}

func holders(g *domain.Game, h domain.HalfSuit) map[domain.Card]string {
	out := map[domain.Card]string{}
	for _, c := range h.Cards() {
		out[c] = g.HolderOf(c)
	}
	return out
}

func snapshot(t *testing.T, g *domain.Game) string {
	t.Helper()
	b, err := json.Marshal(g)
	require.NoError(t, err)
	return string(b)
}

func TestDealHandsDeckInvariant(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)), Rules{})
	for _, n := range []int{4, 6, 8} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			players := make([]string, n)
			for i := range players {
				players[i] = fmt.Sprintf("p%d", i)
			}
			hands := svc.DealHands(players)

			seen := map[domain.Card]bool{}
			minSize, maxSize := domain.DeckSize, 0
			for _, p := range players {
				hand := hands[p]
				minSize = min(minSize, len(hand))
				maxSize = max(maxSize, len(hand))
				for _, c := range hand {
					require.False(t, seen[c], "duplicate card %s", c)
					seen[c] = true
				}
			}
			require.Len(t, seen, domain.DeckSize)
			require.LessOrEqual(t, maxSize-minSize, 1)
		})
	}
}

func TestNewGameFromLobby(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)), Rules{})
	l := NewLobby("L1", "a1", 0, t0)
	_, err := JoinLobby(l, "b1")
	require.NoError(t, err)

	_, _, err = svc.NewGameFromLobby("g1", l, t0)
	require.ErrorIs(t, err, ErrTeamsUnassigned)

	a, b := domain.TeamA, domain.TeamB
	_, err = SetTeam(l, "a1", "a1", &a)
	require.NoError(t, err)
	_, err = SetTeam(l, "a1", "b1", &a)
	require.NoError(t, err)
	_, _, err = svc.NewGameFromLobby("g1", l, t0)
	require.ErrorIs(t, err, ErrTeamsUneven)

	_, err = SetTeam(l, "b1", "b1", &b)
	require.NoError(t, err)
	g, evs, err := svc.NewGameFromLobby("g1", l, t0)
	require.NoError(t, err)
	require.Equal(t, "L1", g.LobbyID)
	require.Equal(t, domain.Normal{}, g.Phase)
	require.Len(t, g.Hands["a1"], 24)
	require.Len(t, g.Hands["b1"], 24)
	require.Contains(t, g.Players, g.CurrentTurn)
	require.Len(t, evs, 1)
	require.Equal(t, EventGameStarted, evs[0].Kind)
}

func TestAskForCardEffect(t *testing.T) {
	svc, g := newFixture(t)
	g.Hands["a1"] = cards("3S", "9H")
	g.Hands["b1"] = cards("2S", "10H")
	g.Hands["a2"] = cards("4H")
	g.Hands["b2"] = cards("5H")

	evs, err := svc.AskForCard(g, "a1", "b1", mustCard("2S"), t0.Add(time.Second))
	require.NoError(t, err)
	require.True(t, domain.HandHasCard(g.Hands["a1"], mustCard("2S")))
	require.False(t, domain.HandHasCard(g.Hands["b1"], mustCard("2S")))
	require.Equal(t, "a1", g.CurrentTurn)
	require.Len(t, g.Turns, 1)
	require.True(t, g.Turns[0].Success)
	require.Equal(t, t0.Add(time.Second), g.LastActivityAt)
	require.Len(t, evs, 1)
	require.Equal(t, EventCardAsked, evs[0].Kind)

	_, err = svc.AskForCard(g, "a1", "b1", mustCard("4S"), t0.Add(2*time.Second))
	require.NoError(t, err)
	require.Equal(t, cards("3S", "9H", "2S"), g.Hands["a1"])
	require.Equal(t, cards("10H"), g.Hands["b1"])
	require.Equal(t, "b1", g.CurrentTurn)
	require.Len(t, g.Turns, 2)
	require.False(t, g.Turns[1].Success)
}

func TestAskForCardRejections(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(g *domain.Game)
		asker  string
		target string
		card   string
		want   error
	}{
		{name: "unknown asker", asker: "zz", target: "b1", card: "3S", want: ErrNotInGame},
		{name: "unknown target", asker: "a1", target: "zz", card: "3S", want: ErrInvalidArgument},
		{name: "not your turn", asker: "b1", target: "a1", card: "2S", want: ErrNotYourTurn},
		{name: "teammate", asker: "a1", target: "a2", card: "4S", want: ErrTargetNotOpponent},
		{name: "already held", asker: "a1", target: "b1", card: "6S", want: ErrAlreadyHoldCard},
		{
			name:  "half-suit not held",
			setup: func(g *domain.Game) { g.Hands["a1"] = cards("2S") },
			asker: "a1", target: "b1", card: "9H", want: ErrHalfSuitNotHeld,
		},
		{
			name:  "target empty",
			setup: func(g *domain.Game) { g.Hands["b1"] = nil },
			asker: "a1", target: "b1", card: "3S", want: ErrTargetHasNoCards,
		},
		{
			name:  "declaring",
			setup: func(g *domain.Game) { g.Phase = domain.Declaring{Declaree: "a1"} },
			asker: "a1", target: "b1", card: "3S", want: ErrDeclarationInProgress,
		},
		{
			name: "paused for another player",
			setup: func(g *domain.Game) {
				g.Phase = domain.Paused{PlayerID: "b2", Reason: domain.ReasonLeft, Since: t0, Resume: domain.Normal{}}
			},
			asker: "a1", target: "b1", card: "3S", want: ErrGamePaused,
		},
		{
			name: "game over",
			setup: func(g *domain.Game) {
				w := domain.TeamA
				g.Phase = domain.Over{Winner: &w, Reason: domain.OverDeclared}
			},
			asker: "a1", target: "b1", card: "3S", want: ErrGameOver,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, g := newFixture(t)
			if tc.setup != nil {
				tc.setup(g)
			}
			before := snapshot(t, g)
			_, err := svc.AskForCard(g, tc.asker, tc.target, mustCard(tc.card), t0.Add(time.Minute))
			require.ErrorIs(t, err, tc.want)
			require.JSONEq(t, before, snapshot(t, g))
		})
	}
}

func TestAskForHeldCardAlwaysFails(t *testing.T) {
	svc, g := newFixture(t)
	for _, c := range append([]domain.Card{}, g.Hands["a1"]...) {
		_, err := svc.AskForCard(g, "a1", "b1", c, t0)
		require.ErrorIs(t, err, ErrAlreadyHoldCard)
	}
	require.Empty(t, g.Turns)
}

func TestAskResumesPausedGame(t *testing.T) {
	svc, g := newFixture(t)
	g.Phase = domain.Paused{PlayerID: "a1", Reason: domain.ReasonLeft, Since: t0, Resume: domain.Normal{}}

	evs, err := svc.AskForCard(g, "a1", "b1", mustCard("3S"), t0.Add(10*time.Second))
	require.NoError(t, err)
	require.Equal(t, domain.Normal{}, g.Phase)
	require.Equal(t, EventPlayerReturned, evs[0].Kind)
	require.Equal(t, EventCardAsked, evs[1].Kind)
}

func TestExpiredPauseOnlyForfeits(t *testing.T) {
	late := t0.Add(61 * time.Second)
	paused := domain.Paused{PlayerID: "a1", Reason: domain.ReasonLeft, Since: t0, Resume: domain.Normal{}}

	t.Run("ask", func(t *testing.T) {
		svc, g := newFixture(t)
		g.Phase = paused
		before := snapshot(t, g)
		_, err := svc.AskForCard(g, "a1", "b1", mustCard("3S"), late)
		require.ErrorIs(t, err, ErrReturnWindowExpired)
		require.Equal(t, before, snapshot(t, g))
	})

	t.Run("declaration", func(t *testing.T) {
		svc, g := newFixture(t)
		g.Phase = paused
		_, err := svc.StartDeclaration(g, "a1", t0.Add(10*time.Minute))
		require.ErrorIs(t, err, ErrReturnWindowExpired)
		_, ok := g.Pause()
		require.True(t, ok)
	})

	t.Run("open declaration", func(t *testing.T) {
		svc, g := newFixture(t)
		g.Phase = domain.Paused{PlayerID: "a1", Reason: domain.ReasonLeft, Since: t0, Resume: domain.Declaring{Declaree: "a1"}}
		_, err := svc.AbortDeclaration(g, "a1", late)
		require.ErrorIs(t, err, ErrReturnWindowExpired)
		_, err = svc.SelectDeclarationHalfSuit(g, "a1", domain.HalfSuitOf(domain.Spades, domain.Two), domain.TeamA, late)
		require.ErrorIs(t, err, ErrReturnWindowExpired)
		_, ok := g.Pause()
		require.True(t, ok)
	})

	t.Run("pass", func(t *testing.T) {
		svc, g := newFixture(t)
		g.Hands["a1"] = nil
		g.Phase = paused
		_, err := svc.PassTurnToTeammate(g, "a1", "a2", late)
		require.ErrorIs(t, err, ErrReturnWindowExpired)

		_, err = svc.ForfeitGame(g, "b1", late)
		require.NoError(t, err)
		require.True(t, g.IsOver())
	})
}

func TestPassTurnToTeammate(t *testing.T) {
	svc, g := newFixture(t)

	_, err := svc.PassTurnToTeammate(g, "a1", "a2", t0)
	require.ErrorIs(t, err, ErrHandNotEmpty)

	g.Hands["a1"] = nil
	_, err = svc.PassTurnToTeammate(g, "a1", "b1", t0)
	require.ErrorIs(t, err, ErrNotTeammate)
	_, err = svc.PassTurnToTeammate(g, "a1", "a1", t0)
	require.ErrorIs(t, err, ErrNotTeammate)

	saved := g.Hands["a2"]
	g.Hands["a2"] = nil
	_, err = svc.PassTurnToTeammate(g, "a1", "a2", t0)
	require.ErrorIs(t, err, ErrTeammateHasNoCards)
	g.Hands["a2"] = saved

	evs, err := svc.PassTurnToTeammate(g, "a1", "a2", t0.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, "a2", g.CurrentTurn)
	require.Equal(t, EventTurnPassed, evs[0].Kind)
}

func TestDeclarationCaseTable(t *testing.T) {
	swap := func(g *domain.Game) map[domain.Card]string {
		a := holders(g, "low-spades")
		a[mustCard("2S")], a[mustCard("3S")] = a[mustCard("3S")], a[mustCard("2S")]
		return a
	}
	allOnTeamA := func(*domain.Game) map[domain.Card]string {
		return map[domain.Card]string{
			mustCard("2S"): "a1", mustCard("3S"): "a1", mustCard("4S"): "a1",
			mustCard("5S"): "a2", mustCard("6S"): "a2", mustCard("7S"): "a2",
		}
	}
	cases := []struct {
		name        string
		rig         bool
		assignments func(g *domain.Game) map[domain.Card]string
		wantScores  [2]int
		wantOutcome domain.Outcome
	}{
		{name: "correct", rig: true, assignments: func(g *domain.Game) map[domain.Card]string { return holders(g, "low-spades") }, wantScores: [2]int{1, 0}, wantOutcome: domain.OutcomeCorrect},
		{name: "opponents hold cards", rig: false, assignments: allOnTeamA, wantScores: [2]int{0, 1}, wantOutcome: domain.OutcomeWrongTeam},
		{name: "swapped holders", rig: true, assignments: swap, wantScores: [2]int{0, 0}, wantOutcome: domain.OutcomeForfeit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, g := newFixture(t)
			if tc.rig {
				giveHalfSuitToTeamA(g)
			}
			_, err := svc.StartDeclaration(g, "a1", t0)
			require.NoError(t, err)

			evs, err := svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, tc.assignments(g), t0.Add(time.Second))
			require.NoError(t, err)
			require.Equal(t, tc.wantScores, g.Scores)
			require.Equal(t, []domain.HalfSuit{"low-spades"}, g.CompletedHalfSuits)
			for _, p := range g.Players {
				require.False(t, domain.HandHasHalfSuit(g.Hands[p], "low-spades"), "%s still holds low spades", p)
			}
			require.Len(t, g.Declarations, 1)
			require.Equal(t, tc.wantOutcome, g.Declarations[0].Outcome)
			require.Equal(t, domain.Normal{}, g.Phase)
			require.Equal(t, EventDeclarationResolved, evs[0].Kind)
			require.Equal(t, 8, g.Scores[0]+g.Scores[1]+g.ForfeitedCount()+domain.HalfSuitCount-len(g.CompletedHalfSuits))
		})
	}
}

func TestFinishDeclarationValidation(t *testing.T) {
	svc, g := newFixture(t)
	giveHalfSuitToTeamA(g)

	_, err := svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
	require.ErrorIs(t, err, ErrNoDeclaration)

	_, err = svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)
	_, err = svc.StartDeclaration(g, "a1", t0)
	require.ErrorIs(t, err, ErrDeclarationInProgress)

	_, err = svc.FinishDeclaration(g, "a2", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
	require.ErrorIs(t, err, ErrNotDeclaree)

	partial := holders(g, "low-spades")
	delete(partial, mustCard("7S"))
	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, partial, t0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	offTeam := holders(g, "low-spades")
	offTeam[mustCard("7S")] = "b1"
	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, offTeam, t0)
	require.ErrorIs(t, err, ErrAssigneeNotOnTeam)

	_, err = svc.FinishDeclaration(g, "a1", "bogus", domain.TeamA, holders(g, "low-spades"), t0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.Team(2), holders(g, "low-spades"), t0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.Equal(t, [2]int{0, 0}, g.Scores)
	require.Empty(t, g.CompletedHalfSuits)
}

func TestSelectedDeclarationIsCommitted(t *testing.T) {
	svc, g := newFixture(t)
	giveHalfSuitToTeamA(g)

	_, err := svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)
	_, err = svc.SelectDeclarationHalfSuit(g, "a1", "low-spades", domain.TeamA, t0)
	require.NoError(t, err)

	_, err = svc.AbortDeclaration(g, "a1", t0)
	require.ErrorIs(t, err, ErrDeclarationCommitted)
	_, err = svc.SelectDeclarationHalfSuit(g, "a1", "high-spades", domain.TeamA, t0)
	require.ErrorIs(t, err, ErrDeclarationCommitted)
	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamB, holders(g, "low-spades"), t0)
	require.ErrorIs(t, err, ErrHalfSuitMismatch)

	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
	require.NoError(t, err)
	require.Equal(t, [2]int{1, 0}, g.Scores)
}

func TestAbortDeclaration(t *testing.T) {
	svc, g := newFixture(t)
	_, err := svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)

	evs, err := svc.AbortDeclaration(g, "a1", t0)
	require.NoError(t, err)
	require.Equal(t, domain.Normal{}, g.Phase)
	require.Equal(t, EventDeclarationAborted, evs[0].Kind)
	require.Equal(t, "a1", g.CurrentTurn)
}

func TestStartDeclarationOutOfTurn(t *testing.T) {
	svc, g := newFixture(t)
	_, err := svc.StartDeclaration(g, "b1", t0)
	require.ErrorIs(t, err, ErrNotYourTurn)

	anytime := NewService(rand.New(rand.NewSource(1)), Rules{DeclareAnytime: true})
	_, err = anytime.StartDeclaration(g, "b1", t0)
	require.NoError(t, err)

	g.Phase = domain.Normal{}
	g.Hands["b2"] = nil
	_, err = anytime.StartDeclaration(g, "b2", t0)
	require.ErrorIs(t, err, ErrNoCards)
}

func TestCompletedHalfSuitRejected(t *testing.T) {
	svc, g := newFixture(t)
	g.CompletedHalfSuits = []domain.HalfSuit{"low-spades"}
	g.Scores = [2]int{1, 0}

	_, err := svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)
	_, err = svc.SelectDeclarationHalfSuit(g, "a1", "low-spades", domain.TeamA, t0)
	require.ErrorIs(t, err, ErrHalfSuitCompleted)

	before := snapshot(t, g)
	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
	require.ErrorIs(t, err, ErrHalfSuitCompleted)
	require.JSONEq(t, before, snapshot(t, g))
}

func TestWinThresholdAndImmutability(t *testing.T) {
	svc, g := newFixture(t)
	giveHalfSuitToTeamA(g)
	g.Scores = [2]int{4, 0}
	g.CompletedHalfSuits = []domain.HalfSuit{"high-spades", "low-hearts", "high-hearts", "low-diamonds"}
	for _, p := range g.Players {
		for _, h := range g.CompletedHalfSuits {
			g.Hands[p] = domain.RemoveHalfSuit(g.Hands[p], h)
		}
	}

	_, err := svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)
	evs, err := svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
	require.NoError(t, err)

	over, ok := g.Outcome()
	require.True(t, ok)
	require.Equal(t, domain.TeamA, *over.Winner)
	require.Equal(t, domain.OverDeclared, over.Reason)
	require.Equal(t, EventGameEnded, evs[len(evs)-1].Kind)

	before := snapshot(t, g)
	_, err = svc.AskForCard(g, "a1", "b1", mustCard("9H"), t0)
	require.ErrorIs(t, err, ErrGameOver)
	_, err = svc.StartDeclaration(g, "a1", t0)
	require.ErrorIs(t, err, ErrGameOver)
	_, err = svc.LeaveGame(g, "b1", t0)
	require.ErrorIs(t, err, ErrGameOver)
	_, err = svc.ForfeitGame(g, "b1", t0.Add(time.Hour))
	require.ErrorIs(t, err, ErrGameOver)
	require.JSONEq(t, before, snapshot(t, g))
}

func TestAllHalfSuitsRetired(t *testing.T) {
	setup := func(t *testing.T) (*Service, *domain.Game) {
		svc, g := newFixture(t)
		for _, h := range domain.AllHalfSuits() {
			if h != "low-spades" {
				g.CompletedHalfSuits = append(g.CompletedHalfSuits, h)
			}
		}
		for _, p := range g.Players {
			g.Hands[p] = nil
		}
		giveHalfSuitToTeamA(g)
		g.Scores = [2]int{3, 3}
		_, err := svc.StartDeclaration(g, "a1", t0)
		require.NoError(t, err)
		return svc, g
	}

	t.Run("draw", func(t *testing.T) {
		svc, g := setup(t)
		a := holders(g, "low-spades")
		a[mustCard("2S")], a[mustCard("3S")] = a[mustCard("3S")], a[mustCard("2S")]
		_, err := svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, a, t0)
		require.NoError(t, err)
		over, ok := g.Outcome()
		require.True(t, ok)
		require.Nil(t, over.Winner)
		require.Equal(t, domain.OverExhausted, over.Reason)
	})

	t.Run("higher score wins", func(t *testing.T) {
		svc, g := setup(t)
		_, err := svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
		require.NoError(t, err)
		over, ok := g.Outcome()
		require.True(t, ok)
		require.Equal(t, domain.TeamA, *over.Winner)
		require.Equal(t, domain.OverExhausted, over.Reason)
	})
}

func TestTurnAfterDeclaration(t *testing.T) {
	svc, g := newFixture(t)
	for _, p := range g.Players {
		g.Hands[p] = nil
	}
	giveHalfSuitToTeamA(g)
	g.Hands["b1"] = cards("9S", "10S")

	_, err := svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)
	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
	require.NoError(t, err)
	require.Equal(t, "b1", g.CurrentTurn)

	// a1 empties but a2 still holds cards: a1 keeps the turn to pass it on.
	svc, g = newFixture(t)
	g.Hands["a1"] = cards("2S", "4S", "6S")
	for _, p := range []string{"b1", "a2", "b2"} {
		g.Hands[p] = domain.RemoveHalfSuit(g.Hands[p], "low-spades")
	}
	g.Hands["a2"] = append(g.Hands["a2"], cards("3S", "5S", "7S")...)
	_, err = svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)
	_, err = svc.FinishDeclaration(g, "a1", "low-spades", domain.TeamA, holders(g, "low-spades"), t0)
	require.NoError(t, err)
	require.Empty(t, g.Hands["a1"])
	require.Equal(t, "a1", g.CurrentTurn)
	_, err = svc.PassTurnToTeammate(g, "a1", "a2", t0)
	require.NoError(t, err)
}

func TestLeaveReturnForfeitTiming(t *testing.T) {
	t.Run("return inside window", func(t *testing.T) {
		svc, g := newFixture(t)
		_, err := svc.LeaveGame(g, "a1", t0)
		require.NoError(t, err)
		_, err = svc.LeaveGame(g, "b1", t0)
		require.ErrorIs(t, err, ErrSomeoneLeft)
		_, err = svc.ReturnToGame(g, "b1", t0)
		require.ErrorIs(t, err, ErrNotLeftPlayer)

		_, err = svc.ReturnToGame(g, "a1", t0.Add(59*time.Second))
		require.NoError(t, err)
		_, paused := g.Pause()
		require.False(t, paused)
		require.Equal(t, domain.Normal{}, g.Phase)
	})

	t.Run("return after window", func(t *testing.T) {
		svc, g := newFixture(t)
		_, err := svc.LeaveGame(g, "a1", t0)
		require.NoError(t, err)
		_, err = svc.ReturnToGame(g, "a1", t0.Add(61*time.Second))
		require.ErrorIs(t, err, ErrReturnWindowExpired)
		_, paused := g.Pause()
		require.True(t, paused)
	})

	t.Run("forfeit after window", func(t *testing.T) {
		svc, g := newFixture(t)
		_, err := svc.LeaveGame(g, "a1", t0)
		require.NoError(t, err)
		_, err = svc.ForfeitGame(g, "b1", t0.Add(30*time.Second))
		require.ErrorIs(t, err, ErrReturnWindowOpen)

		evs, err := svc.ForfeitGame(g, "b1", t0.Add(61*time.Second))
		require.NoError(t, err)
		over, ok := g.Outcome()
		require.True(t, ok)
		require.Equal(t, domain.TeamB, *over.Winner)
		require.Equal(t, domain.OverForfeit, over.Reason)
		require.Equal(t, EventGameEnded, evs[0].Kind)
	})

	t.Run("absent player concedes", func(t *testing.T) {
		svc, g := newFixture(t)
		_, err := svc.LeaveGame(g, "b2", t0)
		require.NoError(t, err)
		_, err = svc.ForfeitGame(g, "b2", t0.Add(time.Second))
		require.NoError(t, err)
		over, _ := g.Outcome()
		require.Equal(t, domain.TeamA, *over.Winner)
	})

	t.Run("no pause", func(t *testing.T) {
		svc, g := newFixture(t)
		_, err := svc.ForfeitGame(g, "b1", t0)
		require.ErrorIs(t, err, ErrNoLeftPlayer)
		_, err = svc.ForfeitGame(g, "zz", t0)
		require.ErrorIs(t, err, ErrNotInGame)
	})
}

func TestPauseKeepsDeclaration(t *testing.T) {
	svc, g := newFixture(t)
	_, err := svc.StartDeclaration(g, "a1", t0)
	require.NoError(t, err)
	_, err = svc.LeaveGame(g, "a1", t0)
	require.NoError(t, err)

	_, err = svc.ReturnToGame(g, "a1", t0.Add(5*time.Second))
	require.NoError(t, err)
	require.Equal(t, domain.Declaring{Declaree: "a1"}, g.Phase)
}

func TestMarkInactive(t *testing.T) {
	svc, g := newFixture(t)
	_, err := svc.MarkInactive(g, t0.Add(59*time.Minute))
	require.ErrorIs(t, err, ErrNotInactive)

	_, err = svc.MarkInactive(g, t0.Add(time.Hour))
	require.NoError(t, err)
	p, ok := g.Pause()
	require.True(t, ok)
	require.Equal(t, "a1", p.PlayerID)
	require.Equal(t, domain.ReasonInactive, p.Reason)

	_, err = svc.MarkInactive(g, t0.Add(2*time.Hour))
	require.ErrorIs(t, err, ErrSomeoneLeft)

	svc, g = newFixture(t)
	g.Phase = domain.Declaring{Declaree: "b2"}
	_, err = svc.MarkInactive(g, t0.Add(time.Hour))
	require.NoError(t, err)
	p, _ = g.Pause()
	require.Equal(t, "b2", p.PlayerID)
	require.Equal(t, domain.Declaring{Declaree: "b2"}, p.Resume)
}

func TestVoteForReplay(t *testing.T) {
	svc, g := newFixture(t)
	_, err := svc.VoteForReplay(g, "b1")
	require.ErrorIs(t, err, ErrGameNotOver)

	w := domain.TeamA
	g.Phase = domain.Over{Winner: &w, Reason: domain.OverDeclared}
	present := []string{"a1", "b1", "a2", "b2"}

	for _, p := range []string{"b1", "a2"} {
		_, err = svc.VoteForReplay(g, p)
		require.NoError(t, err)
	}
	_, err = svc.VoteForReplay(g, "b1")
	require.ErrorIs(t, err, ErrAlreadyVoted)
	require.False(t, svc.ReplayReady(g, "a1", present))
	require.True(t, svc.ReplayReady(g, "a1", []string{"a1", "b1", "a2"}))

	_, err = svc.VoteForReplay(g, "b2")
	require.NoError(t, err)
	require.True(t, svc.ReplayReady(g, "a1", present))
	// After a1 hands hosting to b1, a1 is an ordinary player who must vote too.
	require.False(t, svc.ReplayReady(g, "b1", present))

	next, _, err := svc.NewReplay("g2", g, present, t0)
	require.NoError(t, err)
	require.Equal(t, g.Players, next.Players)
	require.Equal(t, g.Teams, next.Teams)
	require.Empty(t, next.ReplayVotes)

	_, _, err = svc.NewReplay("g3", g, []string{"a1", "b1", "a2"}, t0)
	require.ErrorIs(t, err, ErrTeamsUneven)
}

func TestSixPlayerScenario(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(2026)), Rules{})
	players := []string{"A", "D", "B", "E", "C", "F"}
	teams := map[string]domain.Team{"A": 0, "B": 0, "C": 0, "D": 1, "E": 1, "F": 1}
	g, _, err := svc.NewGame("g6", "L6", "A", players, teams, t0)
	require.NoError(t, err)
	g.CurrentTurn = "A"

	// A asks D for a card D holds from a half-suit A holds.
	var hit domain.Card
	found := false
	for _, c := range g.Hands["D"] {
		if domain.HandHasHalfSuit(g.Hands["A"], c.HalfSuit()) {
			hit, found = c, true
			break
		}
	}
	require.True(t, found)
	_, err = svc.AskForCard(g, "A", "D", hit, t0.Add(time.Second))
	require.NoError(t, err)
	require.True(t, domain.HandHasCard(g.Hands["A"], hit))
	require.Equal(t, "A", g.CurrentTurn)

	// A asks again for a card D does not hold.
	found = false
	var miss domain.Card
	for _, c := range domain.NewDeck() {
		if domain.HandHasHalfSuit(g.Hands["A"], c.HalfSuit()) && !domain.HandHasCard(g.Hands["A"], c) && !domain.HandHasCard(g.Hands["D"], c) {
			miss, found = c, true
			break
		}
	}
	require.True(t, found)
	_, err = svc.AskForCard(g, "A", "D", miss, t0.Add(2*time.Second))
	require.NoError(t, err)
	require.Equal(t, "D", g.CurrentTurn)
	require.Len(t, g.Turns, 2)

	// Hand every low spade held by team 0 to D so team 1 owns the half-suit.
	for _, c := range domain.HalfSuit("low-spades").Cards() {
		holder := g.HolderOf(c)
		if g.Teams[holder] == domain.TeamA {
			g.Hands[holder] = domain.RemoveCards(g.Hands[holder], c)
			g.Hands["D"] = append(g.Hands["D"], c)
		}
	}
	_, err = svc.StartDeclaration(g, "D", t0.Add(3*time.Second))
	require.NoError(t, err)
	_, err = svc.FinishDeclaration(g, "D", "low-spades", domain.TeamB, holders(g, "low-spades"), t0.Add(4*time.Second))
	require.NoError(t, err)

	require.Equal(t, 1, g.Scores[domain.TeamB])
	require.Contains(t, g.CompletedHalfSuits, domain.HalfSuit("low-spades"))
	for _, p := range players {
		require.False(t, domain.HandHasHalfSuit(g.Hands[p], "low-spades"))
	}
	require.Equal(t, domain.DeckSize-6, g.CardsInPlay())
}
