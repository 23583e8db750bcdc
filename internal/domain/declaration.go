package domain

// Outcome classifies a resolved declaration.
type Outcome string

const (
	// OutcomeCorrect: every card was held by the named player.
	OutcomeCorrect Outcome = "correct"
	// OutcomeWrongTeam: the opposing team held at least one card.
	OutcomeWrongTeam Outcome = "wrong_team"
	// OutcomeForfeit: the named team held every card but the distribution was misstated.
	OutcomeForfeit Outcome = "forfeit"
)

// Evaluation is the result of checking a declaration against the hands.
type Evaluation struct {
	TeamHasAllCards bool
	AllCorrect      bool
	Outcome         Outcome
	// ScoringTeam is nil on forfeit.
	ScoringTeam *Team
	// Actual maps each card of the half-suit to its holder at resolution time.
	Actual map[Card]string
}

// EvaluateDeclaration checks a declaration that declarer's claim about half-suit
// h being held by team, distributed as in assignments. It does not mutate g.
func EvaluateDeclaration(g *Game, declarer string, h HalfSuit, team Team, assignments map[Card]string) Evaluation {
	ev := Evaluation{
		TeamHasAllCards: true,
		AllCorrect:      true,
		Actual:          make(map[Card]string, 6),
	}
	for _, card := range h.Cards() {
		holder := g.HolderOf(card)
		ev.Actual[card] = holder
		if holder != "" {
			if t, ok := g.TeamOf(holder); !ok || t != team {
				ev.TeamHasAllCards = false
			}
		}
		if assignments[card] != holder {
			ev.AllCorrect = false
		}
	}

	declarerTeam := g.Teams[declarer]
	switch {
	case ev.AllCorrect:
		ev.Outcome = OutcomeCorrect
		ev.ScoringTeam = &declarerTeam
	case !ev.TeamHasAllCards:
		opp := team.Opponent()
		ev.Outcome = OutcomeWrongTeam
		ev.ScoringTeam = &opp
	default:
		ev.Outcome = OutcomeForfeit
	}
	return ev
}
