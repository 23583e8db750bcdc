package domain

import (
	"fmt"
	"time"
)

// Team is one of the two sides of a match.
type Team int

const (
	TeamA Team = 0
	TeamB Team = 1
)

// Valid reports whether t is 0 or 1.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	return 1 - t
}

// PhaseKind is the discriminator of a Phase.
type PhaseKind string

const (
	PhaseNormal    PhaseKind = "normal"
	PhaseDeclaring PhaseKind = "declaring"
	PhasePaused    PhaseKind = "paused"
	PhaseOver      PhaseKind = "over"
)

// Phase is the turn sub-state of a game. Exactly one of Normal, Declaring,
// Paused or Over.
type Phase interface {
	Kind() PhaseKind
	isPhase()
}

// Normal is the regular turn cycle: the current turn holder may act.
type Normal struct{}

// Declaring is the nested declare sub-protocol opened by Declaree.
// HalfSuit and Team are set once the declaree commits to a half-suit.
type Declaring struct {
	Declaree string
	HalfSuit HalfSuit
	Team     *Team
}

// Committed reports whether a half-suit was already selected.
func (d Declaring) Committed() bool {
	return d.HalfSuit != "" && d.Team != nil
}

// LeaveReason explains why a game is paused.
type LeaveReason string

const (
	ReasonLeft     LeaveReason = "left"
	ReasonInactive LeaveReason = "inactive"
)

// Paused freezes the game while PlayerID is away. Resume is the phase that
// was interrupted and is restored when the player comes back.
type Paused struct {
	PlayerID string
	Reason   LeaveReason
	Since    time.Time
	Resume   Phase
}

// Expired reports whether the return window has elapsed at now.
func (p Paused) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(p.Since) >= window
}

// OverReason records how a game ended.
type OverReason string

const (
	OverDeclared  OverReason = "declared"
	OverExhausted OverReason = "exhausted"
	OverForfeit   OverReason = "forfeit"
)

// Over is terminal. Winner is nil for a draw.
type Over struct {
	Winner *Team
	Reason OverReason
}

func (Normal) Kind() PhaseKind    { return PhaseNormal }
func (Declaring) Kind() PhaseKind { return PhaseDeclaring }
func (Paused) Kind() PhaseKind    { return PhasePaused }
func (Over) Kind() PhaseKind      { return PhaseOver }

func (Normal) isPhase()    {}
func (Declaring) isPhase() {}
func (Paused) isPhase()    {}
func (Over) isPhase()      {}

// phaseDoc is the tagged storage encoding of a Phase.
type phaseDoc struct {
	Kind     PhaseKind   `json:"kind"`
	Declaree string      `json:"declareeId,omitempty"`
	HalfSuit HalfSuit    `json:"selectedHalfSuit,omitempty"`
	Team     *Team       `json:"selectedTeam,omitempty"`
	PlayerID string      `json:"playerId,omitempty"`
	Reason   LeaveReason `json:"reason,omitempty"`
	Since    *time.Time  `json:"leftAt,omitempty"`
	Resume   *phaseDoc   `json:"resume,omitempty"`
	Winner   *Team       `json:"winner,omitempty"`
	Ended    OverReason  `json:"endReason,omitempty"`
}

func encodePhase(p Phase) phaseDoc {
	switch v := p.(type) {
	case Declaring:
		return phaseDoc{Kind: PhaseDeclaring, Declaree: v.Declaree, HalfSuit: v.HalfSuit, Team: v.Team}
	case Paused:
		since := v.Since
		doc := phaseDoc{Kind: PhasePaused, PlayerID: v.PlayerID, Reason: v.Reason, Since: &since}
		if v.Resume != nil {
			resume := encodePhase(v.Resume)
			doc.Resume = &resume
		}
		return doc
	case Over:
		return phaseDoc{Kind: PhaseOver, Winner: v.Winner, Ended: v.Reason}
	default:
		return phaseDoc{Kind: PhaseNormal}
	}
}

func (d phaseDoc) decode() (Phase, error) {
	switch d.Kind {
	case PhaseNormal, "":
		return Normal{}, nil
	case PhaseDeclaring:
		if d.Declaree == "" {
			return nil, fmt.Errorf("declaring phase without declaree")
		}
		return Declaring{Declaree: d.Declaree, HalfSuit: d.HalfSuit, Team: d.Team}, nil
	case PhasePaused:
		if d.PlayerID == "" || d.Since == nil {
			return nil, fmt.Errorf("paused phase without player or timestamp")
		}
		var resume Phase = Normal{}
		if d.Resume != nil {
			r, err := d.Resume.decode()
			if err != nil {
				return nil, err
			}
			switch r.(type) {
			case Normal, Declaring:
			default:
				return nil, fmt.Errorf("paused phase cannot resume into %s", r.Kind())
			}
			resume = r
		}
		return Paused{PlayerID: d.PlayerID, Reason: d.Reason, Since: *d.Since, Resume: resume}, nil
	case PhaseOver:
		return Over{Winner: d.Winner, Reason: d.Ended}, nil
	}
	return nil, fmt.Errorf("unknown phase kind %q", d.Kind)
}
