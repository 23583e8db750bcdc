package app

import (
	"math/rand"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"

	"fish/internal/domain"
)

// Rules holds the tunable game rules. Zero values fall back to defaults.
type Rules struct {
	WinningScore      int
	LeaveTimeout      time.Duration
	InactivityTimeout time.Duration
	// DeclareAnytime lets a player open a declaration outside their own turn.
	DeclareAnytime bool
}

func (r Rules) withDefaults() Rules {
	if r.WinningScore <= 0 {
		r.WinningScore = DefaultWinningScore
	}
	if r.LeaveTimeout <= 0 {
		r.LeaveTimeout = DefaultLeaveTimeout
	}
	if r.InactivityTimeout <= 0 {
		r.InactivityTimeout = DefaultInactivityTimeout
	}
	return r
}

// Service contains the Fish state machine. Every method validates against the
// game it is handed and either mutates it and returns events, or returns an
// error and leaves it untouched.
type Service struct {
	mu    sync.Mutex
	rng   *rand.Rand
	rules Rules
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, rules Rules) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, rules: rules.withDefaults()}
}

// Rules returns the effective rules.
func (s *Service) Rules() Rules {
	return s.rules
}

// activePhase returns the phase the actor acts in. A paused game resumes only
// for the player it is waiting on, and only inside the return window.
func (s *Service) activePhase(g *domain.Game, actor string, now time.Time) (domain.Phase, bool, error) {
	switch p := g.Phase.(type) {
	case domain.Over:
		return nil, false, ErrGameOver
	case domain.Paused:
		if p.PlayerID != actor {
			return nil, false, errorsmod.Wrapf(ErrGamePaused, "waiting for %s", p.PlayerID)
		}
		if p.Expired(now, s.rules.LeaveTimeout) {
			return nil, false, ErrReturnWindowExpired
		}
		return p.Resume, true, nil
	}
	return g.Phase, false, nil
}

func resumedEvent(actor string) Event {
	return Event{Kind: EventPlayerReturned, Payload: PlayerReturnedPayload{UserID: actor}}
}

// AskForCard asks target for card on asker's turn.
func (s *Service) AskForCard(g *domain.Game, asker, target string, card domain.Card, now time.Time) ([]Event, error) {
	if !g.IsPlayer(asker) {
		return nil, ErrNotInGame
	}
	if !card.Valid() {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "unknown card")
	}
	if !g.IsPlayer(target) {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "target %s is not in this game", target)
	}
	phase, resumed, err := s.activePhase(g, asker, now)
	if err != nil {
		return nil, err
	}
	if _, declaring := phase.(domain.Declaring); declaring {
		return nil, ErrDeclarationInProgress
	}
	if g.CurrentTurn != asker {
		return nil, ErrNotYourTurn
	}
	if g.SameTeam(asker, target) {
		return nil, ErrTargetNotOpponent
	}
	if len(g.Hands[target]) == 0 {
		return nil, ErrTargetHasNoCards
	}
	if domain.HandHasCard(g.Hands[asker], card) {
		return nil, ErrAlreadyHoldCard
	}
	if !domain.HandHasHalfSuit(g.Hands[asker], card.HalfSuit()) {
		return nil, errorsmod.Wrapf(ErrHalfSuitNotHeld, "%s", card.HalfSuit())
	}

	var events []Event
	if resumed {
		events = append(events, resumedEvent(asker))
	}
	g.Phase = phase

	success := domain.HandHasCard(g.Hands[target], card)
	if success {
		g.Hands[target] = domain.RemoveCards(g.Hands[target], card)
		g.Hands[asker] = append(g.Hands[asker], card)
	} else {
		g.CurrentTurn = target
	}
	g.Turns = append(g.Turns, domain.Turn{Asker: asker, Target: target, Card: card, Success: success, At: now})
	g.LastActivityAt = now

	events = append(events, Event{
		Kind: EventCardAsked,
		Payload: CardAskedPayload{
			Asker:          asker,
			Target:         target,
			Card:           card,
			Success:        success,
			NextTurnUserID: g.CurrentTurn,
		},
	})
	return events, nil
}

// PassTurnToTeammate hands the turn to a teammate once player's hand is empty.
func (s *Service) PassTurnToTeammate(g *domain.Game, player, teammate string, now time.Time) ([]Event, error) {
	if !g.IsPlayer(player) {
		return nil, ErrNotInGame
	}
	if !g.IsPlayer(teammate) {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "teammate %s is not in this game", teammate)
	}
	phase, resumed, err := s.activePhase(g, player, now)
	if err != nil {
		return nil, err
	}
	if _, declaring := phase.(domain.Declaring); declaring {
		return nil, ErrDeclarationInProgress
	}
	if g.CurrentTurn != player {
		return nil, ErrNotYourTurn
	}
	if len(g.Hands[player]) > 0 {
		return nil, ErrHandNotEmpty
	}
	if teammate == player || !g.SameTeam(player, teammate) {
		return nil, ErrNotTeammate
	}
	if len(g.Hands[teammate]) == 0 {
		return nil, ErrTeammateHasNoCards
	}

	var events []Event
	if resumed {
		events = append(events, resumedEvent(player))
	}
	g.Phase = phase
	g.CurrentTurn = teammate
	g.LastActivityAt = now

	events = append(events, Event{
		Kind:    EventTurnPassed,
		Payload: TurnPassedPayload{UserID: player, NextTurnUserID: teammate},
	})
	return events, nil
}

// StartDeclaration opens the declare sub-protocol for player.
func (s *Service) StartDeclaration(g *domain.Game, player string, now time.Time) ([]Event, error) {
	if !g.IsPlayer(player) {
		return nil, ErrNotInGame
	}
	phase, resumed, err := s.activePhase(g, player, now)
	if err != nil {
		return nil, err
	}
	if _, declaring := phase.(domain.Declaring); declaring {
		return nil, ErrDeclarationInProgress
	}
	if !s.rules.DeclareAnytime && g.CurrentTurn != player {
		return nil, ErrNotYourTurn
	}
	if len(g.Hands[player]) == 0 {
		return nil, ErrNoCards
	}

	var events []Event
	if resumed {
		events = append(events, resumedEvent(player))
	}
	g.Phase = domain.Declaring{Declaree: player}
	g.LastActivityAt = now

	events = append(events, Event{
		Kind:    EventDeclarationStarted,
		Payload: DeclarationPayload{Declaree: player},
	})
	return events, nil
}

// declaringPhase returns the open declaration if player is its declaree.
func (s *Service) declaringPhase(g *domain.Game, player string, now time.Time) (domain.Declaring, bool, error) {
	if !g.IsPlayer(player) {
		return domain.Declaring{}, false, ErrNotInGame
	}
	phase, resumed, err := s.activePhase(g, player, now)
	if err != nil {
		return domain.Declaring{}, false, err
	}
	d, ok := phase.(domain.Declaring)
	if !ok {
		return domain.Declaring{}, false, ErrNoDeclaration
	}
	if d.Declaree != player {
		return domain.Declaring{}, false, ErrNotDeclaree
	}
	return d, resumed, nil
}

// SelectDeclarationHalfSuit commits the open declaration to a half-suit and team.
// After this the declaration can no longer be aborted.
func (s *Service) SelectDeclarationHalfSuit(g *domain.Game, player string, h domain.HalfSuit, team domain.Team, now time.Time) ([]Event, error) {
	if !h.Valid() {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "unknown half-suit %q", h)
	}
	if !team.Valid() {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "team must be 0 or 1")
	}
	d, resumed, err := s.declaringPhase(g, player, now)
	if err != nil {
		return nil, err
	}
	if d.Committed() {
		return nil, ErrDeclarationCommitted
	}
	if g.IsCompleted(h) {
		return nil, ErrHalfSuitCompleted
	}

	var events []Event
	if resumed {
		events = append(events, resumedEvent(player))
	}
	t := team
	g.Phase = domain.Declaring{Declaree: player, HalfSuit: h, Team: &t}
	g.LastActivityAt = now

	events = append(events, Event{
		Kind:    EventDeclarationSelected,
		Payload: DeclarationPayload{Declaree: player, HalfSuit: h, Team: &t},
	})
	return events, nil
}

// AbortDeclaration closes a declaration that has not been committed yet.
func (s *Service) AbortDeclaration(g *domain.Game, player string, now time.Time) ([]Event, error) {
	d, resumed, err := s.declaringPhase(g, player, now)
	if err != nil {
		return nil, err
	}
	if d.Committed() {
		return nil, ErrDeclarationCommitted
	}

	var events []Event
	if resumed {
		events = append(events, resumedEvent(player))
	}
	g.Phase = domain.Normal{}
	g.LastActivityAt = now

	events = append(events, Event{
		Kind:    EventDeclarationAborted,
		Payload: DeclarationPayload{Declaree: player},
	})
	return events, nil
}

// FinishDeclaration resolves the open declaration. The half-suit is retired
// whatever the outcome.
func (s *Service) FinishDeclaration(g *domain.Game, player string, h domain.HalfSuit, team domain.Team, assignments map[domain.Card]string, now time.Time) ([]Event, error) {
	if !h.Valid() {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "unknown half-suit %q", h)
	}
	if !team.Valid() {
		return nil, errorsmod.Wrapf(ErrInvalidArgument, "team must be 0 or 1")
	}
	d, resumed, err := s.declaringPhase(g, player, now)
	if err != nil {
		return nil, err
	}
	if d.Committed() && (d.HalfSuit != h || *d.Team != team) {
		return nil, errorsmod.Wrapf(ErrHalfSuitMismatch, "selected %s for team %d", d.HalfSuit, *d.Team)
	}
	if g.IsCompleted(h) {
		return nil, ErrHalfSuitCompleted
	}
	if err := validateAssignments(g, h, team, assignments); err != nil {
		return nil, err
	}

	var events []Event
	if resumed {
		events = append(events, resumedEvent(player))
	}

	ev := domain.EvaluateDeclaration(g, player, h, team, assignments)

	for _, p := range g.Players {
		g.Hands[p] = domain.RemoveHalfSuit(g.Hands[p], h)
	}
	g.CompletedHalfSuits = append(g.CompletedHalfSuits, h)
	if ev.ScoringTeam != nil {
		g.Scores[*ev.ScoringTeam]++
	}

	declared := make(map[domain.Card]string, len(assignments))
	for c, p := range assignments {
		declared[c] = p
	}
	decl := domain.Declaration{
		Declarer:    player,
		HalfSuit:    h,
		Team:        team,
		Assignments: declared,
		Actual:      ev.Actual,
		Outcome:     ev.Outcome,
		ScoringTeam: ev.ScoringTeam,
		Forfeit:     ev.Outcome == domain.OutcomeForfeit,
		At:          now,
	}
	g.Declarations = append(g.Declarations, decl)
	g.Phase = domain.Normal{}
	g.LastActivityAt = now

	if over, ended := s.checkGameOver(g); ended {
		g.Phase = over
	} else {
		fixTurn(g)
	}

	events = append(events, Event{
		Kind: EventDeclarationResolved,
		Payload: DeclarationResolvedPayload{
			Declaration:    decl,
			Scores:         g.Scores,
			NextTurnUserID: g.CurrentTurn,
		},
	})
	if over, ok := g.Outcome(); ok {
		events = append(events, gameEndedEvent(g, over))
	}
	return events, nil
}

func validateAssignments(g *domain.Game, h domain.HalfSuit, team domain.Team, assignments map[domain.Card]string) error {
	cards := h.Cards()
	if len(assignments) != len(cards) {
		return errorsmod.Wrapf(ErrInvalidArgument, "assignments must name exactly the %d cards of %s", len(cards), h)
	}
	for _, c := range cards {
		holder, ok := assignments[c]
		if !ok {
			return errorsmod.Wrapf(ErrInvalidArgument, "missing assignment for %s", c)
		}
		if !g.IsPlayer(holder) {
			return errorsmod.Wrapf(ErrInvalidArgument, "%s assigned to unknown player %s", c, holder)
		}
		if g.Teams[holder] != team {
			return errorsmod.Wrapf(ErrAssigneeNotOnTeam, "%s is not on team %d", holder, team)
		}
	}
	return nil
}

// checkGameOver applies the win rule: first team to the winning score wins;
// once every half-suit is retired the higher score wins and a tie is a draw.
func (s *Service) checkGameOver(g *domain.Game) (domain.Over, bool) {
	for _, t := range []domain.Team{domain.TeamA, domain.TeamB} {
		if g.Scores[t] >= s.rules.WinningScore {
			winner := t
			return domain.Over{Winner: &winner, Reason: domain.OverDeclared}, true
		}
	}
	if len(g.CompletedHalfSuits) < domain.HalfSuitCount {
		return domain.Over{}, false
	}
	over := domain.Over{Reason: domain.OverExhausted}
	switch {
	case g.Scores[domain.TeamA] > g.Scores[domain.TeamB]:
		w := domain.TeamA
		over.Winner = &w
	case g.Scores[domain.TeamB] > g.Scores[domain.TeamA]:
		w := domain.TeamB
		over.Winner = &w
	}
	return over, true
}

// fixTurn moves the turn to an opponent when the holder's whole team is out of cards.
// A holder with an empty hand and card-holding teammates keeps the turn to pass it on.
func fixTurn(g *domain.Game) {
	holder := g.CurrentTurn
	if len(g.Hands[holder]) > 0 {
		return
	}
	team := g.Teams[holder]
	if g.TeamHasCards(team) {
		return
	}
	for _, p := range g.Players {
		if g.Teams[p] != team && len(g.Hands[p]) > 0 {
			g.CurrentTurn = p
			return
		}
	}
}

func gameEndedEvent(g *domain.Game, over domain.Over) Event {
	return Event{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{Winner: over.Winner, Reason: over.Reason, Scores: g.Scores},
	}
}

// VoteForReplay records player's vote for a fresh game after game over.
func (s *Service) VoteForReplay(g *domain.Game, player string) ([]Event, error) {
	if !g.IsPlayer(player) {
		return nil, ErrNotInGame
	}
	if !g.IsOver() {
		return nil, ErrGameNotOver
	}
	if g.HasVoted(player) {
		return nil, ErrAlreadyVoted
	}
	g.ReplayVotes = append(g.ReplayVotes, player)
	return []Event{{
		Kind:    EventReplayVoted,
		Payload: ReplayVotedPayload{UserID: player, Votes: len(g.ReplayVotes)},
	}}, nil
}

// ReplayReady reports whether every player still present other than host has
// voted. present lists the users currently in the owning lobby and host is its
// current host.
func (s *Service) ReplayReady(g *domain.Game, host string, present []string) bool {
	if !g.IsOver() {
		return false
	}
	waiting := 0
	for _, p := range present {
		if p == host || !g.IsPlayer(p) {
			continue
		}
		if !g.HasVoted(p) {
			return false
		}
		waiting++
	}
	return waiting > 0
}

// LeaveGame pauses the game while player is away.
func (s *Service) LeaveGame(g *domain.Game, player string, now time.Time) ([]Event, error) {
	if !g.IsPlayer(player) {
		return nil, ErrNotInGame
	}
	switch p := g.Phase.(type) {
	case domain.Over:
		return nil, ErrGameOver
	case domain.Paused:
		return nil, errorsmod.Wrapf(ErrSomeoneLeft, "%s is already away", p.PlayerID)
	}
	g.Phase = domain.Paused{PlayerID: player, Reason: domain.ReasonLeft, Since: now, Resume: g.Phase}
	g.LastActivityAt = now
	return []Event{{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{UserID: player, Reason: domain.ReasonLeft},
	}}, nil
}

// MarkInactive pauses a game that saw no accepted action for the inactivity
// timeout, blaming the player the game is waiting on.
func (s *Service) MarkInactive(g *domain.Game, now time.Time) ([]Event, error) {
	switch p := g.Phase.(type) {
	case domain.Over:
		return nil, ErrGameOver
	case domain.Paused:
		return nil, errorsmod.Wrapf(ErrSomeoneLeft, "%s is already away", p.PlayerID)
	}
	if now.Sub(g.LastActivityAt) < s.rules.InactivityTimeout {
		return nil, ErrNotInactive
	}
	responsible := g.CurrentTurn
	if d, ok := g.Phase.(domain.Declaring); ok {
		responsible = d.Declaree
	}
	g.Phase = domain.Paused{PlayerID: responsible, Reason: domain.ReasonInactive, Since: now, Resume: g.Phase}
	return []Event{{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{UserID: responsible, Reason: domain.ReasonInactive},
	}}, nil
}

// ReturnToGame cancels player's pause inside the return window.
func (s *Service) ReturnToGame(g *domain.Game, player string, now time.Time) ([]Event, error) {
	if !g.IsPlayer(player) {
		return nil, ErrNotInGame
	}
	if g.IsOver() {
		return nil, ErrGameOver
	}
	p, ok := g.Pause()
	if !ok {
		return nil, ErrNoLeftPlayer
	}
	if p.PlayerID != player {
		return nil, ErrNotLeftPlayer
	}
	if p.Expired(now, s.rules.LeaveTimeout) {
		return nil, ErrReturnWindowExpired
	}
	g.Phase = p.Resume
	g.LastActivityAt = now
	return []Event{resumedEvent(player)}, nil
}

// ForfeitGame ends a paused game in favour of the absent player's opponents.
// Other players may call it once the return window expired; the absent player
// may concede at any time. caller "" is the supervisor.
func (s *Service) ForfeitGame(g *domain.Game, caller string, now time.Time) ([]Event, error) {
	if caller != "" && !g.IsPlayer(caller) {
		return nil, ErrNotInGame
	}
	if g.IsOver() {
		return nil, ErrGameOver
	}
	p, ok := g.Pause()
	if !ok {
		return nil, ErrNoLeftPlayer
	}
	if caller != p.PlayerID && !p.Expired(now, s.rules.LeaveTimeout) {
		return nil, ErrReturnWindowOpen
	}
	winner := g.Teams[p.PlayerID].Opponent()
	over := domain.Over{Winner: &winner, Reason: domain.OverForfeit}
	g.Phase = over
	g.LastActivityAt = now
	return []Event{gameEndedEvent(g, over)}, nil
}
