package app

import "fish/internal/domain"

// EventKind identifies emitted domain events for dispatch.
type EventKind string

const (
	EventGameStarted         EventKind = "game_started"
	EventCardAsked           EventKind = "card_asked"
	EventTurnPassed          EventKind = "turn_passed"
	EventDeclarationStarted  EventKind = "declaration_started"
	EventDeclarationSelected EventKind = "declaration_selected"
	EventDeclarationAborted  EventKind = "declaration_aborted"
	EventDeclarationResolved EventKind = "declaration_resolved"
	EventGameEnded           EventKind = "game_ended"
	EventReplayVoted         EventKind = "replay_voted"
	EventPlayerLeft          EventKind = "player_left"
	EventPlayerReturned      EventKind = "player_returned"
	EventLobbyUpdated        EventKind = "lobby_updated"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means everyone in the game or lobby
}

type GameStartedPayload struct {
	GameID          string
	FirstTurnUserID string
}

type CardAskedPayload struct {
	Asker          string
	Target         string
	Card           domain.Card
	Success        bool
	NextTurnUserID string
}

type TurnPassedPayload struct {
	UserID         string
	NextTurnUserID string
}

type DeclarationPayload struct {
	Declaree string
	HalfSuit domain.HalfSuit
	Team     *domain.Team
}

type DeclarationResolvedPayload struct {
	Declaration    domain.Declaration
	Scores         [2]int
	NextTurnUserID string
}

type GameEndedPayload struct {
	Winner *domain.Team
	Reason domain.OverReason
	Scores [2]int
}

type ReplayVotedPayload struct {
	UserID string
	Votes  int
}

type PlayerLeftPayload struct {
	UserID string
	Reason domain.LeaveReason
}

type PlayerReturnedPayload struct {
	UserID string
}

type LobbyUpdatedPayload struct {
	Lobby domain.Lobby
}
