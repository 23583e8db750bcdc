package app

import (
	errorsmod "cosmossdk.io/errors"
	"google.golang.org/grpc/codes"
)

// Codespace namespaces the registered error codes.
const Codespace = "fish"

// Classified errors. The gRPC code is the classification surfaced to clients.
var (
	ErrUnauthenticated = errorsmod.RegisterWithGRPCCode(Codespace, 1, codes.Unauthenticated, "no authenticated caller")
	ErrInvalidArgument = errorsmod.RegisterWithGRPCCode(Codespace, 2, codes.InvalidArgument, "invalid argument")
	ErrGameNotFound    = errorsmod.RegisterWithGRPCCode(Codespace, 3, codes.NotFound, "game not found")
	ErrLobbyNotFound   = errorsmod.RegisterWithGRPCCode(Codespace, 4, codes.NotFound, "lobby not found")
	ErrRateLimited     = errorsmod.RegisterWithGRPCCode(Codespace, 5, codes.ResourceExhausted, "too many requests")
	ErrInternal        = errorsmod.RegisterWithGRPCCode(Codespace, 6, codes.Internal, "internal error")
	ErrConflict        = errorsmod.RegisterWithGRPCCode(Codespace, 7, codes.Internal, "concurrent update conflict, re-read and retry")

	// Permission.
	ErrNotInGame   = errorsmod.RegisterWithGRPCCode(Codespace, 20, codes.PermissionDenied, "caller is not a player in this game")
	ErrNotDeclaree = errorsmod.RegisterWithGRPCCode(Codespace, 21, codes.PermissionDenied, "caller is not the active declarer")
	ErrNotHost     = errorsmod.RegisterWithGRPCCode(Codespace, 22, codes.PermissionDenied, "caller is not the lobby host")
	ErrNotInLobby  = errorsmod.RegisterWithGRPCCode(Codespace, 23, codes.PermissionDenied, "caller is not in this lobby")

	// Preconditions.
	ErrGameOver              = errorsmod.RegisterWithGRPCCode(Codespace, 40, codes.FailedPrecondition, "game is over")
	ErrGameNotOver           = errorsmod.RegisterWithGRPCCode(Codespace, 41, codes.FailedPrecondition, "game is not over")
	ErrNotYourTurn           = errorsmod.RegisterWithGRPCCode(Codespace, 42, codes.FailedPrecondition, "it is not your turn")
	ErrDeclarationInProgress = errorsmod.RegisterWithGRPCCode(Codespace, 43, codes.FailedPrecondition, "a declaration is in progress")
	ErrNoDeclaration         = errorsmod.RegisterWithGRPCCode(Codespace, 44, codes.FailedPrecondition, "no declaration is in progress")
	ErrDeclarationCommitted  = errorsmod.RegisterWithGRPCCode(Codespace, 45, codes.FailedPrecondition, "declaration already committed to a half-suit")
	ErrHalfSuitMismatch      = errorsmod.RegisterWithGRPCCode(Codespace, 46, codes.FailedPrecondition, "half-suit differs from the selected one")
	ErrHalfSuitCompleted     = errorsmod.RegisterWithGRPCCode(Codespace, 47, codes.FailedPrecondition, "half-suit already completed")
	ErrGamePaused            = errorsmod.RegisterWithGRPCCode(Codespace, 48, codes.FailedPrecondition, "game is paused while a player is away")
	ErrTargetNotOpponent     = errorsmod.RegisterWithGRPCCode(Codespace, 49, codes.FailedPrecondition, "you can only ask an opponent")
	ErrTargetHasNoCards      = errorsmod.RegisterWithGRPCCode(Codespace, 50, codes.FailedPrecondition, "target has no cards")
	ErrAlreadyHoldCard       = errorsmod.RegisterWithGRPCCode(Codespace, 51, codes.FailedPrecondition, "you already hold that card")
	ErrHalfSuitNotHeld       = errorsmod.RegisterWithGRPCCode(Codespace, 52, codes.FailedPrecondition, "you hold no card of that half-suit")
	ErrHandNotEmpty          = errorsmod.RegisterWithGRPCCode(Codespace, 53, codes.FailedPrecondition, "you can only pass the turn with an empty hand")
	ErrNotTeammate           = errorsmod.RegisterWithGRPCCode(Codespace, 54, codes.FailedPrecondition, "turn can only pass to a teammate")
	ErrTeammateHasNoCards    = errorsmod.RegisterWithGRPCCode(Codespace, 55, codes.FailedPrecondition, "teammate has no cards")
	ErrNoCards               = errorsmod.RegisterWithGRPCCode(Codespace, 56, codes.FailedPrecondition, "you have no cards")
	ErrAssigneeNotOnTeam     = errorsmod.RegisterWithGRPCCode(Codespace, 57, codes.FailedPrecondition, "assigned player is not on the declared team")
	ErrAlreadyVoted          = errorsmod.RegisterWithGRPCCode(Codespace, 58, codes.FailedPrecondition, "already voted for a replay")
	ErrSomeoneLeft           = errorsmod.RegisterWithGRPCCode(Codespace, 59, codes.FailedPrecondition, "another player is already marked as left")
	ErrNotLeftPlayer         = errorsmod.RegisterWithGRPCCode(Codespace, 60, codes.FailedPrecondition, "caller is not the player who left")
	ErrReturnWindowExpired   = errorsmod.RegisterWithGRPCCode(Codespace, 61, codes.FailedPrecondition, "return window expired")
	ErrReturnWindowOpen      = errorsmod.RegisterWithGRPCCode(Codespace, 62, codes.FailedPrecondition, "the absent player may still return")
	ErrNoLeftPlayer          = errorsmod.RegisterWithGRPCCode(Codespace, 63, codes.FailedPrecondition, "no player is marked as left")
	ErrNotInactive           = errorsmod.RegisterWithGRPCCode(Codespace, 64, codes.FailedPrecondition, "game has recent activity")

	// Lobby preconditions.
	ErrLobbyNotWaiting  = errorsmod.RegisterWithGRPCCode(Codespace, 80, codes.FailedPrecondition, "lobby is not waiting for players")
	ErrLobbyFull        = errorsmod.RegisterWithGRPCCode(Codespace, 81, codes.FailedPrecondition, "lobby is full")
	ErrAlreadyInLobby   = errorsmod.RegisterWithGRPCCode(Codespace, 82, codes.FailedPrecondition, "already in lobby")
	ErrTeamsUnassigned  = errorsmod.RegisterWithGRPCCode(Codespace, 83, codes.FailedPrecondition, "every player needs a team")
	ErrTeamsUneven      = errorsmod.RegisterWithGRPCCode(Codespace, 84, codes.FailedPrecondition, "teams must be non-empty and balanced")
	ErrGameInProgress   = errorsmod.RegisterWithGRPCCode(Codespace, 85, codes.FailedPrecondition, "a game is still in progress")
	ErrNoOngoingGame    = errorsmod.RegisterWithGRPCCode(Codespace, 86, codes.FailedPrecondition, "lobby has no game")
	ErrStaleGame        = errorsmod.RegisterWithGRPCCode(Codespace, 87, codes.FailedPrecondition, "game is no longer the lobby's current game")
	ErrTooFewPlayers    = errorsmod.RegisterWithGRPCCode(Codespace, 88, codes.FailedPrecondition, "not enough players to start")
	ErrIDSpaceExhausted = errorsmod.RegisterWithGRPCCode(Codespace, 89, codes.Internal, "could not allocate a unique lobby code")
)
