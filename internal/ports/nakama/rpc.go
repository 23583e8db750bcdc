package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"fish/internal/command"
)

type rpcFunc func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

type verb[Req any] func(ctx context.Context, caller string, req Req) (*command.Result, error)

// bind adapts a handler verb to a Nakama RPC. The caller is taken from the
// session only; payloads never name the acting user.
func bind[Req any](id string, fn verb[Req]) rpcFunc {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

		var req Req
		if strings.TrimSpace(payload) != "" {
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				logger.Warn("%s [User:%s]: invalid payload: %v", id, userID, err)
				return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
			}
		}

		res, err := fn(ctx, userID, req)
		if err != nil {
			logger.Debug("%s [User:%s]: rejected: %v", id, userID, err)
			return "", toRuntimeError(logger, err)
		}
		out, err := json.Marshal(res)
		if err != nil {
			logger.Error("%s [User:%s]: failed to marshal response: %v", id, userID, err)
			return "", runtime.NewError("Internal error", 13) // INTERNAL
		}
		return string(out), nil
	}
}

// RegisterRPCs registers one Nakama RPC per verb.
func RegisterRPCs(initializer runtime.Initializer, h *command.Handler) error {
	rpcs := map[string]rpcFunc{
		command.ActionAskForCard:        bind(command.ActionAskForCard, h.AskForCard),
		command.ActionPassTurn:          bind(command.ActionPassTurn, h.PassTurn),
		command.ActionStartDeclaration:  bind(command.ActionStartDeclaration, h.StartDeclaration),
		command.ActionSelectDeclaration: bind(command.ActionSelectDeclaration, h.SelectDeclaration),
		command.ActionAbortDeclaration:  bind(command.ActionAbortDeclaration, h.AbortDeclaration),
		command.ActionFinishDeclaration: bind(command.ActionFinishDeclaration, h.FinishDeclaration),
		command.ActionVoteForReplay:     bind(command.ActionVoteForReplay, h.VoteForReplay),
		command.ActionLeaveGame:         bind(command.ActionLeaveGame, h.LeaveGame),
		command.ActionReturnToGame:      bind(command.ActionReturnToGame, h.ReturnToGame),
		command.ActionForfeitGame:       bind(command.ActionForfeitGame, h.ForfeitGame),
		command.ActionCreateLobby:       bind(command.ActionCreateLobby, h.CreateLobby),
		command.ActionJoinLobby:         bind(command.ActionJoinLobby, h.JoinLobby),
		command.ActionLeaveLobby:        bind(command.ActionLeaveLobby, h.LeaveLobby),
		command.ActionSetTeam:           bind(command.ActionSetTeam, h.SetTeam),
		command.ActionStartGame:         bind(command.ActionStartGame, h.StartGame),
		command.ActionStartReplay:       bind(command.ActionStartReplay, h.StartReplay),
		command.ActionReturnToLobby:     bind(command.ActionReturnToLobby, h.ReturnToLobby),
		command.ActionGetGame:           bind(command.ActionGetGame, h.GetGame),
		command.ActionGetLobby:          bind(command.ActionGetLobby, h.GetLobby),
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}
