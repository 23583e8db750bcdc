package command

// Verb names. They double as RPC ids and rate-limit table keys.
const (
	ActionAskForCard        = "fish_ask_for_card"
	ActionPassTurn          = "fish_pass_turn"
	ActionStartDeclaration  = "fish_start_declaration"
	ActionSelectDeclaration = "fish_select_declaration"
	ActionAbortDeclaration  = "fish_abort_declaration"
	ActionFinishDeclaration = "fish_finish_declaration"
	ActionVoteForReplay     = "fish_vote_for_replay"
	ActionLeaveGame         = "fish_leave_game"
	ActionReturnToGame      = "fish_return_to_game"
	ActionForfeitGame       = "fish_forfeit_game"
	ActionCreateLobby       = "fish_create_lobby"
	ActionJoinLobby         = "fish_join_lobby"
	ActionLeaveLobby        = "fish_leave_lobby"
	ActionSetTeam           = "fish_set_team"
	ActionStartGame         = "fish_start_game"
	ActionStartReplay       = "fish_start_replay"
	ActionReturnToLobby     = "fish_return_to_lobby"
	ActionGetGame           = "fish_get_game"
	ActionGetLobby          = "fish_get_lobby"
)

// Archive reasons.
const (
	reasonReplay        = "replay"
	reasonReturnToLobby = "returned_to_lobby"
	reasonLobbyClosed   = "lobby_closed"
	reasonAbandoned     = "abandoned"
)
