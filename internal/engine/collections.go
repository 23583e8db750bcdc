package engine

import (
	"time"

	"fish/internal/domain"
)

// Storage collections.
const (
	CollectionGames           = "games"
	CollectionGamesCompleted  = "games_completed"
	CollectionGamesUnfinished = "games_unfinished"
	CollectionLobbies         = "lobbies"
	CollectionLobbiesDeleted  = "lobbies_deleted"
)

// ArchiveOutcome segregates archived games.
type ArchiveOutcome string

const (
	ArchiveCompleted  ArchiveOutcome = "completed"
	ArchiveUnfinished ArchiveOutcome = "unfinished"
)

func (o ArchiveOutcome) collection() string {
	if o == ArchiveCompleted {
		return CollectionGamesCompleted
	}
	return CollectionGamesUnfinished
}

// ArchivedGame is the immutable copy written when a game leaves the live collection.
type ArchivedGame struct {
	Game       *domain.Game   `json:"game"`
	Outcome    ArchiveOutcome `json:"outcome"`
	Reason     string         `json:"reason"`
	ArchivedAt time.Time      `json:"archivedAt"`
}

// DeletedLobby is the copy kept when the last player leaves a lobby.
type DeletedLobby struct {
	Lobby     *domain.Lobby `json:"lobby"`
	DeletedAt time.Time     `json:"deletedAt"`
}
