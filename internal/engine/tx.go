package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"

	"fish/internal/app"
	"fish/internal/domain"
	"fish/internal/ports"
)

type docKey struct {
	collection string
	key        string
}

type stagedWrite struct {
	docKey
	value   any
	version string
}

// Tx is one attempt of a transaction. It caches loaded aggregates so repeated
// reads return the same pointer, and stages writes until commit.
type Tx struct {
	ctx   context.Context
	store ports.DocumentStore
	now   time.Time

	versions map[docKey]string
	games    map[string]*domain.Game
	lobbies  map[string]*domain.Lobby

	writes   []stagedWrite
	deletes  []ports.Delete
	archived map[docKey]bool
}

func newTx(ctx context.Context, store ports.DocumentStore, now time.Time) *Tx {
	return &Tx{
		ctx:      ctx,
		store:    store,
		now:      now,
		versions: map[docKey]string{},
		games:    map[string]*domain.Game{},
		lobbies:  map[string]*domain.Lobby{},
		archived: map[docKey]bool{},
	}
}

// Context returns the transaction's context.
func (tx *Tx) Context() context.Context { return tx.ctx }

// Now is the attempt's timestamp; every write in the attempt shares it.
func (tx *Tx) Now() time.Time { return tx.now }

func (tx *Tx) load(collection, key string, into any) (bool, error) {
	doc, err := tx.store.Get(tx.ctx, collection, key)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errorsmod.Wrapf(app.ErrInternal, "read %s/%s: %v", collection, key, err)
	}
	if err := json.Unmarshal(doc.Value, into); err != nil {
		return false, errorsmod.Wrapf(app.ErrInternal, "decode %s/%s: %v", collection, key, err)
	}
	tx.versions[docKey{collection, key}] = doc.Version
	return true, nil
}

// Game loads a live game.
func (tx *Tx) Game(id string) (*domain.Game, error) {
	if g, ok := tx.games[id]; ok {
		return g, nil
	}
	var g domain.Game
	found, err := tx.load(CollectionGames, id, &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errorsmod.Wrapf(app.ErrGameNotFound, "%s", id)
	}
	tx.games[id] = &g
	return &g, nil
}

// Lobby loads a lobby.
func (tx *Tx) Lobby(id string) (*domain.Lobby, error) {
	if l, ok := tx.lobbies[id]; ok {
		return l, nil
	}
	var l domain.Lobby
	found, err := tx.load(CollectionLobbies, id, &l)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errorsmod.Wrapf(app.ErrLobbyNotFound, "%s", id)
	}
	if l.Teams == nil {
		l.Teams = map[string]*domain.Team{}
	}
	tx.lobbies[id] = &l
	return &l, nil
}

// LobbyExists reports whether a lobby id is taken.
func (tx *Tx) LobbyExists(id string) (bool, error) {
	_, err := tx.Lobby(id)
	if errorsmod.IsOf(err, app.ErrLobbyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// guardFor is the version a write to a read document must still match. A
// document that was never read must not exist yet.
func (tx *Tx) guardFor(k docKey) string {
	if v, ok := tx.versions[k]; ok {
		return v
	}
	return ports.VersionCreateOnly
}

func (tx *Tx) stage(k docKey, value any, version string) {
	if tx.archived[k] {
		return
	}
	for i := range tx.writes {
		if tx.writes[i].docKey == k {
			tx.writes[i].value = value
			return
		}
	}
	tx.writes = append(tx.writes, stagedWrite{docKey: k, value: value, version: version})
}

// PutGame stages the game for writing. It is a no-op once the game was archived
// in this transaction.
func (tx *Tx) PutGame(g *domain.Game) {
	k := docKey{CollectionGames, g.ID}
	tx.games[g.ID] = g
	tx.stage(k, g, tx.guardFor(k))
}

// CreateGame stages a new game; commit fails if the id is taken.
func (tx *Tx) CreateGame(g *domain.Game) {
	tx.games[g.ID] = g
	tx.stage(docKey{CollectionGames, g.ID}, g, ports.VersionCreateOnly)
}

// PutLobby stages the lobby for writing.
func (tx *Tx) PutLobby(l *domain.Lobby) {
	k := docKey{CollectionLobbies, l.ID}
	tx.lobbies[l.ID] = l
	tx.stage(k, l, tx.guardFor(k))
}

// ArchiveGame moves a game out of the live collection in the same commit.
func (tx *Tx) ArchiveGame(g *domain.Game, outcome ArchiveOutcome, reason string) {
	k := docKey{CollectionGames, g.ID}
	tx.unstage(k)
	tx.archived[k] = true
	tx.deletes = append(tx.deletes, ports.Delete{Collection: k.collection, Key: k.key, Version: tx.versions[k]})
	tx.stage(docKey{outcome.collection(), g.ID}, ArchivedGame{
		Game:       g,
		Outcome:    outcome,
		Reason:     reason,
		ArchivedAt: tx.now,
	}, ports.VersionCreateOnly)
	delete(tx.games, g.ID)
}

// ArchiveLobby removes an empty lobby, keeping a copy.
func (tx *Tx) ArchiveLobby(l *domain.Lobby) {
	k := docKey{CollectionLobbies, l.ID}
	tx.unstage(k)
	tx.archived[k] = true
	tx.deletes = append(tx.deletes, ports.Delete{Collection: k.collection, Key: k.key, Version: tx.versions[k]})
	tx.stage(docKey{CollectionLobbiesDeleted, l.ID}, DeletedLobby{Lobby: l, DeletedAt: tx.now}, "")
	delete(tx.lobbies, l.ID)
}

func (tx *Tx) unstage(k docKey) {
	for i := range tx.writes {
		if tx.writes[i].docKey == k {
			tx.writes = append(tx.writes[:i], tx.writes[i+1:]...)
			return
		}
	}
}

func (tx *Tx) commit() error {
	if len(tx.writes) == 0 && len(tx.deletes) == 0 {
		return nil
	}
	writes := make([]ports.Write, 0, len(tx.writes))
	for _, w := range tx.writes {
		raw, err := json.Marshal(w.value)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", w.collection, w.key, err)
		}
		writes = append(writes, ports.Write{Collection: w.collection, Key: w.key, Value: raw, Version: w.version})
	}
	return tx.store.Commit(tx.ctx, writes, tx.deletes)
}
