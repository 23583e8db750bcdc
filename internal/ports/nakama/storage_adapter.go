package nakama

import (
	"context"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"fish/internal/ports"
)

// StorageAdapter implements ports.DocumentStore on Nakama storage. Versions
// are Nakama object versions and every commit is one MultiUpdate.
type StorageAdapter struct {
	nk runtime.NakamaModule
}

// NewStorageAdapter creates a new storage adapter.
func NewStorageAdapter(nk runtime.NakamaModule) *StorageAdapter {
	return &StorageAdapter{nk: nk}
}

var _ ports.DocumentStore = (*StorageAdapter)(nil)

// Get reads one system-owned document.
func (a *StorageAdapter) Get(ctx context.Context, collection, key string) (*ports.Document, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: collection,
		Key:        key,
		UserID:     SystemUserID,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	if len(objects) == 0 {
		return nil, ports.ErrNotFound
	}
	obj := objects[0]
	return &ports.Document{
		Collection: collection,
		Key:        key,
		Value:      []byte(obj.GetValue()),
		Version:    obj.GetVersion(),
	}, nil
}

// Commit applies writes and deletes atomically. A rejected version guard
// surfaces as ports.ErrVersionConflict.
func (a *StorageAdapter) Commit(ctx context.Context, writes []ports.Write, deletes []ports.Delete) error {
	if len(writes) == 0 && len(deletes) == 0 {
		return nil
	}
	storageWrites := make([]*runtime.StorageWrite, 0, len(writes))
	for _, w := range writes {
		storageWrites = append(storageWrites, &runtime.StorageWrite{
			Collection:      w.Collection,
			Key:             w.Key,
			UserID:          SystemUserID,
			Value:           string(w.Value),
			Version:         w.Version,
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		})
	}
	storageDeletes := make([]*runtime.StorageDelete, 0, len(deletes))
	for _, d := range deletes {
		storageDeletes = append(storageDeletes, &runtime.StorageDelete{
			Collection: d.Collection,
			Key:        d.Key,
			UserID:     SystemUserID,
			Version:    d.Version,
		})
	}

	_, _, err := a.nk.MultiUpdate(ctx, nil, storageWrites, storageDeletes, nil, false)
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return ports.ErrVersionConflict
		}
		return fmt.Errorf("failed to commit %d writes and %d deletes: %w", len(writes), len(deletes), err)
	}
	return nil
}

// List pages through the system-owned documents of a collection.
func (a *StorageAdapter) List(ctx context.Context, collection string, limit int, cursor string) ([]*ports.Document, string, error) {
	objects, next, err := a.nk.StorageList(ctx, SystemUserID, SystemUserID, collection, limit, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list %s: %w", collection, err)
	}
	docs := make([]*ports.Document, 0, len(objects))
	for _, obj := range objects {
		docs = append(docs, &ports.Document{
			Collection: collection,
			Key:        obj.GetKey(),
			Value:      []byte(obj.GetValue()),
			Version:    obj.GetVersion(),
		})
	}
	return docs, next, nil
}
