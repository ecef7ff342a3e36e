package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
)

const (
	// dirPermissions is the permission mode for the data directory.
	dirPermissions = 0o700
	// filePermissions is the permission mode for the snapshot file.
	filePermissions = 0o600
)

// Registry is the authoritative, persisted record of every store and its
// last-known lifecycle state.
//
// Every mutating call serializes the full store set to the snapshot file
// before returning, so a reader that observes a completed mutation is
// guaranteed to see the updated record on its next read. In-memory state is
// committed only after the snapshot write succeeds, so a failed persist
// leaves the registry exactly as it was. All mutations are serialized through
// the internal mutex; file-write atomicity alone is not enough to make
// concurrent read-modify-write cycles safe.
type Registry struct {
	mu     sync.RWMutex
	path   string
	stores map[string]v1alpha1.Store
	// order preserves insertion order so List is deterministic within a
	// process lifetime.
	order []string
}

// NewRegistry loads the registry from the snapshot file at path.
//
// A missing file is not an error: the registry initializes empty and persists
// an empty snapshot immediately, so later reads never hit a missing-file
// ambiguity. A present but unreadable or corrupt file is a fatal condition
// and is reported as ErrSnapshotCorrupt.
func NewRegistry(path string) (*Registry, error) {
	reg := &Registry{
		path:   path,
		stores: make(map[string]v1alpha1.Store),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read store snapshot %s: %w", path, err)
		}

		persistErr := reg.persistLocked([]v1alpha1.Store{})
		if persistErr != nil {
			return nil, persistErr
		}

		return reg, nil
	}

	var stores []v1alpha1.Store

	err = json.Unmarshal(data, &stores)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSnapshotCorrupt, path, err)
	}

	for _, store := range stores {
		reg.stores[store.ID] = store
		reg.order = append(reg.order, store.ID)
	}

	return reg, nil
}

// Path returns the snapshot file location.
func (r *Registry) Path() string {
	return r.path
}

// Put upserts a store by ID, overwriting any prior state unconditionally.
// The full snapshot is persisted before Put returns.
func (r *Registry) Put(store v1alpha1.Store) error {
	validateErr := store.Validate()
	if validateErr != nil {
		return fmt.Errorf("put store: %w", validateErr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order := r.order

	_, exists := r.stores[store.ID]
	if !exists {
		order = append(slices.Clone(r.order), store.ID)
	}

	snapshot := make([]v1alpha1.Store, 0, len(order))

	for _, id := range order {
		if id == store.ID {
			snapshot = append(snapshot, store)

			continue
		}

		snapshot = append(snapshot, r.stores[id])
	}

	persistErr := r.persistLocked(snapshot)
	if persistErr != nil {
		return persistErr
	}

	r.stores[store.ID] = store
	r.order = order

	return nil
}

// Get returns the store with the given ID, or ErrStoreNotFound.
func (r *Registry) Get(id string) (v1alpha1.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return v1alpha1.Store{}, fmt.Errorf("%w: %s", ErrStoreNotFound, id)
	}

	return store, nil
}

// List returns a snapshot of all stores in insertion order.
func (r *Registry) List() []v1alpha1.Store {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stores := make([]v1alpha1.Store, 0, len(r.order))
	for _, id := range r.order {
		stores = append(stores, r.stores[id])
	}

	return stores
}

// Remove deletes the store with the given ID. Removing an absent ID is a
// no-op that still succeeds. The snapshot is persisted before Remove returns.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.stores[id]
	if !exists {
		return nil
	}

	order := slices.DeleteFunc(slices.Clone(r.order), func(existing string) bool {
		return existing == id
	})

	snapshot := make([]v1alpha1.Store, 0, len(order))
	for _, existing := range order {
		snapshot = append(snapshot, r.stores[existing])
	}

	persistErr := r.persistLocked(snapshot)
	if persistErr != nil {
		return persistErr
	}

	delete(r.stores, id)
	r.order = order

	return nil
}

// SetStatus updates the persisted status of the store with the given ID and
// stamps UpdatedAt. Setting the status of an absent ID is a no-op.
func (r *Registry) SetStatus(id string, status v1alpha1.Status) error {
	if !status.Persistable() {
		return fmt.Errorf("set status %s: %w: %q", id, v1alpha1.ErrStatusNotPersistable, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[id]
	if !ok {
		return nil
	}

	store.Status = status
	store.UpdatedAt = time.Now().UTC()

	snapshot := make([]v1alpha1.Store, 0, len(r.order))

	for _, existing := range r.order {
		if existing == id {
			snapshot = append(snapshot, store)

			continue
		}

		snapshot = append(snapshot, r.stores[existing])
	}

	persistErr := r.persistLocked(snapshot)
	if persistErr != nil {
		return persistErr
	}

	r.stores[id] = store

	return nil
}

// persistLocked writes the given store set to the snapshot file. The caller
// must hold the write lock and commits its in-memory state only after a nil
// return. The snapshot is written to a temporary file and renamed into place
// so a crash mid-write never corrupts the previous snapshot.
func (r *Registry) persistLocked(stores []v1alpha1.Store) error {
	data, err := json.MarshalIndent(stores, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)

	err = os.MkdirAll(dir, dirPermissions)
	if err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}

	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)

		if writeErr != nil {
			return fmt.Errorf("write store snapshot: %w", writeErr)
		}

		return fmt.Errorf("close store snapshot: %w", closeErr)
	}

	chmodErr := os.Chmod(tmpName, filePermissions)
	if chmodErr != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("set snapshot permissions: %w", chmodErr)
	}

	renameErr := os.Rename(tmpName, r.path)
	if renameErr != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("replace store snapshot %s: %w", r.path, renameErr)
	}

	return nil
}
