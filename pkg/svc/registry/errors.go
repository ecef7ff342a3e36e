package registry

import "errors"

// ErrStoreNotFound is returned when no store exists for the requested ID.
var ErrStoreNotFound = errors.New("store not found")

// ErrSnapshotCorrupt is returned when the snapshot file exists but cannot be
// parsed. This is a fatal startup condition: silently discarding a corrupt
// snapshot would drop every persisted store.
var ErrSnapshotCorrupt = errors.New("store snapshot is corrupt")
