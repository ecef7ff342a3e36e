package v1alpha1

import "errors"

// ErrIDRequired is returned when a store record has no ID.
var ErrIDRequired = errors.New("store id is required")

// ErrDomainRequired is returned when a store record has no routing domain.
var ErrDomainRequired = errors.New("store domain is required")

// ErrNamespaceMismatch is returned when a store's namespace is not derived
// from its ID.
var ErrNamespaceMismatch = errors.New("store namespace does not match id")

// ErrStatusNotPersistable is returned when a derived-only status value is
// about to be written to the registry.
var ErrStatusNotPersistable = errors.New("status value is not persistable")
