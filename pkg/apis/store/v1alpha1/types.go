package v1alpha1

import (
	"fmt"
	"time"
)

// NamespacePrefix is prepended to a store ID to derive its isolation namespace.
const NamespacePrefix = "store-"

// Store represents one provisioned commerce instance and its last-known
// lifecycle state. It is the unit the orchestrator manages and the record the
// registry persists.
type Store struct {
	// ID is a short unique identifier generated at creation. It is immutable,
	// doubles as the Helm release name, and is embedded in derived resource
	// names (namespace, database name, database username).
	ID string `json:"id"`

	// Namespace is the cluster-level isolation boundary for this store. It is
	// always NamespacePrefix + ID and never shared between stores.
	Namespace string `json:"namespace"`

	// Domain is the caller-supplied routing hostname. Immutable after creation.
	Domain string `json:"domain"`

	// StoreName is the display name shown in the storefront.
	StoreName string `json:"storeName"`

	// AdminEmail is the storefront administrator contact address.
	AdminEmail string `json:"adminEmail"`

	// AdminUsername and AdminPassword are the storefront admin credentials,
	// generated at creation and never rotated afterwards.
	AdminUsername string `json:"adminUsername"`
	AdminPassword string `json:"adminPassword"`

	// Status is the persisted lifecycle state. Live status reads are advisory
	// and never written back through this field.
	Status Status `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// NamespaceFor derives the isolation namespace for a store ID.
func NamespaceFor(id string) string {
	return NamespacePrefix + id
}

// Validate checks the structural invariants of a store record.
func (s *Store) Validate() error {
	if s.ID == "" {
		return ErrIDRequired
	}

	if s.Domain == "" {
		return ErrDomainRequired
	}

	if s.Namespace != NamespaceFor(s.ID) {
		return fmt.Errorf("%w: got %q, want %q", ErrNamespaceMismatch, s.Namespace, NamespaceFor(s.ID))
	}

	if !s.Status.Persistable() {
		return fmt.Errorf("%w: %q", ErrStatusNotPersistable, s.Status)
	}

	return nil
}
