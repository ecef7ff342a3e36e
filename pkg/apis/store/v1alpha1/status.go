package v1alpha1

import "slices"

// Status defines the lifecycle status values for a store.
//
// The first four values are persisted by the registry. StatusNotFound and
// StatusUnknown are derived signals produced only by the live status query and
// are never written back to the registry by the status-read path.
type Status string

const (
	// StatusProvisioning means the store's workloads are not yet running.
	// Every store starts in this state.
	StatusProvisioning Status = "provisioning"
	// StatusRunning means all workloads report a running phase and an explicit
	// ready condition.
	StatusRunning Status = "running"
	// StatusFailed means the deploy workflow failed or a workload is in a
	// failed phase.
	StatusFailed Status = "failed"
	// StatusDeleting means a teardown is in progress for the store.
	StatusDeleting Status = "deleting"
	// StatusNotFound means the store's namespace does not exist on the cluster.
	// Derived only, never persisted.
	StatusNotFound Status = "not_found"
	// StatusUnknown means the live status query failed and carries no
	// information. Derived only, never persisted.
	StatusUnknown Status = "unknown"
)

// ValidValues returns all valid string values for this enum type.
func (s Status) ValidValues() []string {
	return []string{
		string(StatusProvisioning),
		string(StatusRunning),
		string(StatusFailed),
		string(StatusDeleting),
		string(StatusNotFound),
		string(StatusUnknown),
	}
}

// Persistable returns true if the status may be written to the registry.
func (s Status) Persistable() bool {
	return slices.Contains([]Status{
		StatusProvisioning,
		StatusRunning,
		StatusFailed,
		StatusDeleting,
	}, s)
}
