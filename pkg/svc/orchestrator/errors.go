package orchestrator

import "errors"

// ErrWorkflowInFlight is returned when a deploy or teardown workflow is
// already running for the requested store ID. Concurrent install/uninstall
// for one store is disallowed; callers should retry after the in-flight
// workflow completes.
var ErrWorkflowInFlight = errors.New("a workflow is already in flight for this store")

// ErrNoWorkflow is returned by AwaitWorkflow when no workflow has ever been
// started for the requested store ID.
var ErrNoWorkflow = errors.New("no workflow recorded for this store")
