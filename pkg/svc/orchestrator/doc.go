// Package orchestrator coordinates store lifecycle state.
//
// It accepts creation and deletion requests, drives the asynchronous deploy
// and teardown workflows against the deployment driver, and reconciles live
// cluster status into the listing read path. The invariants live here: at
// most one workflow in flight per store ID, persisted state written before
// any mutating call returns, and workflow failures surfaced through status
// and the operator reporter rather than the original caller.
package orchestrator
