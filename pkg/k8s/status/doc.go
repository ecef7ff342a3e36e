// Package status reduces the live runtime state of a store's namespace to a
// coarse lifecycle signal.
//
// The reduction is a point-in-time snapshot, not a subscription: callers that
// need freshness must re-poll. Query failures are downgraded to
// [v1alpha1.StatusUnknown] and are never surfaced as errors, so one store's
// unreachable namespace cannot fail a listing that covers many stores.
package status
