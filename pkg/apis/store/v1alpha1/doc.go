// Package v1alpha1 contains the store API types managed by Storekeep.
//
// A Store is one provisioned commerce instance, isolated by a namespace
// derived from its ID. The types here define the persisted record layout and
// the lifecycle status enum shared by the registry, the orchestrator, and the
// HTTP surface.
package v1alpha1
