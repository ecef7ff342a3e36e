// Package apis provides API type definitions for Storekeep resources.
//
// This package contains versioned API types following Kubernetes API conventions:
//
//   - store: Store record types and lifecycle status values
//
// The API types are designed to be serializable to JSON for the registry
// snapshot and the HTTP surface.
package apis
