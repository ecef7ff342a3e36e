// Package client provides embedded Kubernetes tool clients.
//
// This package contains Go library wrappers for tools that are embedded
// directly into Storekeep, eliminating external binary dependencies:
//
//   - helm: Helm chart installation and release removal
//
// By embedding these clients as Go libraries, Storekeep needs no helm or
// kubectl binaries on the host, simplifying installation and ensuring
// version consistency across all components.
package client
