// Package svc provides service layer components for Storekeep.
//
// This package contains the business logic layer that coordinates between
// the HTTP API and the underlying clients/infrastructure.
//
// Subpackages:
//   - registry: Durable store record registry backed by a JSON snapshot file
//   - deployer: Helm-based store installation and namespace teardown
//   - orchestrator: Store lifecycle coordination and workflow tracking
package svc
