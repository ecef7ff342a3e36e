// Package cli provides reusable helpers for command wiring and execution.
//
// This package is organized into subpackages for different functionality:
//
//   - cli/cmd: Cobra command definitions (root, serve)
//   - cli/parallel: Parallel task execution with controlled concurrency
package cli
