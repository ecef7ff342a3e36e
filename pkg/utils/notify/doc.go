// Package notify provides formatted operator-facing output.
//
// [WriteMessage] displays messages with type-specific symbols and colors:
// success (✔), error (✗), warning (⚠), info (ℹ), and activity (►). The
// [Reporter] binds the convenience functions to a writer so long-running
// services can hand a single sink to their background workflows.
package notify
