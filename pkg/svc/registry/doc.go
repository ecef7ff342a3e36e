// Package registry provides the durable, keyed store of all Store records.
//
// The registry keeps an in-memory map mirrored to a single JSON snapshot file:
// the full set is loaded once at startup and rewritten wholesale on every
// mutation. Mutations are serialized through an internal mutex, and every
// mutating call persists before it returns, so completed writes are always
// visible to subsequent reads even across a process restart.
package registry
