// Package httpapi exposes the store orchestrator over HTTP.
//
// The surface is intentionally small: create, list, and delete stores, plus
// a health probe. Store creation is asynchronous; the API answers 202 once
// the record is persisted and the deploy workflow has started.
package httpapi
