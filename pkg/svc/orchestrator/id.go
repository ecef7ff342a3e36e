package orchestrator

import (
	"strings"

	"github.com/google/uuid"
)

// idLength is the number of UUID characters kept in a store ID.
const idLength = 7

// NewStoreID generates a short store identifier of the shape "s" followed by
// seven hex characters. IDs are random, never derived from caller input, and
// never reused: a deleted store's ID stays retired because a fresh UUID backs
// every generation.
func NewStoreID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")

	return "s" + raw[:idLength]
}
