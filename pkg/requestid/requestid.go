package requestid

import (
	"strings"

	"github.com/google/uuid"
)

const DefaultHeaderKey = "X-Request-Id"

// ResolveHeaderKey returns the provided header key when non-empty,
// otherwise falls back to the default request id header key.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen returns a random (version 4) UUID in canonical form.
func Gen() string {
	return uuid.NewString()
}

// Valid reports whether id looks like an id produced by Gen.
func Valid(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.Version() == 4 && len(id) == 36
}
