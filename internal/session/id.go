package session

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns a random UUIDv4 in canonical form. The canonical form
// never contains the bearer delimiter.
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return id.String(), nil
}
