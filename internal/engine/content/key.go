package content

import "github.com/google/uuid"

// GenerateKey returns a fresh random key.
// Use State.GenerateKey when the key must not collide with a live key.
func GenerateKey() string {
	return uuid.NewString()
}
