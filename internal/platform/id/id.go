// Package id issues identifiers for persisted records.
package id

import "github.com/google/uuid"

// NewID returns a new random identifier string.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}
