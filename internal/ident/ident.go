// Package ident generates the opaque identifiers handed out as session ids
// and password reset tokens.
package ident

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	Generator interface {
		NewID() (string, error)
	}

	// UUID generates random (version 4) UUIDs.
	UUID struct{}
)

func (UUID) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("ident: unable to read random bytes, cause %w", err)
	}
	return id.String(), nil
}
