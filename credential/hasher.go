// Package credential hashes and verifies user passwords.
//
// Hashes are self describing strings: bcrypt hashes start with $2, argon2id
// hashes use the PHC format ($argon2id$v=19$m=...,t=...,p=...$salt$key).
// Every hash embeds its own random salt and work factor, so changing the
// configured algorithm never invalidates stored passwords.
package credential

import (
	"strings"
)

type (
	Hasher interface {
		// Hash returns a salted one-way hash of password.
		// Two calls with the same password never return the same value.
		Hash(password string) (string, error)
		// Verify reports if candidate matches hashed. Malformed hashes
		// are reported as a mismatch.
		Verify(hashed, candidate string) bool
	}

	// Multi hashes with Default and verifies any supported hash format.
	Multi struct {
		Default Hasher
	}
)

const (
	AlgoBcrypt   = "bcrypt"
	AlgoArgon2id = "argon2id"
)

// New returns a Hasher producing algo hashes that still verifies every
// supported format. For bcrypt, cost is the bcrypt cost, for argon2id it is
// the number of passes. A cost of zero picks the algorithm default.
func New(algo string, cost int) (Hasher, error) {
	if len(algo) == 0 {
		algo = AlgoBcrypt
	}
	var def Hasher
	switch algo {
	case AlgoBcrypt:
		if cost < 0 {
			return nil, InvalidWorkFactor{Algo: algo, Value: cost}
		}
		b := DefaultBcrypt()
		if cost != 0 {
			b.Cost = cost
		}
		if err := b.validate(); err != nil {
			return nil, err
		}
		def = b
	case AlgoArgon2id:
		if cost < 0 {
			return nil, InvalidWorkFactor{Algo: algo, Value: cost}
		}
		a := DefaultArgon2id()
		if cost != 0 {
			a.Time = uint32(cost)
		}
		if err := a.validate(); err != nil {
			return nil, err
		}
		def = a
	default:
		return nil, UnknownAlgorithm{Name: algo}
	}
	return Multi{Default: def}, nil
}

func (m Multi) Hash(password string) (string, error) {
	return m.Default.Hash(password)
}

func (m Multi) Verify(hashed, candidate string) bool {
	switch {
	case strings.HasPrefix(hashed, argon2idPrefix):
		return Argon2id{}.Verify(hashed, candidate)
	case strings.HasPrefix(hashed, "$2"):
		return Bcrypt{}.Verify(hashed, candidate)
	}
	return false
}
