package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type (
	Argon2id struct {
		Time    uint32
		Memory  uint32
		Threads uint8
	}
)

const (
	argon2idPrefix = "$argon2id$"
	argon2SaltLen  = 16
	argon2KeyLen   = 32
)

func DefaultArgon2id() Argon2id {
	return Argon2id{Time: 1, Memory: 64 * 1024, Threads: 4}
}

func (a Argon2id) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", EmptyPassword{}
	}
	if err := a.validate(); err != nil {
		return "", err
	}
	salt := make([]byte, argon2SaltLen)
	_, err := rand.Read(salt)
	if err != nil {
		return "", HashFailed{Algo: AlgoArgon2id, cause: err}
	}
	key := argon2.IDKey([]byte(password), salt, a.Time, a.Memory, a.Threads, argon2KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.Memory, a.Time, a.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify uses the parameters embedded in hashed, the receiver fields are ignored.
func (Argon2id) Verify(hashed, candidate string) bool {
	params, salt, key, ok := parseArgon2id(hashed)
	if !ok {
		return false
	}
	computed := argon2.IDKey([]byte(candidate), salt, params.Time, params.Memory, params.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1
}

func (a Argon2id) validate() error {
	switch {
	case a.Time == 0:
		return InvalidWorkFactor{Algo: AlgoArgon2id, Value: int(a.Time)}
	case a.Memory < 8*uint32(a.Threads) || a.Threads == 0:
		return InvalidWorkFactor{Algo: AlgoArgon2id, Value: int(a.Memory)}
	}
	return nil
}

func parseArgon2id(hashed string) (Argon2id, []byte, []byte, bool) {
	var a Argon2id
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return a, nil, nil, false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return a, nil, nil, false
	}
	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &a.Memory, &a.Time, &threads); err != nil {
		return a, nil, nil, false
	}
	if threads == 0 || threads > 255 {
		return a, nil, nil, false
	}
	a.Threads = uint8(threads)
	if a.validate() != nil {
		return a, nil, nil, false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return a, nil, nil, false
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > 1024 {
		return a, nil, nil, false
	}
	return a, salt, key, true
}
