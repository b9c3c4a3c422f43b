package credential

import (
	"golang.org/x/crypto/bcrypt"
)

type (
	Bcrypt struct {
		Cost int
	}
)

// bcrypt only looks at the first 72 bytes of a password
const bcryptMaxPassword = 72

func DefaultBcrypt() Bcrypt {
	return Bcrypt{Cost: bcrypt.DefaultCost}
}

func (b Bcrypt) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", EmptyPassword{}
	} else if len(password) > bcryptMaxPassword {
		return "", PasswordTooLong{Algo: AlgoBcrypt, Max: bcryptMaxPassword}
	}
	if err := b.validate(); err != nil {
		return "", err
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", HashFailed{Algo: AlgoBcrypt, cause: err}
	}
	return string(out), nil
}

// Verify uses the cost and salt embedded in hashed, the receiver Cost is ignored.
func (Bcrypt) Verify(hashed, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(candidate)) == nil
}

func (b Bcrypt) validate() error {
	if b.Cost < bcrypt.MinCost || b.Cost > bcrypt.MaxCost {
		return InvalidWorkFactor{Algo: AlgoBcrypt, Value: b.Cost}
	}
	return nil
}
