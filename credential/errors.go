package credential

import "fmt"

type (
	EmptyPassword struct{}

	UnknownAlgorithm struct {
		Name string
	}

	InvalidWorkFactor struct {
		Algo  string
		Value int
	}

	// PasswordTooLong is returned when the algorithm would silently
	// ignore part of the password.
	PasswordTooLong struct {
		Algo string
		Max  int
	}

	HashFailed struct {
		Algo  string
		cause error
	}
)

func (EmptyPassword) Error() string {
	return "password cannot be empty"
}

func (u UnknownAlgorithm) Error() string {
	return fmt.Sprintf("unknown password hashing algorithm %q, expecting bcrypt or argon2id", u.Name)
}

func (i InvalidWorkFactor) Error() string {
	return fmt.Sprintf("invalid work factor %v for %v", i.Value, i.Algo)
}

func (p PasswordTooLong) Error() string {
	return fmt.Sprintf("password is longer than the %v bytes accepted by %v", p.Max, p.Algo)
}

func (h HashFailed) Error() string {
	return fmt.Sprintf("unable to hash password with %v, cause %v", h.Algo, h.cause)
}

func (h HashFailed) Unwrap() error {
	return h.cause
}
