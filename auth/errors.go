package auth

import "fmt"

type (
	UserAlreadyExists struct {
		Email string
	}

	UserNotFound struct {
		Email string
	}

	InvalidResetToken struct{}
)

func (u UserAlreadyExists) Error() string {
	return fmt.Sprintf("user %v already exists", u.Email)
}

func (u UserNotFound) Error() string {
	return fmt.Sprintf("user %v not found", u.Email)
}

func (InvalidResetToken) Error() string {
	return "invalid reset token"
}
