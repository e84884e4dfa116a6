package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("weak password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrExternalProvider   = errors.New("accounts are managed by the external identity provider")
)

// UserMessage is the text shown to the guest for an identity failure.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Wrong e-mail or password"
	case errors.Is(err, ErrEmailAlreadyExists):
		return "An account with this e-mail already exists"
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid e-mail address"
	case errors.Is(err, ErrWeakPassword):
		return "Password must be at least 6 characters"
	case errors.Is(err, ErrUnauthorized):
		return "Please sign in again"
	}
	return "Something went wrong, please try again"
}
