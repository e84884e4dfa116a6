package session

import "errors"

var (
	ErrNoCredential = errors.New("no session credential")
	ErrRevoked      = errors.New("session credential has been revoked")
)
