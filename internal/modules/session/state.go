package session

import (
	"context"
	"time"

	"resortbooking/internal/domain"
)

type Status int

const (
	Anonymous Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// State is the typed session of one request. It is resolved once by middleware and passed
// explicitly to whatever needs the acting identity.
type State struct {
	Status    Status
	Identity  domain.Identity
	TokenID   string
	ExpiresAt time.Time
}

func AnonymousState() State { return State{Status: Anonymous} }

func (s State) IsAuthenticated() bool {
	return s.Status == Authenticated && s.Identity.UserID != ""
}

// Credential is what an identity provider reports for a valid token.
type Credential struct {
	Identity  domain.Identity
	TokenID   string
	ExpiresAt time.Time
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Credential, error)
}

// Change is one transition of a client's session, as fired by the identity provider.
type Change struct {
	ClientKey string
	Previous  State
	Current   State
}

type stateKey struct{}

func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

func FromContext(ctx context.Context) State {
	if st, ok := ctx.Value(stateKey{}).(State); ok {
		return st
	}
	return AnonymousState()
}
