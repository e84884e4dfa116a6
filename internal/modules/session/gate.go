package session

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	AuthEntryPoint = "/auth/login"
	DefaultLanding = "/"
)

type Decision struct {
	Admitted bool   `json:"admitted"`
	Redirect string `json:"redirect,omitempty"`
}

// Gate decides who may enter the wizard, remembers where anonymous visitors were headed and
// keeps a deny-list of signed-out token ids until they expire.
type Gate struct {
	verifier Verifier
	log      *logrus.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]string
	revoked map[string]time.Time
}

func NewGate(verifier Verifier, log *logrus.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		log:      log,
		now:      time.Now,
		pending:  make(map[string]string),
		revoked:  make(map[string]time.Time),
	}
}

// Authenticate resolves a bearer token into a State. Every failure comes with the anonymous
// State.
func (g *Gate) Authenticate(ctx context.Context, token string) (State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AnonymousState(), ErrNoCredential
	}

	cred, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return AnonymousState(), err
	}
	if g.IsRevoked(cred.TokenID) {
		return AnonymousState(), ErrRevoked
	}

	return State{
		Status:    Authenticated,
		Identity:  cred.Identity,
		TokenID:   cred.TokenID,
		ExpiresAt: cred.ExpiresAt,
	}, nil
}

// Admit lets authenticated sessions through. Anonymous ones get path stored as the pending
// target for clientKey and are sent to the auth entry point.
func (g *Gate) Admit(clientKey string, st State, path string) Decision {
	if st.IsAuthenticated() {
		return Decision{Admitted: true}
	}

	if clientKey != "" {
		if target := sanitizeTarget(path); target != "" {
			g.mu.Lock()
			g.pending[clientKey] = target
			g.mu.Unlock()
		}
	}
	return Decision{Redirect: AuthEntryPoint}
}

// Resume returns the pending target once, then the default landing.
func (g *Gate) Resume(clientKey string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if target, ok := g.pending[clientKey]; ok {
		delete(g.pending, clientKey)
		return target
	}
	return DefaultLanding
}

func (g *Gate) PendingTarget(clientKey string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.pending[clientKey]
	return t, ok
}

// Logout revokes the session's token and clears any pending target for clientKey.
func (g *Gate) Logout(clientKey string, st State) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.pending, clientKey)
	if st.TokenID != "" {
		exp := st.ExpiresAt
		if exp.IsZero() {
			exp = g.now().Add(24 * time.Hour)
		}
		g.revoked[st.TokenID] = exp
	}
	g.pruneLocked()
}

func (g *Gate) IsRevoked(tokenID string) bool {
	if tokenID == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	exp, ok := g.revoked[tokenID]
	if !ok {
		return false
	}
	if !g.now().Before(exp) {
		delete(g.revoked, tokenID)
		return false
	}
	return true
}

// HandleChange is the gate's subscription to identity state changes.
func (g *Gate) HandleChange(ch Change) {
	if ch.Current.IsAuthenticated() {
		return
	}
	g.Logout(ch.ClientKey, ch.Previous)
	g.log.WithFields(logrus.Fields{
		"client_key": ch.ClientKey,
		"user_id":    ch.Previous.Identity.UserID,
	}).Debug("session: signed out")
}

func (g *Gate) pruneLocked() {
	now := g.now()
	for id, exp := range g.revoked {
		if !now.Before(exp) {
			delete(g.revoked, id)
		}
	}
}

// sanitizeTarget accepts only same-site paths outside the auth pages.
func sanitizeTarget(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return ""
	}
	u, err := url.Parse(path)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	if strings.HasPrefix(u.Path, AuthEntryPoint) {
		return ""
	}
	return u.RequestURI()
}
