package auth

import (
	"context"
	"fmt"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/session"
)

// FirebaseVerifier accepts Firebase ID tokens as session credentials.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*session.Credential, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return credentialFromToken(tok), nil
}

// credentialFromToken keys revocation on uid plus issue time; ID tokens carry no jti.
func credentialFromToken(tok *fbauth.Token) *session.Credential {
	id := domain.Identity{UserID: tok.UID, Role: domain.RoleGuest}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		id.Name = name
	}
	if role, ok := tok.Claims["role"].(string); ok && domain.UserRole(role) == domain.RoleAdmin {
		id.Role = domain.RoleAdmin
	}
	return &session.Credential{
		Identity:  id,
		TokenID:   fmt.Sprintf("%s:%d", tok.UID, tok.IssuedAt),
		ExpiresAt: time.Unix(tok.Expires, 0),
	}
}
