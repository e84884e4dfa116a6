package auth

import (
	"context"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/jwt"
)

// UserRepository is implemented by both the gorm and the Firestore stores.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID, email, role string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}

// PendingResumer hands back the page a guest was sent away from before signing in.
type PendingResumer interface {
	Resume(clientKey string) string
}
