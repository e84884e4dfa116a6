package auth

import (
	"time"

	"resortbooking/internal/domain"
)

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserPublic struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Phone string          `json:"phone,omitempty"`
	Role  domain.UserRole `json:"role"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role}
}

// Session is what a successful sign-up or sign-in hands to the client.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}
