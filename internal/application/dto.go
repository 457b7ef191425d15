package application

import (
	"time"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

type LoginInput struct {
	// UsernameOrEmail resolves against email first, then username.
	UsernameOrEmail string
	Password        string
}

// UserResponse is the user summary shape shared by registration, login and
// current-user lookup.
type UserResponse struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	FullName   string     `json:"full_name,omitempty"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login_at,omitempty"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type AuthResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

func toUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email.Value(),
		Username:   u.Username,
		FullName:   u.FullName,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLoginAt,
	}
}
