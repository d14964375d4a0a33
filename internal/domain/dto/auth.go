package dto

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxPasswordBytes is the longest password bcrypt can compare.
const maxPasswordBytes = 72

// LoginRequest is the staff sign-in body.
//
// @Description Staff credentials for the admin console
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"chef@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"mise-en-place"`
} // @name LoginRequest

// Validate trims and lower-cases the email, then rejects passwords bcrypt
// would silently truncate.
func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if len(r.Password) > maxPasswordBytes {
		return &ValidationError{Field: "password", Message: "password must be at most 72 bytes"}
	}
	return nil
}

// LoginResponse carries a fresh token pair. User is set on login only.
//
// @Description Issued admin console tokens
type LoginResponse struct {
	Token        string        `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string        `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn    int64         `json:"expires_in" example:"900"`
	User         *UserResponse `json:"user,omitempty"`
} // @name LoginResponse

// UserResponse is the signed-in staff member.
type UserResponse struct {
	Email string   `json:"email" example:"chef@example.com"`
	Name  string   `json:"name,omitempty" example:"Head Chef"`
	Roles []string `json:"roles" example:"staff"`
} // @name UserResponse

// TokenPair is what the token service issues. ExpiresIn is in seconds and
// describes the access token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewLoginResponse shapes a token pair for the client.
func NewLoginResponse(pair *TokenPair, user *UserResponse) LoginResponse {
	return LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         user,
	}
}

// Claims is the staff identity carried in every admin token.
type Claims struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
	Roles  []string           `json:"roles"`
}
