package model

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names understood by the admin console.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a kitchen staff account that can sign in to the admin console.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Roles     []string           `bson:"roles" json:"roles"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// CanSignIn reports whether u is a stored, active account.
func (u *User) CanSignIn() bool {
	return u != nil && u.Active && !u.ID.IsZero()
}

// TokenKind separates live refresh tokens from revoked access tokens.
type TokenKind string

const (
	TokenRefresh TokenKind = "refresh"
	TokenRevoked TokenKind = "revoked"
)

// StaffToken is a stored token digest. The raw token never reaches the
// database; Hash is its SHA-256 in hex.
type StaffToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Hash      string             `bson:"hash"`
	Kind      TokenKind          `bson:"kind"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}
