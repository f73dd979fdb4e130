package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes ordinary visitors from listing agents.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgent
}

// User represents a registered identity.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"` // Store hash, not plaintext
	Role         Role               `bson:"role" json:"role"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the projection of a User that may leave the server.
type PublicUser struct {
	ID           primitive.ObjectID `json:"_id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Role         Role               `json:"role"`
	Phone        string             `json:"phone,omitempty"`
	ProfileImage string             `json:"profileImage,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Public returns the user's public fields.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

// ProfilePatch holds the profile fields a user may change. Nil or empty
// values leave the stored field untouched.
type ProfilePatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}
