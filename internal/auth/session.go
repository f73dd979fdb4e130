package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// Session is the acting identity resolved from a validated token. The role is
// the one currently stored for the user, not the one embedded in the token.
type Session struct {
	UserID primitive.ObjectID
	Role   models.Role
}
