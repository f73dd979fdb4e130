package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// DefaultTokenTTL is the validity window of a session token.
const DefaultTokenTTL = 24 * time.Hour

// Claims defines the structure of the JWT claims.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a new signed session token for a user.
func GenerateJWT(userID primitive.ObjectID, role models.Role, secretKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID.Hex(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT verifies a JWT string and returns the claims if valid.
// Expired tokens, foreign signing methods and bad signatures are all rejected.
func ValidateJWT(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid JWT")
	}

	return claims, nil
}

// SubjectID parses the user id carried by the claims.
func (c *Claims) SubjectID() (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id in token: %w", err)
	}
	return id, nil
}
