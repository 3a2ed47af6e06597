// Package auth issues and validates the stateless session tokens that carry
// the caller's identity between requests.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered JWT claims plus the session identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// GenerateToken signs an HS256 token for identity valid for validityDuration.
func GenerateToken(identity *models.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   identity.ID,
		Email:    identity.Email,
		Username: identity.Username,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns the identity it carries.
// Expired tokens yield common.ErrTokenExpired; any other problem (bad
// signature, unexpected algorithm, missing id) yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return &models.Identity{ID: claims.UserID, Email: claims.Email, Username: claims.Username}, nil
}
