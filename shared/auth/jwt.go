package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the claim set carried by access and refresh tokens. The subject
// travels in the "id" claim rather than "sub".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTAuthenticator signs and validates HS256 tokens.
type JWTAuthenticator struct{}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator() JWTAuthenticator {
	return JWTAuthenticator{}
}

// GenerateToken signs a token for the given user id with the given secret and
// lifetime. Each token gets a fresh JTI.
func (a *JWTAuthenticator) GenerateToken(userID, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateToken validates a token against the given secret and returns its
// claims. Signature and expiry are both enforced.
func (a *JWTAuthenticator) ValidateToken(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
