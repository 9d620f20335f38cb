package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const issuer = "inventory-ledger"

// Claims identifies the actor stamped on ledger entries.
type Claims struct {
	ActorID    string   `json:"actor_id"`
	Name       string   `json:"name"`
	Privileges []string `json:"privileges"`
	jwt.RegisteredClaims
}

// DefaultSecret is only meant for local development.
const DefaultSecret = "change-me-in-production"

// SecretKey returns secret, or DefaultSecret when it is empty.
func SecretKey(secret string) []byte {
	if secret == "" {
		secret = DefaultSecret
	}
	return []byte(secret)
}

// GenerateToken signs a token for actorID valid for ttl.
func GenerateToken(secret []byte, actorID, name string, privileges []string, ttl time.Duration) (string, error) {
	claims := &Claims{
		ActorID:    actorID,
		Name:       name,
		Privileges: privileges,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token signed with secret.
func ValidateToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.ActorID != "" {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
