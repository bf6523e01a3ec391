package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/sarraf/internal/domain"
)

// ActorClaims carries the actor identity inside a signed token. The request
// layer authenticates; the ledger only needs {id, name, role} to stamp on
// movements.
type ActorClaims struct {
	ActorID string           `json:"actor_id"`
	Name    string           `json:"name"`
	Role    domain.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenResolver maps a caller's bearer token to an actor.
type TokenResolver struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewTokenResolver creates a new TokenResolver.
func NewTokenResolver(secretKey string, tokenDuration time.Duration) *TokenResolver {
	return &TokenResolver{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Issue signs a token for an actor. Used by the external request layer and
// by tests; the ledger itself never authenticates anyone.
func (r *TokenResolver) Issue(actor domain.Actor) (string, error) {
	claims := ActorClaims{
		ActorID: actor.ID,
		Name:    actor.Name,
		Role:    actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(r.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(r.secretKey)
}

// Resolve verifies a token and returns the actor it names.
func (r *TokenResolver) Resolve(tokenString string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&ActorClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return r.secretKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, domain.ErrExpiredToken
		}
		return domain.Actor{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return domain.Actor{}, domain.ErrInvalidToken
	}

	return domain.Actor{
		ID:   claims.ActorID,
		Name: claims.Name,
		Role: claims.Role,
	}, nil
}
