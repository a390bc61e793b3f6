package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const tokenLifetime = 24 * time.Hour

type JWTClaim struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// Tokens signs and checks staff session tokens.
type Tokens struct {
	key []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{key: []byte(secret)}
}

func (t *Tokens) Generate(id, username, role string) (string, error) {
	claims := &JWTClaim{
		ID:       id,
		Username: username,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.key)
}

func (t *Tokens) Validate(signedToken string) (*JWTClaim, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return t.key, nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaim)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
