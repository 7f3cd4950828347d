package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidSSEToken = errors.New("invalid sse token")

// Service verifies bearer tokens issued by the auth service and mints the
// short-lived tokens the SSE stream uses (EventSource cannot set headers, so
// the stream authenticates via query parameter).
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateSSEToken(userID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, err error)
}

type JWTService struct {
	sseExpiration string
	tokenAuth     *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, sseExpiration string) Service {
	return &JWTService{
		sseExpiration: sseExpiration,
		tokenAuth:     jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateSSEToken(userID string) (string, int, error) {
	expDuration, err := time.ParseDuration(j.sseExpiration)
	if err != nil {
		return "", 0, err
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "sse",
		"exp":     time.Now().Add(expDuration).Unix(),
	})
	return tokenString, int(expDuration.Seconds()), err
}

func (j *JWTService) ValidateSSEToken(tokenString string) (string, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", ErrInvalidSSEToken
	}

	if err := jwt.Validate(token); err != nil {
		return "", ErrInvalidSSEToken
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", ErrInvalidSSEToken
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != "sse" {
		return "", ErrInvalidSSEToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidSSEToken
	}

	return userID, nil
}
