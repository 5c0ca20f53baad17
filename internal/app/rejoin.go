package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// RejoinTokenService issues and verifies the signed tokens that let a client
// reclaim its seat by player id after losing all local state.
type RejoinTokenService struct {
	secret string
	ttl    time.Duration
}

// NewRejoinTokenService builds a token service. ttl <= 0 falls back to 24h.
func NewRejoinTokenService(secret string, ttl time.Duration) *RejoinTokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RejoinTokenService{secret: secret, ttl: ttl}
}

// Issue signs a token binding a room code to a player id.
func (s *RejoinTokenService) Issue(roomCode, playerID string) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("rejoin token secret is not configured")
	}
	if roomCode == "" || playerID == "" {
		return "", fmt.Errorf("room code and player id are required")
	}

	claims := jwt.MapClaims{
		"room": roomCode,
		"sub":  playerID,
		"exp":  time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature and expiry and returns the bound room code and
// player id.
func (s *RejoinTokenService) Verify(tokenString string) (roomCode, playerID string, err error) {
	if s == nil || s.secret == "" {
		return "", "", fmt.Errorf("rejoin token secret is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse rejoin token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("rejoin token is invalid")
	}

	roomCode, _ = claims["room"].(string)
	playerID, _ = claims["sub"].(string)
	if roomCode == "" || playerID == "" {
		return "", "", fmt.Errorf("rejoin token claims are incomplete")
	}
	return roomCode, playerID, nil
}
