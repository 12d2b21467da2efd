package admin

import (
	"errors"
	"time"

	"poll-service/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidKey   = errors.New("invalid admin key")
	ErrInvalidToken = errors.New("invalid token")
	ErrNotEnabled   = errors.New("admin access is not configured")
)

type Service interface {
	// Login exchanges the shared admin key for a signed session token.
	Login(key string) (string, error)
	// ValidateToken parses and verifies an admin session token.
	ValidateToken(tokenString string) error
}

type service struct {
	cfg *config.AdminConfig
}

func NewService(cfg *config.AdminConfig) Service {
	return &service{cfg: cfg}
}

func (s *service) Login(key string) (string, error) {
	if s.cfg.KeyHash == "" {
		return "", ErrNotEnabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.KeyHash), []byte(key)); err != nil {
		return "", ErrInvalidKey
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTExpire).Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *service) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return ErrInvalidToken
	}
	return nil
}
