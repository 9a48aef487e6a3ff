package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Email string `json:"email"`
	// UserID is parsed from the subject claim on validation.
	UserID int `json:"-"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Email  string `json:"email"`
	Token  string `json:"token"`
	UserID int    `json:"user_id"`
}
