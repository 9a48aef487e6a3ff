package user

import (
	"strings"
	"time"
)

type User struct {
	ID           int
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Response is the public projection of a user; the password hash is never
// part of it.
type Response struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

func (u *User) Serialize() Response {
	return Response{
		ID:    u.ID,
		Email: u.Email,
	}
}

// Input is the body accepted by create and update. Both fields are required
// on every write since updates overwrite the whole row.
type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in Input) normalized() Input {
	in.Email = strings.TrimSpace(in.Email)
	return in
}

func (in Input) missingFields() []string {
	var missing []string
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}
