package model

import "time"

const (
	UsernameMaxLength = 150
	EmailMaxLength    = 254
	NameMaxLength     = 150
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=150"`
	LastName  string `json:"lastName" validate:"required,max=150"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message     string `json:"message"`
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}
