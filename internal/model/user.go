package model

import "time"

// User is the durable credential record. PasswordHash never crosses an
// external boundary; responses use PublicUser instead.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public strips everything but the identity fields.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

// Identity is the result of a successful token verification. Constructed
// fresh per request and discarded at request end.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TokenResponse is the login payload.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}
