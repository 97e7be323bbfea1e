package model

// Credentials carry the request-scoped username/password pair for register
// and login. Never persisted or logged.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
