package models

// User is an operator account. Stored like every other collection; the password
// hash never leaves the process.
type User struct {
	Meta
	Username       string `json:"username"`
	HashedPassword []byte `json:"hashed_password"`
	Role           string `json:"role"`
}
