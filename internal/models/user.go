package models

// User represents a user account in the system.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Hash     string `json:"-"` // Never expose this to the client
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}
