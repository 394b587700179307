package domain

// User is present only after the service confirms a session; its absence
// means anonymous, local-only operation.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
