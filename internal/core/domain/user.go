package domain

// User is an account owner. Authentication is handled by an upstream
// collaborator; the core only needs a stable owner identity for accounts.
type User struct {
	UserID string `json:"userID"` // Primary Key (UUID)
	Email  string `json:"email"`  // Unique
	AuditFields
}
