// Package user defines the user model used throughout the application,
// particularly for authentication and link ownership.
package user

// User represents a registered link owner.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	// LinkID is the public feedback-collection identifier owned by the user.
	// It is assigned once at signup and never rotated.
	LinkID string

	Name  string
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// It must never leave the server in API responses.
	PasswordHash string
}
