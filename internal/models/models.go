// Package models contains the request/response structures of the HTTP API
// and the shared data types persisted by the storage backends.
package models

// Submission is one respondent's feedback entry tied to a link identifier.
// Submissions are immutable once created and are never tied to a user
// directly: the association is resolved at read time through the owner's
// link identifier.
type Submission struct {
	LinkID    string `json:"linkId"`
	Name      string `json:"name"`
	Like      string `json:"like"`
	Dislike   string `json:"dislike"`
	Paragraph string `json:"paragraph"`
	Anonymous bool   `json:"anonymous"`
}

// SubmitFormRequest is the body of POST /api/submit-form/{linkId}.
type SubmitFormRequest struct {
	Name      string `json:"name"`
	Like      string `json:"like"`
	Dislike   string `json:"dislike"`
	Paragraph string `json:"paragraph"`
	Anonymous bool   `json:"anonymous"`
}

// SubmitFormResponse is the body returned by POST /api/submit-form/{linkId}.
type SubmitFormResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupResponse is the body returned by POST /api/signup.
type SignupResponse struct {
	LinkID string `json:"linkId"`
	Token  string `json:"token"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the body returned by POST /api/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateLinkResponse is the body returned by POST /api/create-link.
type CreateLinkResponse struct {
	LinkID string `json:"linkId"`
}

// UserProfile is the public projection of a user record.
// It deliberately omits the password hash.
type UserProfile struct {
	ID     string `json:"id"`
	LinkID string `json:"linkId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ProfileResponse is the body returned by GET /api/profile.
// User is null when the authenticated user record no longer exists.
type ProfileResponse struct {
	User *UserProfile `json:"user"`
}

// MessageResponse is the generic 400-level error body:
// a human-readable message plus success:false.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// AuthErrorResponse is the body produced by the access gate on
// missing/invalid/expired tokens.
type AuthErrorResponse struct {
	Message string `json:"message"`
}

// InternalErrorResponse is the generic 500 body. The original error is
// logged server-side and never leaked to the client.
type InternalErrorResponse struct {
	Error string `json:"error"`
}

// StatsResponse is the body returned by GET /api/internal/stats.
type StatsResponse struct {
	Users       int64 `json:"users"`
	Submissions int64 `json:"submissions"`
}

// Storage backend kinds selectable via configuration.
const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)
