// Package storage declares the persistence contract shared by the
// PostgreSQL, file-backed, and in-memory backends.
package storage

import (
	"context"
	"database/sql"

	"github.com/SalmanGits/link-sharing-be/internal/models"
	"github.com/SalmanGits/link-sharing-be/internal/user"
)

// Storage is the full persistence interface of the feedback-link service.
// Transaction methods are no-ops for backends without transaction support.
type Storage interface {
	CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error)

	FindUserByEmail(
		ctx context.Context,
		email string,
		transaction *sql.Tx,
	) (*user.User, bool, error)

	FindUserByID(ctx context.Context, userID string) (*user.User, bool, error)

	CreateSubmission(ctx context.Context, submission *models.Submission) error

	// FindSubmissionsByLinkID returns the submissions tied to linkID in
	// insertion order. The result is empty, never nil, when there are none.
	FindSubmissionsByLinkID(ctx context.Context, linkID string) ([]models.Submission, error)

	GetNumberOfUsers(ctx context.Context) (int64, error)

	GetNumberOfSubmissions(ctx context.Context) (int64, error)

	BeginTransaction() (*sql.Tx, error)

	RollbackTransaction(transaction *sql.Tx) error

	CommitTransaction(transaction *sql.Tx) error

	Ping(ctx context.Context) error

	Close() error
}
