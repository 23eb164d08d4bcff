// Package postgresdb provides a PostgreSQL-based implementation of the
// storage interface for persisting users and feedback submissions.
// Schema migrations run automatically on startup via goose.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SalmanGits/link-sharing-be/internal/models"
	"github.com/SalmanGits/link-sharing-be/internal/user"
)

// PostgresDB is a PostgreSQL-backed implementation of the feedback-link
// storage. It handles all persistence operations via a database connection.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
				err,
			)
	}

	return result, nil
}

// BeginTransaction starts a new database transaction.
func (db *PostgresDB) BeginTransaction() (*sql.Tx, error) {
	return db.database.Begin()
}

// RollbackTransaction rolls back the given transaction.
func (db *PostgresDB) RollbackTransaction(transaction *sql.Tx) error {
	err := transaction.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

// CommitTransaction commits the given transaction.
func (db *PostgresDB) CommitTransaction(transaction *sql.Tx) error {
	return transaction.Commit()
}

// CreateUser inserts a new user record and returns the generated UUID.
// The email uniqueness check happens in the service before this call;
// the check-and-insert pair is not atomic (see migrations notes).
func (db *PostgresDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`
			INSERT INTO users (link_id, name, email, password_hash)
				VALUES ($1, $2, $3, $4)
				RETURNING id
		`,
		usr.LinkID,
		usr.Name,
		usr.Email,
		usr.PasswordHash,
	)
	var userIDFromDB string
	err := row.Scan(&userIDFromDB)
	if err != nil {
		return "", err
	}

	return userIDFromDB, nil
}

// FindUserByEmail fetches the user registered under the given email.
// The second return value reports whether such a user exists.
func (db *PostgresDB) FindUserByEmail(
	ctx context.Context,
	email string,
	transaction *sql.Tx,
) (*user.User, bool, error) {
	var database queryer
	if transaction == nil {
		database = db.database
	} else {
		database = transaction
	}

	row := database.QueryRowContext(
		ctx,
		`
			SELECT id, link_id, name, email, password_hash
				FROM users
				WHERE email = $1
		`,
		email,
	)

	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.LinkID, &usr.Name, &usr.Email, &usr.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return usr, true, nil
}

// FindUserByID fetches a user by their UUID.
// The second return value reports whether such a user exists.
func (db *PostgresDB) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			SELECT id, link_id, name, email, password_hash
				FROM users
				WHERE id = $1
		`,
		userID,
	)

	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.LinkID, &usr.Name, &usr.Email, &usr.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return usr, true, nil
}

// CreateSubmission inserts a feedback submission. There is no existence
// check on the link identifier.
func (db *PostgresDB) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO submissions (link_id, name, liked, disliked, paragraph, anonymous)
				VALUES ($1, $2, $3, $4, $5, $6)
		`,
		submission.LinkID,
		submission.Name,
		submission.Like,
		submission.Dislike,
		submission.Paragraph,
		submission.Anonymous,
	)

	return err
}

// FindSubmissionsByLinkID returns the submissions tied to linkID ordered
// by insertion.
func (db *PostgresDB) FindSubmissionsByLinkID(ctx context.Context, linkID string) ([]models.Submission, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT link_id, name, liked, disliked, paragraph, anonymous
				FROM submissions
				WHERE link_id = $1
				ORDER BY id
		`,
		linkID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Submission{}
	for rows.Next() {
		submission := models.Submission{}
		err = rows.Scan(
			&submission.LinkID,
			&submission.Name,
			&submission.Like,
			&submission.Dislike,
			&submission.Paragraph,
			&submission.Anonymous,
		)
		if err != nil {
			return nil, err
		}

		result = append(result, submission)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetNumberOfUsers returns the total count of registered users.
func (db *PostgresDB) GetNumberOfUsers(ctx context.Context) (int64, error) {
	row := db.database.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`)

	var count int64
	err := row.Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetNumberOfSubmissions returns the total count of stored submissions.
func (db *PostgresDB) GetNumberOfSubmissions(ctx context.Context) (int64, error) {
	row := db.database.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`)

	var count int64
	err := row.Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Ping verifies the database connection with the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout*time.Second)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the underlying database connection.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}
