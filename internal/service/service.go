// Package service implements the business logic of the feedback-link
// system: signup and login, link issuance, submission intake, and
// owner-scoped submission retrieval.
package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SalmanGits/link-sharing-be/internal/models"
	"github.com/SalmanGits/link-sharing-be/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error)

	FindUserByEmail(
		ctx context.Context,
		email string,
		transaction *sql.Tx,
	) (*user.User, bool, error)

	FindUserByID(ctx context.Context, userID string) (*user.User, bool, error)
}

type submissionKeeper interface {
	CreateSubmission(ctx context.Context, submission *models.Submission) error

	FindSubmissionsByLinkID(ctx context.Context, linkID string) ([]models.Submission, error)
}

type transactioner interface {
	BeginTransaction() (*sql.Tx, error)

	RollbackTransaction(transaction *sql.Tx) error

	CommitTransaction(transaction *sql.Tx) error
}

type statsKeeper interface {
	GetNumberOfUsers(ctx context.Context) (int64, error)

	GetNumberOfSubmissions(ctx context.Context) (int64, error)
}

type storage interface {
	userKeeper
	submissionKeeper
	transactioner
	statsKeeper
}

type credentialsManager interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	IssueToken(userID string) (string, error)
}

// ErrEmailAlreadyTaken is returned by Signup when the email is registered.
var ErrEmailAlreadyTaken = errors.New("email already exists")

// ErrUnknownEmail is returned by Login when no user holds the email.
var ErrUnknownEmail = errors.New("user does not exist")

// ErrWrongCredentials is returned by Login when the password does not match.
var ErrWrongCredentials = errors.New("email or password is wrong")

// Service wires the storage, the credential manager, and the link
// identifier generator behind the API surface.
type Service struct {
	db             storage
	credentials    credentialsManager
	generateLinkID func() string
}

// New creates a Service. generateLinkID produces fresh public link
// identifiers; it is injected to keep the service deterministic in tests.
func New(
	db storage,
	credentials credentialsManager,
	generateLinkID func() string,
) *Service {
	return &Service{
		db:             db,
		credentials:    credentials,
		generateLinkID: generateLinkID,
	}
}

// CreateLink issues a fresh link identifier. Nothing is persisted:
// ownership binding happens only at signup, and submissions may reference
// identifiers with no matching user.
func (s *Service) CreateLink() string {
	return s.generateLinkID()
}

// Signup registers a new user: it checks email uniqueness, hashes the
// password, issues a link identifier bound to the user, persists the record,
// and returns the link identifier with a session token.
//
// The uniqueness check and the insert run in one transaction where the
// backend supports it, but are not serialized against concurrent signups
// with the same email. The race is a known, documented gap.
func (s *Service) Signup(ctx context.Context, request *models.SignupRequest) (*models.SignupResponse, error) {
	transaction, err := s.db.BeginTransaction()
	if err != nil {
		return nil, err
	}

	_, exists, err := s.db.FindUserByEmail(ctx, request.Email, transaction)
	if err != nil {
		if rollbackErr := s.db.RollbackTransaction(transaction); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, err
	}
	if exists {
		if rollbackErr := s.db.RollbackTransaction(transaction); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, ErrEmailAlreadyTaken
	}

	passwordHash, err := s.credentials.HashPassword(request.Password)
	if err != nil {
		if rollbackErr := s.db.RollbackTransaction(transaction); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, err
	}

	linkID := s.generateLinkID()

	userID, err := s.db.CreateUser(
		ctx,
		&user.User{
			LinkID:       linkID,
			Name:         request.Name,
			Email:        request.Email,
			PasswordHash: passwordHash,
		},
		transaction,
	)
	if err != nil {
		if rollbackErr := s.db.RollbackTransaction(transaction); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, err
	}

	err = s.db.CommitTransaction(transaction)
	if err != nil {
		return nil, err
	}

	token, err := s.credentials.IssueToken(userID)
	if err != nil {
		return nil, err
	}

	return &models.SignupResponse{
		LinkID: linkID,
		Token:  token,
	}, nil
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, request *models.LoginRequest) (*models.LoginResponse, error) {
	usr, exists, err := s.db.FindUserByEmail(ctx, request.Email, nil)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownEmail
	}

	if !s.credentials.VerifyPassword(request.Password, usr.PasswordHash) {
		return nil, ErrWrongCredentials
	}

	token, err := s.credentials.IssueToken(usr.ID)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token}, nil
}

// Profile returns the profile projection of the given user, or nil when the
// record no longer exists. A vanished user is not an error here: the API
// responds with a null user.
func (s *Service) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	usr, exists, err := s.db.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	return &models.UserProfile{
		ID:     usr.ID,
		LinkID: usr.LinkID,
		Name:   usr.Name,
		Email:  usr.Email,
	}, nil
}

// SubmitFeedback stores an anonymous submission against linkID.
// The link identifier is not checked for existence.
func (s *Service) SubmitFeedback(
	ctx context.Context,
	linkID string,
	request *models.SubmitFormRequest,
) error {
	return s.db.CreateSubmission(
		ctx,
		&models.Submission{
			LinkID:    linkID,
			Name:      request.Name,
			Like:      request.Like,
			Dislike:   request.Dislike,
			Paragraph: request.Paragraph,
			Anonymous: request.Anonymous,
		},
	)
}

// SubmissionsForLink lists the submissions tied to a link identifier in
// insertion order.
func (s *Service) SubmissionsForLink(ctx context.Context, linkID string) ([]models.Submission, error) {
	return s.db.FindSubmissionsByLinkID(ctx, linkID)
}

// SubmissionsForUser resolves the caller's link identifier through their
// user record and lists the matching submissions. A vanished user yields an
// empty list.
func (s *Service) SubmissionsForUser(ctx context.Context, userID string) ([]models.Submission, error) {
	usr, exists, err := s.db.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []models.Submission{}, nil
	}

	return s.db.FindSubmissionsByLinkID(ctx, usr.LinkID)
}

// Stats reports the totals of users and submissions.
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	users, err := s.db.GetNumberOfUsers(ctx)
	if err != nil {
		return nil, err
	}

	submissions, err := s.db.GetNumberOfSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{
		Users:       users,
		Submissions: submissions,
	}, nil
}
