package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SalmanGits/link-sharing-be/internal/credentials"
	"github.com/SalmanGits/link-sharing-be/internal/db/memorystorage"
	"github.com/SalmanGits/link-sharing-be/internal/linkid"
	"github.com/SalmanGits/link-sharing-be/internal/mockstorage"
	"github.com/SalmanGits/link-sharing-be/internal/models"
	"github.com/SalmanGits/link-sharing-be/internal/user"
)

var testSecret = []byte("service-test-signing-secret")

func newTestService(t *testing.T) (*Service, *credentials.Credentials, *memorystorage.MemoryStorage) {
	t.Helper()

	db, err := memorystorage.New()
	require.NoError(t, err)

	theCredentials := credentials.New(testSecret, 0)

	return New(db, theCredentials, linkid.Generate), theCredentials, db
}

func signupRequest(email string) *models.SignupRequest {
	return &models.SignupRequest{
		Name:     "alice",
		Email:    email,
		Password: "s3cret",
	}
}

func TestSignupIssuesLinkAndVerifiableToken(t *testing.T) {
	svc, theCredentials, db := newTestService(t)
	ctx := context.Background()

	response, err := svc.Signup(ctx, signupRequest("a@x.com"))
	require.NoError(t, err)
	assert.Len(t, response.LinkID, linkid.Length)
	require.NotEmpty(t, response.Token)

	userID, err := theCredentials.VerifyToken(response.Token)
	require.NoError(t, err)

	usr, found, err := db.FindUserByID(ctx, userID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, response.LinkID, usr.LinkID)
	assert.Equal(t, "a@x.com", usr.Email)
	assert.NotEqual(t, "s3cret", usr.PasswordHash)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest("a@x.com"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupRequest("a@x.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyTaken)

	users, err := db.GetNumberOfUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)
}

func TestLogin(t *testing.T) {
	svc, theCredentials, _ := newTestService(t)
	ctx := context.Background()

	signupResponse, err := svc.Signup(ctx, signupRequest("a@x.com"))
	require.NoError(t, err)

	loginResponse, err := svc.Login(ctx, &models.LoginRequest{Email: "a@x.com", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, loginResponse.Token)

	userIDFromSignup, err := theCredentials.VerifyToken(signupResponse.Token)
	require.NoError(t, err)
	userIDFromLogin, err := theCredentials.VerifyToken(loginResponse.Token)
	require.NoError(t, err)
	assert.Equal(t, userIDFromSignup, userIDFromLogin)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), &models.LoginRequest{Email: "nobody@x.com", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest("a@x.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestProfile(t *testing.T) {
	svc, theCredentials, _ := newTestService(t)
	ctx := context.Background()

	signupResponse, err := svc.Signup(ctx, signupRequest("a@x.com"))
	require.NoError(t, err)
	userID, err := theCredentials.VerifyToken(signupResponse.Token)
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, signupResponse.LinkID, profile.LinkID)
	assert.Equal(t, "a@x.com", profile.Email)
}

func TestProfileForVanishedUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	profile, err := svc.Profile(context.Background(), "nonexistent-id")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestSubmissionsForUserAreScopedToOwnLink(t *testing.T) {
	svc, theCredentials, _ := newTestService(t)
	ctx := context.Background()

	firstSignup, err := svc.Signup(ctx, signupRequest("a@x.com"))
	require.NoError(t, err)
	secondSignup, err := svc.Signup(ctx, &models.SignupRequest{
		Name:     "brenda",
		Email:    "b@x.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SubmitFeedback(ctx, firstSignup.LinkID, &models.SubmitFormRequest{
		Name: "bob", Like: "x", Dislike: "y", Paragraph: "z", Anonymous: true,
	}))
	require.NoError(t, svc.SubmitFeedback(ctx, secondSignup.LinkID, &models.SubmitFormRequest{
		Name: "mallory",
	}))

	firstUserID, err := theCredentials.VerifyToken(firstSignup.Token)
	require.NoError(t, err)

	submissions, err := svc.SubmissionsForUser(ctx, firstUserID)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "bob", submissions[0].Name)
	assert.Equal(t, firstSignup.LinkID, submissions[0].LinkID)
}

func TestSubmissionsForVanishedUserIsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	submissions, err := svc.SubmissionsForUser(context.Background(), "nonexistent-id")
	require.NoError(t, err)
	assert.NotNil(t, submissions)
	assert.Empty(t, submissions)
}

func TestCreateLinkPersistsNothing(t *testing.T) {
	svc, _, db := newTestService(t)

	linkID := svc.CreateLink()
	assert.Len(t, linkID, linkid.Length)

	users, err := db.GetNumberOfUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, users)
}

func TestStats(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	signupResponse, err := svc.Signup(ctx, signupRequest("a@x.com"))
	require.NoError(t, err)
	require.NoError(t, svc.SubmitFeedback(ctx, signupResponse.LinkID, &models.SubmitFormRequest{Name: "bob"}))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Submissions)
}

func TestSignupRollsBackOnDuplicate(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("BeginTransaction").Return(nil, nil)
	db.On("FindUserByEmail", mock.Anything, "a@x.com", mock.Anything).
		Return(&user.User{ID: "existing"}, true, nil)
	db.On("RollbackTransaction", mock.Anything).Return(nil)

	svc := New(db, credentials.New(testSecret, 0), linkid.Generate)

	_, err := svc.Signup(context.Background(), signupRequest("a@x.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyTaken)

	db.AssertCalled(t, "RollbackTransaction", mock.Anything)
	db.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupPropagatesStorageFailure(t *testing.T) {
	db := &mockstorage.StorageMock{}
	storageFailure := errors.New("storage is down")
	db.On("BeginTransaction").Return(nil, nil)
	db.On("FindUserByEmail", mock.Anything, "a@x.com", mock.Anything).
		Return(nil, false, storageFailure)
	db.On("RollbackTransaction", mock.Anything).Return(nil)

	svc := New(db, credentials.New(testSecret, 0), linkid.Generate)

	_, err := svc.Signup(context.Background(), signupRequest("a@x.com"))
	assert.ErrorIs(t, err, storageFailure)
}
