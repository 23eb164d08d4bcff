package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SalmanGits/link-sharing-be/internal/credentials"
	"github.com/SalmanGits/link-sharing-be/internal/logger"
	"github.com/SalmanGits/link-sharing-be/internal/models"
)

var testSecret = []byte("auth-test-signing-secret")

func newGatedHandler(t *testing.T, tokenTTL time.Duration) (http.Handler, *credentials.Credentials, *string) {
	t.Helper()

	require.NoError(t, logger.Init("debug"))

	theCredentials := credentials.New(testSecret, tokenTTL)
	theAuth := New(theCredentials)

	var seenUserID string
	handler := theAuth.Authenticate(http.HandlerFunc(
		func(response http.ResponseWriter, request *http.Request) {
			seenUserID, _ = request.Context().Value(UserIDKey).(string)
			response.WriteHeader(http.StatusOK)
		},
	))

	return handler, theCredentials, &seenUserID
}

func decodeAuthError(t *testing.T, recorder *httptest.ResponseRecorder) models.AuthErrorResponse {
	t.Helper()

	result := models.AuthErrorResponse{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))

	return result
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler, _, seenUserID := newGatedHandler(t, 0)

	request := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Token is needed", decodeAuthError(t, recorder).Message)
	assert.Empty(t, *seenUserID)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	handler, _, seenUserID := newGatedHandler(t, 0)

	request := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	request.Header.Set("Authorization", "tampered.token.value")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Invalid token", decodeAuthError(t, recorder).Message)
	assert.Empty(t, *seenUserID)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	handler, theCredentials, seenUserID := newGatedHandler(t, -time.Minute)

	token, err := theCredentials.IssueToken("some-user-id")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	request.Header.Set("Authorization", token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Token expired", decodeAuthError(t, recorder).Message)
	assert.Empty(t, *seenUserID)
}

func TestAuthenticateValidToken(t *testing.T) {
	handler, theCredentials, seenUserID := newGatedHandler(t, 0)

	token, err := theCredentials.IssueToken("some-user-id")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	request.Header.Set("Authorization", token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "some-user-id", *seenUserID)
}
