// Package auth provides the access gate guarding owner-only endpoints.
// It extracts a session token from the Authorization header, verifies it,
// and attaches the authenticated user ID to the request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/SalmanGits/link-sharing-be/internal/credentials"
	"github.com/SalmanGits/link-sharing-be/internal/logger"
	"github.com/SalmanGits/link-sharing-be/internal/models"
)

type tokenVerifier interface {
	VerifyToken(tokenString string) (string, error)
}

// Auth is the per-request access gate. It holds no session state:
// every request is verified independently against the signing secret.
type Auth struct {
	credentials tokenVerifier
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// New creates a new Auth gate backed by the given token verifier.
func New(credentials tokenVerifier) *Auth {
	return &Auth{
		credentials: credentials,
	}
}

// Authenticate is an HTTP middleware that rejects requests without a valid
// session token. The raw token is expected in the Authorization header,
// without a "Bearer " prefix. A missing header yields 400; an invalid or
// expired token yields 401. On success the downstream handler runs with the
// user ID stored in the request context under UserIDKey.
func (a *Auth) Authenticate(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString := request.Header.Get("Authorization")
		if tokenString == "" {
			writeAuthError(response, http.StatusBadRequest, "Token is needed")

			return
		}

		userID, err := a.credentials.VerifyToken(tokenString)
		if err != nil {
			logger.Log.Debugln("Error calling the `a.credentials.VerifyToken()`: ", zap.Error(err))
			if errors.Is(err, credentials.ErrExpiredToken) {
				writeAuthError(response, http.StatusUnauthorized, "Token expired")

				return
			}
			writeAuthError(response, http.StatusUnauthorized, "Invalid token")

			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		requestWithCtx := request.WithContext(ctx)
		h.ServeHTTP(response, requestWithCtx)
	}

	return http.HandlerFunc(middleware)
}

func writeAuthError(response http.ResponseWriter, statusCode int, message string) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)
	err := json.NewEncoder(response).Encode(models.AuthErrorResponse{Message: message})
	if err != nil {
		logger.Log.Debugln("Error encoding the auth error response: ", zap.Error(err))
	}
}
