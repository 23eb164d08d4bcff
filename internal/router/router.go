// Package router wires the HTTP API surface: it decodes and validates
// request bodies, delegates to the service layer, and maps service errors
// onto the HTTP error taxonomy.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SalmanGits/link-sharing-be/internal/auth"
	"github.com/SalmanGits/link-sharing-be/internal/authenticator"
	"github.com/SalmanGits/link-sharing-be/internal/gzippedhttp"
	"github.com/SalmanGits/link-sharing-be/internal/ipchecker"
	"github.com/SalmanGits/link-sharing-be/internal/logger"
	"github.com/SalmanGits/link-sharing-be/internal/models"
	"github.com/SalmanGits/link-sharing-be/internal/service"
)

type feedbackService interface {
	CreateLink() string

	Signup(ctx context.Context, request *models.SignupRequest) (*models.SignupResponse, error)

	Login(ctx context.Context, request *models.LoginRequest) (*models.LoginResponse, error)

	Profile(ctx context.Context, userID string) (*models.UserProfile, error)

	SubmitFeedback(ctx context.Context, linkID string, request *models.SubmitFormRequest) error

	SubmissionsForLink(ctx context.Context, linkID string) ([]models.Submission, error)

	SubmissionsForUser(ctx context.Context, userID string) ([]models.Submission, error)

	Stats(ctx context.Context) (*models.StatsResponse, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Router holds the HTTP handlers of the API surface.
type Router struct {
	service   feedbackService
	pinger    pinger
	ipChecker *ipchecker.IPChecker
	validate  *validator.Validate
}

// New builds the chi mux with all endpoints, logging and gzip middleware,
// and the access gate on owner-only routes.
func New(
	svc feedbackService,
	db pinger,
	authGate authenticator.Authenticator,
	ipChecker *ipchecker.IPChecker,
) *chi.Mux {
	theRouter := &Router{
		service:   svc,
		pinger:    db,
		ipChecker: ipChecker,
		validate:  validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)

	router.Post(`/api/create-link`, theRouter.PostAPICreateLink)
	router.Post(`/api/submit-form/{linkId}`, theRouter.PostAPISubmitForm)
	router.Get(`/api/submissions/{linkId}`, theRouter.GetAPISubmissionsByLink)
	router.Post(`/api/signup`, theRouter.PostAPISignup)
	router.Post(`/api/login`, theRouter.PostAPILogin)
	router.With(authGate.Authenticate).Get(`/api/profile`, theRouter.GetAPIProfile)
	router.With(authGate.Authenticate).Get(`/api/submissions`, theRouter.GetAPISubmissions)
	router.Get(`/api/internal/stats`, theRouter.GetAPIInternalStats)
	router.Get(`/ping`, theRouter.GetPing)

	return router
}

// PostAPICreateLink issues a fresh link identifier. The identifier is not
// persisted: it only gains an owner when referenced at signup.
func (r *Router) PostAPICreateLink(response http.ResponseWriter, request *http.Request) {
	writeJSONResponse(
		response,
		http.StatusOK,
		models.CreateLinkResponse{LinkID: r.service.CreateLink()},
	)
}

// PostAPISubmitForm stores an anonymous feedback submission against the
// link identifier from the path.
func (r *Router) PostAPISubmitForm(response http.ResponseWriter, request *http.Request) {
	submitRequest := models.SubmitFormRequest{}
	if err := json.NewDecoder(request.Body).Decode(&submitRequest); err != nil {
		logger.Log.Debugln("Error decoding the submit-form request: ", zap.Error(err))
		writeJSONResponse(
			response,
			http.StatusInternalServerError,
			models.SubmitFormResponse{Success: false, Error: "Internal Server Error"},
		)

		return
	}

	linkID := chi.URLParam(request, "linkId")
	if err := r.service.SubmitFeedback(request.Context(), linkID, &submitRequest); err != nil {
		logger.Log.Debugln("Error calling the `r.service.SubmitFeedback()`: ", zap.Error(err))
		writeJSONResponse(
			response,
			http.StatusInternalServerError,
			models.SubmitFormResponse{Success: false, Error: "Internal Server Error"},
		)

		return
	}

	writeJSONResponse(response, http.StatusOK, models.SubmitFormResponse{Success: true})
}

// GetAPISubmissionsByLink lists the submissions tied to the link identifier
// from the path. This endpoint is public: anyone holding the identifier may
// read its submissions.
func (r *Router) GetAPISubmissionsByLink(response http.ResponseWriter, request *http.Request) {
	linkID := chi.URLParam(request, "linkId")

	submissions, err := r.service.SubmissionsForLink(request.Context(), linkID)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.SubmissionsForLink()`: ", zap.Error(err))
		writeInternalServerError(response)

		return
	}

	writeJSONResponse(response, http.StatusOK, submissions)
}

// PostAPISignup registers a new user and returns the bound link identifier
// together with a session token.
func (r *Router) PostAPISignup(response http.ResponseWriter, request *http.Request) {
	signupRequest := models.SignupRequest{}
	if !r.decodeAndValidate(response, request, &signupRequest) {
		return
	}

	signupResponse, err := r.service.Signup(request.Context(), &signupRequest)
	if errors.Is(err, service.ErrEmailAlreadyTaken) {
		writeJSONResponse(
			response,
			http.StatusBadRequest,
			models.MessageResponse{Message: "Email already exists", Success: false},
		)

		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.Signup()`: ", zap.Error(err))
		writeInternalServerError(response)

		return
	}

	writeJSONResponse(response, http.StatusOK, signupResponse)
}

// PostAPILogin verifies credentials and returns a session token.
func (r *Router) PostAPILogin(response http.ResponseWriter, request *http.Request) {
	loginRequest := models.LoginRequest{}
	if !r.decodeAndValidate(response, request, &loginRequest) {
		return
	}

	loginResponse, err := r.service.Login(request.Context(), &loginRequest)
	if errors.Is(err, service.ErrUnknownEmail) {
		writeJSONResponse(
			response,
			http.StatusBadRequest,
			models.MessageResponse{Message: "User does not exist", Success: false},
		)

		return
	}
	if errors.Is(err, service.ErrWrongCredentials) {
		writeJSONResponse(
			response,
			http.StatusBadRequest,
			models.MessageResponse{Message: "Email or password is wrong", Success: false},
		)

		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.Login()`: ", zap.Error(err))
		writeInternalServerError(response)

		return
	}

	writeJSONResponse(response, http.StatusOK, loginResponse)
}

// GetAPIProfile returns the authenticated user's record. When the record no
// longer exists the user field is null, mirroring the lookup result as-is.
func (r *Router) GetAPIProfile(response http.ResponseWriter, request *http.Request) {
	userID, ok := request.Context().Value(auth.UserIDKey).(string)
	if !ok {
		writeInternalServerError(response)

		return
	}

	profile, err := r.service.Profile(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.Profile()`: ", zap.Error(err))
		writeInternalServerError(response)

		return
	}

	writeJSONResponse(response, http.StatusOK, models.ProfileResponse{User: profile})
}

// GetAPISubmissions lists the submissions collected against the
// authenticated user's own link identifier.
func (r *Router) GetAPISubmissions(response http.ResponseWriter, request *http.Request) {
	userID, ok := request.Context().Value(auth.UserIDKey).(string)
	if !ok {
		writeInternalServerError(response)

		return
	}

	submissions, err := r.service.SubmissionsForUser(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.SubmissionsForUser()`: ", zap.Error(err))
		writeInternalServerError(response)

		return
	}

	writeJSONResponse(response, http.StatusOK, submissions)
}

// GetAPIInternalStats reports service totals. The endpoint is reachable only
// from the trusted subnet configured for internal clients.
func (r *Router) GetAPIInternalStats(response http.ResponseWriter, request *http.Request) {
	if r.ipChecker.IsTrustedSubnetEmpty() {
		response.WriteHeader(http.StatusForbidden)

		return
	}

	clientIP, err := r.ipChecker.GetClientIP(request)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.ipChecker.GetClientIP()`: ", zap.Error(err))
		response.WriteHeader(http.StatusForbidden)

		return
	}

	if !r.ipChecker.Check(clientIP) {
		response.WriteHeader(http.StatusForbidden)

		return
	}

	stats, err := r.service.Stats(request.Context())
	if err != nil {
		logger.Log.Debugln("Error calling the `r.service.Stats()`: ", zap.Error(err))
		writeInternalServerError(response)

		return
	}

	writeJSONResponse(response, http.StatusOK, stats)
}

// GetPing checks the storage backend health.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.pinger.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `r.pinger.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	response.WriteHeader(http.StatusOK)
}

func (r *Router) decodeAndValidate(
	response http.ResponseWriter,
	request *http.Request,
	target interface{},
) bool {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		logger.Log.Debugln("Error decoding the request body: ", zap.Error(err))
		writeJSONResponse(
			response,
			http.StatusBadRequest,
			models.MessageResponse{Message: "Invalid request body", Success: false},
		)

		return false
	}

	if err := r.validate.Struct(target); err != nil {
		writeJSONResponse(
			response,
			http.StatusBadRequest,
			models.MessageResponse{Message: "Invalid request body", Success: false},
		)

		return false
	}

	return true
}

func writeJSONResponse(response http.ResponseWriter, statusCode int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response body: ", zap.Error(err))
	}
}

func writeInternalServerError(response http.ResponseWriter) {
	writeJSONResponse(
		response,
		http.StatusInternalServerError,
		models.InternalErrorResponse{Error: "Internal Server Error"},
	)
}
