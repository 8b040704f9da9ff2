// Copyright (c) 2026 Minbar. All rights reserved.

package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/middleware"
	requestutil "github.com/minbarhq/minbar/internal/platform/request"
	"github.com/minbarhq/minbar/internal/platform/respond"
	"github.com/minbarhq/minbar/internal/platform/session"
	"github.com/minbarhq/minbar/internal/platform/validate"
)

// SessionManager issues and revokes login sessions.
type SessionManager interface {
	Issue(writer http.ResponseWriter, request *http.Request, identity session.Identity) (session.Identity, error)
	Destroy(writer http.ResponseWriter, request *http.Request) error
	DestroyAll(context context.Context, userID string) (int, error)
	ClearCookie(writer http.ResponseWriter)
}

// # Definitions & Constructors

// Handler implements the /auth endpoints.
type Handler struct {
	authService *Service
	sessions    SessionManager
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, sessions SessionManager) *Handler {
	return &Handler{authService: service, sessions: sessions}
}

// Routes returns the authentication router.
//
// # Endpoints
//   - POST /signup     : Creates a community account.
//   - POST /login      : Verifies credentials and sets the session cookie.
//   - POST /logout     : Ends the current session.
//   - POST /logout-all : Ends every session of the caller.
//   - POST /token      : Issues a bearer access token for the current session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/logout-all", handler.logoutAll)
		r.Post("/token", handler.token)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32,username"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

/*
Signup creates a new community account.

POST /api/v1/auth/signup

Request:
  - Body: signupRequest

Response:
  - 201: User
  - 400: Validation failure
  - 409: Username or email already exists
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validate.Struct(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a cookie session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Login is an email or username)

Response:
  - 200: User, with the session cookie set
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).
		Required(FieldPassword, input.Password).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Login(request.Context(), input.Login, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err = handler.sessions.Issue(writer, request, session.Identity{
		UserID:    user.ID,
		Role:      string(user.Role),
		UserAgent: request.UserAgent(),
		IP:        middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Response:
  - 204: Session removed and cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.sessions.Destroy(writer, request); err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_destroy_failed", slog.Any("error", err))
		handler.sessions.ClearCookie(writer)
	}

	respond.NoContent(writer)
}

/*
LogoutAll terminates every session of the caller, on every device.

POST /api/v1/auth/logout-all

Response:
  - 204: All sessions removed
*/
func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	removed, err := handler.sessions.DestroyAll(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).Info("sessions_revoked", slog.Int("count", removed))
	handler.sessions.ClearCookie(writer)
	respond.NoContent(writer)
}

/*
Token issues a short-lived bearer token for the authenticated caller.

POST /api/v1/auth/token

Response:
  - 200: AccessToken
  - 503: Bearer tokens are not configured
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accessToken, err := handler.authService.IssueAccessToken(claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, accessToken)
}
