// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package identity provides the HTTP delivery layer for user management.

It implements the RESTful interface for registration, profile lookup, and
partial profile updates.

# Security

Profile mutations require an authenticated session; a user may only modify
their own account. The Telegram sign-in endpoint is mounted here but its
implementation is injected by the composition root to keep the authentication
flow in its own package.
*/
package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkup-app/linkup/internal/platform/apperr"
	requestutil "github.com/linkup-app/linkup/internal/platform/request"
	"github.com/linkup-app/linkup/internal/platform/respond"
	"github.com/linkup-app/linkup/internal/platform/validate"
)

// Handler implements the HTTP layer for the user directory.
type Handler struct {
	identityService *Service
	authenticate    http.HandlerFunc
	requireAuth     func(http.Handler) http.Handler
}

// NewHandler constructs a new identity [Handler].
//
// authenticate is the Telegram sign-in endpoint; requireAuth is the middleware
// guarding profile mutations.
func NewHandler(service *Service, authenticate http.HandlerFunc, requireAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{
		identityService: service,
		authenticate:    authenticate,
		requireAuth:     requireAuth,
	}
}

// Routes returns a [chi.Router] configured with the identity domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Telegram sign-in
	router.Post("/auth", handler.authenticate)

	// Registration and discovery
	router.Post("/", handler.register)
	router.Get("/{id}", handler.getUser)
	router.Get("/telegram/{telegram_id}", handler.getUserByTelegramID)

	// Profile mutation (owner only)
	router.Group(func(protected chi.Router) {
		protected.Use(handler.requireAuth)
		protected.Put("/{id}", handler.updateUser)
	})

	return router
}

// # Registration Endpoints

// registerRequest defines the expected JSON payload for user registration.
type registerRequest struct {
	TelegramID int64    `json:"telegram_id"`
	Name       string   `json:"name"`
	AvatarURL  string   `json:"avatar_url"`
	Bio        string   `json:"bio"`
	Interests  []string `json:"interests"`
	Photos     []string `json:"photos"`
}

/*
POST /api/v1/users.

Description: Registers a user for a Telegram identity. The operation is
idempotent: a repeat call with an already registered Telegram ID returns the
stored profile untouched.

Request:
  - body: registerRequest

Response:
  - 201: User: A new account was created
  - 200: User: The Telegram ID was already registered
  - 400: ErrInvalidJSON/Validation: Invalid input data
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Custom("telegram_id", input.TelegramID == 0, "telegram_id is required").
		Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		MaxLen("bio", input.Bio, 500)
	if input.AvatarURL != "" {
		v.URL("avatar_url", input.AvatarURL)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, created, err := handler.identityService.Register(request.Context(), RegisterInput{
		TelegramID: input.TelegramID,
		Name:       input.Name,
		AvatarURL:  input.AvatarURL,
		Bio:        input.Bio,
		Interests:  input.Interests,
		Photos:     input.Photos,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, user)
		return
	}

	respond.OK(writer, user)
}

// # Profile Endpoints

/*
GET /api/v1/users/{id}.

Description: Retrieves profile information for a specific user.

Request:
  - id: string (UUID)

Response:
  - 200: User: Profile data
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {

	// Get user ID
	userID := chi.URLParam(request, "id")

	// If the user ID is empty, return an error
	if userID == "" {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	// Get user profile
	user, err := handler.identityService.Get(request.Context(), userID)

	// If the user is not found, return an error
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/telegram/{telegram_id}.

Description: Retrieves a user profile via their Telegram identifier, which is
how the mini-app frontend bootstraps before it holds an internal user ID.

Request:
  - telegram_id: int64

Response:
  - 200: User: Profile data
  - 400: Validation: Malformed Telegram ID
  - 404: ErrNotFound: No account for this Telegram ID
*/
func (handler *Handler) getUserByTelegramID(writer http.ResponseWriter, request *http.Request) {
	telegramID, err := requestutil.Int64Param(request, "telegram_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.GetByTelegramID(request.Context(), telegramID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateUserRequest defines the expected JSON payload for profile updates.
type updateUserRequest struct {
	Name      *string   `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       *string   `json:"bio"`
	Interests *[]string `json:"interests"`
	Photos    *[]string `json:"photos"`
}

/*
PUT /api/v1/users/{id}.

Description: Applies partial updates to a user's profile. Only the account
owner may modify their own record.

Request:
  - id: string (UUID)
  - body: updateUserRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Attempt to modify another user's profile
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	authUserID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := chi.URLParam(request, "id")

	// Security: the token subject must own the target account
	if targetID != authUserID {
		respond.Error(writer, request, apperr.Forbidden("You can only modify your own profile"))
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.Required("name", *input.Name).MaxLen("name", *input.Name, 100)
	}
	if input.Bio != nil {
		v.MaxLen("bio", *input.Bio, 500)
	}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		v.URL("avatar_url", *input.AvatarURL)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.UpdateProfile(request.Context(), targetID, UpdateProfileInput{
		Name:      input.Name,
		AvatarURL: input.AvatarURL,
		Bio:       input.Bio,
		Interests: input.Interests,
		Photos:    input.Photos,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
