// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package response provides the HTTP delivery layer for join requests.

# Security

Creating, reviewing, and deciding responses all require an authenticated
session; listing a user's own responses is public profile data.
*/
package response

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkup-app/linkup/internal/platform/apperr"
	requestutil "github.com/linkup-app/linkup/internal/platform/request"
	"github.com/linkup-app/linkup/internal/platform/respond"
	"github.com/linkup-app/linkup/internal/platform/validate"
)

// Handler implements the HTTP layer for responses.
type Handler struct {
	responseService *Service
	requireAuth     func(http.Handler) http.Handler
}

// NewHandler constructs a new response [Handler].
func NewHandler(service *Service, requireAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{
		responseService: service,
		requireAuth:     requireAuth,
	}
}

// Routes returns a [chi.Router] configured with the response domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/user/{user_id}", handler.listByUser)

	router.Group(func(protected chi.Router) {
		protected.Use(handler.requireAuth)
		protected.Post("/", handler.create)
		protected.Get("/event/{event_id}", handler.listByEvent)
		protected.Put("/{response_id}", handler.updateStatus)
	})

	return router
}

// # Response Endpoints

// createResponseRequest defines the expected JSON payload for a join request.
type createResponseRequest struct {
	EventID string `json:"event_id"`
}

/*
POST /api/v1/responses.

Description: Files a pending join request to an event on behalf of the
authenticated user. The event creator is notified.

Request:
  - body: createResponseRequest

Response:
  - 201: Response: The created response
  - 400: Validation: Closed event or own event
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Event not found
  - 409: ErrConflict: Already responded to this event
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createResponseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("event_id", input.EventID).UUID("event_id", input.EventID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.responseService.Create(request.Context(), userID, input.EventID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, response)
}

/*
GET /api/v1/responses/event/{event_id}.

Description: Lists all responses to an event with responder profiles.
Restricted to the event creator.

Request:
  - event_id: string (UUID)

Response:
  - 200: []Response: Responses with responder profiles
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not the event creator
  - 404: ErrNotFound: Event not found
*/
func (handler *Handler) listByEvent(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	eventID := chi.URLParam(request, "event_id")
	if eventID == "" {
		respond.Error(writer, request, apperr.NotFound("Event"))
		return
	}

	responses, err := handler.responseService.ListByEvent(request.Context(), userID, eventID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, responses)
}

/*
GET /api/v1/responses/user/{user_id}.

Description: Lists every response a user has made.

Request:
  - user_id: string (UUID)

Response:
  - 200: []Response: The user's responses, newest first
*/
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "user_id")
	if userID == "" {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	responses, err := handler.responseService.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, responses)
}

// updateStatusRequest defines the expected JSON payload for a status decision.
type updateStatusRequest struct {
	Status string `json:"status"`
}

/*
PUT /api/v1/responses/{response_id}.

Description: Accepts or rejects a join request. Restricted to the creator of
the response's event; acceptance sends the responder an invitation.

Request:
  - response_id: string (UUID)
  - body: updateStatusRequest

Response:
  - 200: Response: The updated response
  - 400: Validation: Unknown status value
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not the event creator
  - 404: ErrNotFound: Response not found
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	responseID := chi.URLParam(request, "response_id")

	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.OneOf("status", input.Status, Statuses...)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.responseService.UpdateStatus(request.Context(), userID, responseID, input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, response)
}
