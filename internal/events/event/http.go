// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package event provides the HTTP delivery layer for events.

# Security

Creation and mutation require an authenticated session; discovery endpoints
are public.
*/
package event

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkup-app/linkup/internal/platform/apperr"
	requestutil "github.com/linkup-app/linkup/internal/platform/request"
	"github.com/linkup-app/linkup/internal/platform/respond"
	"github.com/linkup-app/linkup/internal/platform/validate"
	"github.com/linkup-app/linkup/pkg/pagination"
)

// Handler implements the HTTP layer for events.
type Handler struct {
	eventService *Service
	requireAuth  func(http.Handler) http.Handler
}

// NewHandler constructs a new event [Handler].
func NewHandler(service *Service, requireAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{
		eventService: service,
		requireAuth:  requireAuth,
	}
}

// Routes returns a [chi.Router] configured with the event domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Discovery
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/user/{user_id}", handler.listByUser)

	// Lifecycle (auth required)
	router.Group(func(protected chi.Router) {
		protected.Use(handler.requireAuth)
		protected.Post("/", handler.create)
		protected.Put("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

// # Lifecycle Endpoints

// createEventRequest defines the expected JSON payload for event creation.
type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EventType   string    `json:"event_type"`
	IsOpen      *bool     `json:"is_open"`
}

/*
POST /api/v1/events.

Description: Creates an event owned by the authenticated user.

Request:
  - body: createEventRequest

Response:
  - 201: Event: The created event
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createEventRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("title", input.Title).
		MaxLen("title", input.Title, 200).
		MaxLen("description", input.Description, 2000).
		MaxLen("location", input.Location, 200).
		Custom("starts_at", input.StartsAt.IsZero(), "starts_at is required")
	if input.EventType != "" {
		v.OneOf("event_type", input.EventType, Types...)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Create(request.Context(), userID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EventType:   input.EventType,
		IsOpen:      input.IsOpen,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, event)
}

// # Discovery Endpoints

/*
GET /api/v1/events.

Description: Lists events for discovery, filtered and paginated.

Request:
  - type: string (Optional exact event type)
  - location: string (Optional case-insensitive substring)
  - is_open: bool (Optional)
  - page, limit: int (Pagination)

Response:
  - 200: []Event with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		EventType: request.URL.Query().Get("type"),
		Location:  request.URL.Query().Get("location"),
	}
	if raw := request.URL.Query().Get("is_open"); raw != "" {
		if isOpen, err := strconv.ParseBool(raw); err == nil {
			filter.IsOpen = &isOpen
		}
	}

	events, total, err := handler.eventService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, events, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/events/{id}.

Description: Retrieves a single event with its creator profile embedded.

Request:
  - id: string (UUID)

Response:
  - 200: Event: Hydrated event
  - 404: ErrNotFound: Event not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {

	// Get event ID
	eventID := chi.URLParam(request, "id")

	// If the event ID is empty, return an error
	if eventID == "" {
		respond.Error(writer, request, apperr.NotFound("Event"))
		return
	}

	event, err := handler.eventService.Get(request.Context(), eventID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

/*
GET /api/v1/events/user/{user_id}.

Description: Retrieves all events created by a specific user.

Request:
  - user_id: string (UUID)

Response:
  - 200: []Event: Events created by the user, newest first
*/
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "user_id")
	if userID == "" {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	events, err := handler.eventService.ListByCreator(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, events)
}

// updateEventRequest defines the expected JSON payload for event updates.
type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EventType   *string    `json:"event_type"`
	IsOpen      *bool      `json:"is_open"`
}

/*
PUT /api/v1/events/{id}.

Description: Applies partial updates to an event. Creator-only; accepted
responders are notified of the change.

Request:
  - id: string (UUID)
  - body: updateEventRequest (Partial JSON)

Response:
  - 200: Event: The updated event
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not the creator
  - 404: ErrNotFound: Event not found
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	eventID := chi.URLParam(request, "id")

	var input updateEventRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Title != nil {
		v.Required("title", *input.Title).MaxLen("title", *input.Title, 200)
	}
	if input.Description != nil {
		v.MaxLen("description", *input.Description, 2000)
	}
	if input.Location != nil {
		v.MaxLen("location", *input.Location, 200)
	}
	if input.EventType != nil {
		v.OneOf("event_type", *input.EventType, Types...)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Update(request.Context(), userID, eventID, UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EventType:   input.EventType,
		IsOpen:      input.IsOpen,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

/*
DELETE /api/v1/events/{id}.

Description: Deletes an event and all responses to it. Creator-only.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Event deleted
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Caller is not the creator
  - 404: ErrNotFound: Event not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	eventID := chi.URLParam(request, "id")

	if err := handler.eventService.Delete(request.Context(), userID, eventID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
