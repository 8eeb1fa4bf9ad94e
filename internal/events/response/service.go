// Copyright (c) 2026 LinkUp. All rights reserved.

package response

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkup-app/linkup/internal/events/event"
	"github.com/linkup-app/linkup/internal/notify"
	"github.com/linkup-app/linkup/internal/platform/apperr"
	"github.com/linkup-app/linkup/internal/users/identity"
	uuidutil "github.com/linkup-app/linkup/pkg/uuid"
)

// notifyTimeout bounds each fire-and-forget delivery.
const notifyTimeout = 10 * time.Second

// # Service Layer

// Service orchestrates business logic for join requests.
//
// It enforces that only open events of other users accept responses, that one
// user responds at most once per event, and that only the event creator
// reviews responses.
type Service struct {
	store     Store
	events    event.Store
	directory identity.Directory
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewService constructs a new response [Service].
func NewService(
	store Store,
	events event.Store,
	directory identity.Directory,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:     store,
		events:    events,
		directory: directory,
		notifier:  notifier,
		logger:    logger,
	}
}

// # Response Lifecycle

/*
Create files a pending join request to an event.

Description: The event must exist and be open, and the caller must not be its
creator. A repeat response to the same event surfaces as 409. On success the
event creator is notified; delivery runs detached from the request.

Parameters:
  - context: context.Context
  - userID: string (Authenticated responder)
  - eventID: string

Returns:
  - *Response: The created response with status pending
  - error: apperr.NotFound, apperr.BadRequest, apperr.Conflict, or storage failures
*/
func (service *Service) Create(context stdctx.Context, userID, eventID string) (*Response, error) {
	target, err := service.events.FindByID(context, eventID)
	if err != nil {
		return nil, fmt.Errorf("response_service_create_event_lookup_failed: %w", err)
	}

	// Business: a closed event accepts no further responses
	if !target.IsOpen {
		return nil, apperr.BadRequest("This event is closed for responses")
	}

	// Business: the creator is already a participant of their own event
	if target.CreatorID == userID {
		return nil, apperr.BadRequest("You cannot respond to your own event")
	}

	response := &Response{
		ID:          uuidutil.New(),
		EventID:     eventID,
		UserID:      userID,
		Status:      StatusPending,
		RespondedAt: time.Now(),
	}

	if err := service.store.Insert(context, response); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("You have already responded to this event")
		}
		return nil, fmt.Errorf("response_service_create_failed: %w", err)
	}

	service.logger.Info("response_created",
		slog.String("response_id", response.ID),
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)

	service.notifyCreator(target, userID)

	return response, nil
}

/*
ListByEvent retrieves all responses to an event for its creator.

Parameters:
  - context: context.Context
  - actorID: string (Authenticated user)
  - eventID: string

Returns:
  - []*Response: Responses with responder profiles embedded
  - error: apperr.Forbidden for non-creators, or storage failures
*/
func (service *Service) ListByEvent(context stdctx.Context, actorID, eventID string) ([]*Response, error) {
	target, err := service.events.FindByID(context, eventID)
	if err != nil {
		return nil, fmt.Errorf("response_service_list_event_lookup_failed: %w", err)
	}

	// Security: only the creator reviews who wants to join
	if target.CreatorID != actorID {
		return nil, apperr.Forbidden("Only the event creator can view responses")
	}

	responses, err := service.store.ListByEvent(context, eventID)
	if err != nil {
		return nil, fmt.Errorf("response_service_list_by_event_failed: %w", err)
	}

	return responses, nil
}

/*
ListByUser retrieves every response a user has made.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Response: The user's responses, newest first
  - error: Storage failures
*/
func (service *Service) ListByUser(context stdctx.Context, userID string) ([]*Response, error) {
	responses, err := service.store.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("response_service_list_by_user_failed: %w", err)
	}
	return responses, nil
}

/*
UpdateStatus lets an event creator accept or reject a join request.

Description: Only the creator of the response's event may change its status.
Acceptance notifies the responder with an invitation; delivery runs detached
from the request.

Parameters:
  - context: context.Context
  - actorID: string (Authenticated user)
  - responseID: string
  - status: string (accepted, rejected, or pending)

Returns:
  - *Response: The updated response
  - error: apperr.Forbidden, validation, or storage failures
*/
func (service *Service) UpdateStatus(context stdctx.Context, actorID, responseID, status string) (*Response, error) {
	response, err := service.store.FindByID(context, responseID)
	if err != nil {
		return nil, fmt.Errorf("response_service_update_lookup_failed: %w", err)
	}

	target, err := service.events.FindByID(context, response.EventID)
	if err != nil {
		return nil, fmt.Errorf("response_service_update_event_lookup_failed: %w", err)
	}

	// Security: only the event creator decides who joins
	if target.CreatorID != actorID {
		return nil, apperr.Forbidden("Only the event creator can review responses")
	}

	if err := service.store.UpdateStatus(context, responseID, status); err != nil {
		return nil, fmt.Errorf("response_service_update_status_failed: %w", err)
	}

	response.Status = status
	response.RespondedAt = time.Now()

	service.logger.Info("response_status_updated",
		slog.String("response_id", responseID),
		slog.String("status", status),
	)

	if status == StatusAccepted {
		service.notifyResponder(response.UserID, target.Title)
	}

	return response, nil
}

// # Notification Fan-Out

// notifyCreator tells the event creator about a new join request, detached
// from the request lifecycle.
func (service *Service) notifyCreator(target *event.Event, responderID string) {
	go func() {
		context, cancel := stdctx.WithTimeout(stdctx.Background(), notifyTimeout)
		defer cancel()

		creator, err := service.directory.FindByID(context, target.CreatorID)
		if err != nil {
			service.logger.Warn("response_notify_creator_lookup_failed",
				slog.String("event_id", target.ID),
				slog.String("error", err.Error()),
			)
			return
		}

		responderName := "Someone"
		if responder, err := service.directory.FindByID(context, responderID); err == nil {
			responderName = responder.Name
		}

		if err := service.notifier.ResponseReceived(context, creator.TelegramID, target.Title, responderName); err != nil {
			service.logger.Warn("response_notify_creator_failed",
				slog.String("event_id", target.ID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// notifyResponder sends the invitation for an accepted response, detached
// from the request lifecycle.
func (service *Service) notifyResponder(responderID, eventTitle string) {
	go func() {
		context, cancel := stdctx.WithTimeout(stdctx.Background(), notifyTimeout)
		defer cancel()

		responder, err := service.directory.FindByID(context, responderID)
		if err != nil {
			service.logger.Warn("response_notify_responder_lookup_failed",
				slog.String("user_id", responderID),
				slog.String("error", err.Error()),
			)
			return
		}

		if err := service.notifier.EventInvitation(context, responder.TelegramID, eventTitle); err != nil {
			service.logger.Warn("response_notify_responder_failed",
				slog.String("user_id", responderID),
				slog.String("error", err.Error()),
			)
		}
	}()
}
