// Copyright (c) 2026 LinkUp. All rights reserved.

package event

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkup-app/linkup/internal/notify"
	"github.com/linkup-app/linkup/internal/platform/apperr"
	"github.com/linkup-app/linkup/internal/users/identity"
	"github.com/linkup-app/linkup/pkg/pagination"
	uuidutil "github.com/linkup-app/linkup/pkg/uuid"
)

// notifyTimeout bounds each fire-and-forget delivery fan-out.
const notifyTimeout = 10 * time.Second

// # Service Layer

// Service orchestrates business logic for events.
//
// Mutations are creator-only; updates fan out a change notification to every
// accepted responder without blocking the request.
type Service struct {
	store      Store
	directory  identity.Directory
	responders ResponderSource
	notifier   notify.Notifier
	logger     *slog.Logger
}

// NewService constructs a new event [Service].
func NewService(
	store Store,
	directory identity.Directory,
	responders ResponderSource,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:      store,
		directory:  directory,
		responders: responders,
		notifier:   notifier,
		logger:     logger,
	}
}

// # Event Lifecycle

// CreateInput carries the payload for a new event.
type CreateInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EventType   string
	IsOpen      *bool
}

/*
Create persists a new event owned by the given creator.

Parameters:
  - context: context.Context
  - creatorID: string (From the authenticated session)
  - input: CreateInput

Returns:
  - *Event: The created event
  - error: Storage failures
*/
func (service *Service) Create(context stdctx.Context, creatorID string, input CreateInput) (*Event, error) {
	eventType := input.EventType
	if eventType == "" {
		eventType = TypeCustom
	}

	isOpen := true
	if input.IsOpen != nil {
		isOpen = *input.IsOpen
	}

	now := time.Now()
	event := &Event{
		ID:          uuidutil.New(),
		CreatorID:   creatorID,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EventType:   eventType,
		IsOpen:      isOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.store.Insert(context, event); err != nil {
		return nil, fmt.Errorf("event_service_create_failed: %w", err)
	}

	service.logger.Info("event_created",
		slog.String("event_id", event.ID),
		slog.String("creator_id", creatorID),
	)

	return event, nil
}

/*
List retrieves a filtered page of events for discovery.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []*Event: Page of events, newest first
  - int: Total count matching the filter
  - error: Storage failures
*/
func (service *Service) List(context stdctx.Context, filter Filter, params pagination.Params) ([]*Event, int, error) {
	events, total, err := service.store.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("event_service_list_failed: %w", err)
	}
	return events, total, nil
}

/*
Get retrieves a single event with its creator profile embedded.

Parameters:
  - context: context.Context
  - eventID: string

Returns:
  - *Event: Hydrated event
  - error: Not found or storage failures
*/
func (service *Service) Get(context stdctx.Context, eventID string) (*Event, error) {
	event, err := service.store.FindByID(context, eventID)
	if err != nil {
		return nil, fmt.Errorf("event_service_get_failed: %w", err)
	}

	// Creator hydration is best-effort; the event stands on its own
	if creator, err := service.directory.FindByID(context, event.CreatorID); err == nil {
		event.Creator = creator
	}

	return event, nil
}

/*
ListByCreator retrieves every event created by a user.

Parameters:
  - context: context.Context
  - creatorID: string

Returns:
  - []*Event: Events created by the user, newest first
  - error: Storage failures
*/
func (service *Service) ListByCreator(context stdctx.Context, creatorID string) ([]*Event, error) {
	events, err := service.store.ListByCreator(context, creatorID)
	if err != nil {
		return nil, fmt.Errorf("event_service_list_by_creator_failed: %w", err)
	}
	return events, nil
}

// UpdateInput defines the mutable subset of event fields.
//
// Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EventType   *string
	IsOpen      *bool
}

/*
Update applies a partial set of changes to an event.

Description: Only the creator may update their event. After a successful
write, every accepted responder is notified of the change; delivery runs
detached from the request and failures are logged, not surfaced.

Parameters:
  - context: context.Context
  - actorID: string (Authenticated user)
  - eventID: string
  - input: UpdateInput

Returns:
  - *Event: The updated event
  - error: apperr.Forbidden for non-creators, or storage failures
*/
func (service *Service) Update(context stdctx.Context, actorID, eventID string, input UpdateInput) (*Event, error) {
	event, err := service.store.FindByID(context, eventID)
	if err != nil {
		return nil, fmt.Errorf("event_service_update_lookup_failed: %w", err)
	}

	// Security: only the creator mutates their event
	if event.CreatorID != actorID {
		return nil, apperr.Forbidden("Only the event creator can update this event")
	}

	// Apply delta updates
	if input.Title != nil {
		event.Title = *input.Title
	}

	// Apply delta updates
	if input.Description != nil {
		event.Description = *input.Description
	}

	// Apply delta updates
	if input.Location != nil {
		event.Location = *input.Location
	}

	// Apply delta updates
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}

	// Apply delta updates
	if input.EventType != nil {
		event.EventType = *input.EventType
	}

	// Apply delta updates
	if input.IsOpen != nil {
		event.IsOpen = *input.IsOpen
	}

	// Persist changes
	if err := service.store.Update(context, event); err != nil {
		return nil, fmt.Errorf("event_service_update_failed: %w", err)
	}

	service.logger.Info("event_updated", slog.String("event_id", eventID))

	service.notifyAcceptedResponders(event)

	return event, nil
}

/*
Delete removes an event and, by cascade, all responses to it.

Parameters:
  - context: context.Context
  - actorID: string (Authenticated user)
  - eventID: string

Returns:
  - error: apperr.Forbidden for non-creators, or storage failures
*/
func (service *Service) Delete(context stdctx.Context, actorID, eventID string) error {
	event, err := service.store.FindByID(context, eventID)
	if err != nil {
		return fmt.Errorf("event_service_delete_lookup_failed: %w", err)
	}

	// Security: only the creator deletes their event
	if event.CreatorID != actorID {
		return apperr.Forbidden("Only the event creator can delete this event")
	}

	if err := service.store.Delete(context, eventID); err != nil {
		return fmt.Errorf("event_service_delete_failed: %w", err)
	}

	service.logger.Info("event_deleted", slog.String("event_id", eventID))

	return nil
}

// # Notification Fan-Out

// notifyAcceptedResponders delivers an update notice to every accepted
// responder, detached from the request lifecycle.
func (service *Service) notifyAcceptedResponders(event *Event) {
	go func() {
		context, cancel := stdctx.WithTimeout(stdctx.Background(), notifyTimeout)
		defer cancel()

		telegramIDs, err := service.responders.AcceptedTelegramIDs(context, event.ID)
		if err != nil {
			service.logger.Warn("event_update_fanout_lookup_failed",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()),
			)
			return
		}

		for _, telegramID := range telegramIDs {
			if err := service.notifier.EventUpdated(context, telegramID, event.Title); err != nil {
				service.logger.Warn("event_update_notify_failed",
					slog.String("event_id", event.ID),
					slog.Int64("telegram_id", telegramID),
					slog.String("error", err.Error()),
				)
			}
		}
	}()
}
