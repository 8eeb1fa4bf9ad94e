// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package event handles the lifecycle of social events.

It provides creation, discovery with filters, and creator-only mutation of
events, and fans out change notifications to accepted responders.

# Architecture

  - Entities: Event.
  - Domain: Depends on the identity package for the creator profile and on
    the notify package for out-of-band delivery.
  - Authorization: mutations are restricted to the event creator.
*/
package event

import (
	"context"
	"time"

	"github.com/linkup-app/linkup/internal/users/identity"
)

// # Domain Entities

// EventType values accepted for classification and filtering.
const (
	TypeSport   = "sport"
	TypeCulture = "culture"
	TypeFood    = "food"
	TypeTravel  = "travel"
	TypeCustom  = "custom"
)

// Types lists every accepted event type.
var Types = []string{TypeSport, TypeCulture, TypeFood, TypeTravel, TypeCustom}

// Event represents a social activity a user hosts for others to join.
type Event struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EventType   string    `json:"event_type"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Creator is hydrated on single-event reads, not on list queries.
	Creator *identity.User `json:"creator,omitempty"`
}

// Filter narrows event discovery queries.
type Filter struct {
	EventType string // exact match
	Location  string // case-insensitive substring
	IsOpen    *bool
}

// # Repository Contracts

// Store defines the persistence contract for events.
type Store interface {
	/*
		FindByID retrieves a single event.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Event: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Event, error)

	/*
		List retrieves events matching a filter, newest first.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Event: Page of events
		  - int: Total count matching the filter
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error)

	/*
		ListByCreator retrieves every event created by a user, newest first.

		Parameters:
		  - context: context.Context
		  - creatorID: string

		Returns:
		  - []*Event: Events created by the user
		  - error: Storage failures
	*/
	ListByCreator(context context.Context, creatorID string) ([]*Event, error)

	/*
		Insert persists a new event.

		Parameters:
		  - context: context.Context
		  - event: *Event (Hydrated entity, ID pre-assigned)

		Returns:
		  - error: Constraint or storage failures
	*/
	Insert(context context.Context, event *Event) error

	/*
		Update persists the mutable fields of an event.

		Parameters:
		  - context: context.Context
		  - event: *Event

		Returns:
		  - error: Storage failures
	*/
	Update(context context.Context, event *Event) error

	/*
		Delete removes an event. Responses cascade at the database level.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Storage failures
	*/
	Delete(context context.Context, id string) error
}

// ResponderSource reports who has been accepted into an event.
//
// Implemented by the response package; declared here so the event service can
// notify accepted responders without a package cycle.
type ResponderSource interface {
	AcceptedTelegramIDs(context context.Context, eventID string) ([]int64, error)
}
