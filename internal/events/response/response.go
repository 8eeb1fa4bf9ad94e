// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package response handles join requests for events.

A response is one user's request to participate in another user's event. It
starts pending and is accepted or rejected by the event creator.

# Architecture

  - Entities: Response.
  - Domain: Depends on the event package for existence and authorization
    checks, and on the notify package for out-of-band delivery.
  - Uniqueness: one response per (event, user), enforced by the database.
*/
package response

import (
	"context"
	"time"

	"github.com/linkup-app/linkup/internal/users/identity"
)

// # Domain Entities

// Response status values.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Statuses lists every accepted response status.
var Statuses = []string{StatusPending, StatusAccepted, StatusRejected}

// Response represents one user's request to join an event.
type Response struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	RespondedAt time.Time `json:"responded_at"`

	// User is hydrated on creator-facing listings.
	User *identity.User `json:"user,omitempty"`
}

// # Repository Contracts

// Store defines the persistence contract for responses.
type Store interface {
	/*
		FindByID retrieves a single response.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Response: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Response, error)

	/*
		ListByEvent retrieves all responses to an event with responder
		profiles embedded, newest first.

		Parameters:
		  - context: context.Context
		  - eventID: string

		Returns:
		  - []*Response: Responses with hydrated User fields
		  - error: Storage failures
	*/
	ListByEvent(context context.Context, eventID string) ([]*Response, error)

	/*
		ListByUser retrieves every response a user has made, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Response: The user's responses
		  - error: Storage failures
	*/
	ListByUser(context context.Context, userID string) ([]*Response, error)

	/*
		Insert persists a new response.

		Parameters:
		  - context: context.Context
		  - response: *Response (Hydrated entity, ID pre-assigned)

		Returns:
		  - error: apperr.Conflict on a duplicate (event, user) pair, or
		    storage failures
	*/
	Insert(context context.Context, response *Response) error

	/*
		UpdateStatus changes the status of a response.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: string

		Returns:
		  - error: Storage failures
	*/
	UpdateStatus(context context.Context, id, status string) error

	/*
		AcceptedTelegramIDs lists the Telegram IDs of every accepted
		responder to an event.

		Parameters:
		  - context: context.Context
		  - eventID: string

		Returns:
		  - []int64: Telegram IDs of accepted responders
		  - error: Storage failures
	*/
	AcceptedTelegramIDs(context context.Context, eventID string) ([]int64, error)
}
