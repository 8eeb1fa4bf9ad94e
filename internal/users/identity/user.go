// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package identity manages user accounts and the persistent user directory.

It owns the User entity, idempotent registration keyed by Telegram ID, and
partial profile updates for the mini-app frontend.

# Architecture

  - Entities: User.
  - Storage: Directory (Postgres), with a Redis read-through cache layered
    on top of Telegram ID lookups by the telegram package.
  - Delivery: REST handlers mounted under /api/v1/users.
*/
package identity

import (
	"context"
	"time"
)

// # Domain Entities

// User represents a registered participant of the application.
//
// Every user originates from a Telegram identity assertion; TelegramID is the
// stable external key while ID is the internal primary key.
type User struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url"`
	Bio        string    `json:"bio"`
	Interests  []string  `json:"interests"`
	Photos     []string  `json:"photos"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// # Repository Contracts

// Directory defines the persistence contract for the user directory.
type Directory interface {
	/*
		FindByID retrieves a user record by their internal ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByTelegramID retrieves a user record by their Telegram identifier.

		Parameters:
		  - context: context.Context
		  - telegramID: int64

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByTelegramID(context context.Context, telegramID int64) (*User, error)

	/*
		Insert persists a brand-new user row.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity, ID pre-assigned)

		Returns:
		  - error: apperr.Conflict on a duplicate Telegram ID, or storage failures
	*/
	Insert(context context.Context, user *User) error

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *User) error
}
