// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package identity (Postgres) implements the storage layer for the user directory.

# Schema Table Mapping
  - users.account: Master identity and profile data.
*/
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkup-app/linkup/internal/platform/database/schema"
	"github.com/linkup-app/linkup/internal/platform/dberr"
)

// # Repository Implementations

// PostgresDirectory implements [Directory] using pgx.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new Postgres implementation of the user directory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// # Directory Methods

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresDirectory) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table,
		schema.UserAccount.ID,
	)

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Name,
		&user.AvatarURL,
		&user.Bio,
		&user.Interests,
		&user.Photos,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "postgres_directory_find_by_id")
	}

	return user, nil
}

/*
FindByTelegramID retrieves a user record by their Telegram identifier.

Parameters:
  - context: context.Context
  - telegramID: int64

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresDirectory) FindByTelegramID(context context.Context, telegramID int64) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table,
		schema.UserAccount.TelegramID,
	)

	user := &User{}
	err := repository.pool.QueryRow(context, query, telegramID).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Name,
		&user.AvatarURL,
		&user.Bio,
		&user.Interests,
		&user.Photos,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "postgres_directory_find_by_telegram_id")
	}

	return user, nil
}

/*
Insert persists a brand-new user row.

Description: The Telegram ID column carries a UNIQUE constraint; a concurrent
insert for the same Telegram ID surfaces as apperr.Conflict, which the caller
resolves by re-fetching the winning row.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict or execution failures
*/
func (repository *PostgresDirectory) Insert(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table,
		strings.Join(schema.UserAccount.Columns(), ", "),
	)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.TelegramID,
		user.Name,
		user.AvatarURL,
		user.Bio,
		user.Interests,
		user.Photos,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// If the insert fails, return an error
	if err != nil {
		return dberr.Wrap(err, "postgres_directory_insert")
	}

	return nil
}

/*
Update modifies the mutable profile metadata of a user.

Description: This method syncs the Name, AvatarURL, Bio, Interests, and Photos
fields, while refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresDirectory) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Name, schema.UserAccount.AvatarURL, schema.UserAccount.Bio,
		schema.UserAccount.Interests, schema.UserAccount.Photos, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	now := time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.AvatarURL,
		user.Bio,
		user.Interests,
		user.Photos,
		now,
	)

	// If the update fails, return an error
	if err != nil {
		return dberr.Wrap(err, "postgres_directory_update")
	}

	user.UpdatedAt = now
	return nil
}
