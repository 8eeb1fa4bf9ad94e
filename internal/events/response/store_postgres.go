// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package response (Postgres) implements the storage layer for join requests.

# Schema Table Mapping
  - events.response: Join requests, unique per (event, user).
  - users.account: Joined for responder profiles and Telegram IDs.
*/
package response

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkup-app/linkup/internal/platform/database/schema"
	"github.com/linkup-app/linkup/internal/platform/dberr"
	"github.com/linkup-app/linkup/internal/users/identity"
)

// # Repository Implementations

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation for responses.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// # Store Methods

/*
FindByID retrieves a single response row.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Response: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresStore) FindByID(context context.Context, id string) (*Response, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(schema.EventResponse.Columns(), ", "),
		schema.EventResponse.Table,
		schema.EventResponse.ID,
	)

	response := &Response{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&response.ID,
		&response.EventID,
		&response.UserID,
		&response.Status,
		&response.RespondedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "postgres_response_store_find_by_id")
	}

	return response, nil
}

/*
ListByEvent retrieves every response to an event with responder profiles.

Description: Joins users.account so the event creator sees who wants to join
without a second round trip.

Parameters:
  - context: context.Context
  - eventID: string

Returns:
  - []*Response: Responses with hydrated User fields, newest first
  - error: Database execution failures
*/
func (repository *PostgresStore) ListByEvent(context context.Context, eventID string) ([]*Response, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s,
			u.%s, u.%s, u.%s, u.%s, u.%s, u.%s, u.%s, u.%s, u.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC`,
		schema.EventResponse.ID, schema.EventResponse.EventID, schema.EventResponse.UserID,
		schema.EventResponse.Status, schema.EventResponse.RespondedAt,
		schema.UserAccount.ID, schema.UserAccount.TelegramID, schema.UserAccount.Name,
		schema.UserAccount.AvatarURL, schema.UserAccount.Bio, schema.UserAccount.Interests,
		schema.UserAccount.Photos, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.EventResponse.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.EventResponse.UserID,
		schema.EventResponse.EventID,
		schema.EventResponse.RespondedAt,
	)

	rows, err := repository.pool.Query(context, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("postgres_response_store_list_by_event_failed: %w", err)
	}
	defer rows.Close()

	var responses []*Response
	for rows.Next() {
		response := &Response{User: &identity.User{}}
		err := rows.Scan(
			&response.ID,
			&response.EventID,
			&response.UserID,
			&response.Status,
			&response.RespondedAt,
			&response.User.ID,
			&response.User.TelegramID,
			&response.User.Name,
			&response.User.AvatarURL,
			&response.User.Bio,
			&response.User.Interests,
			&response.User.Photos,
			&response.User.CreatedAt,
			&response.User.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_response_store_list_by_event_scan_failed: %w", err)
		}
		responses = append(responses, response)
	}

	return responses, nil
}

/*
ListByUser retrieves every response a user has made, newest first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Response: The user's responses
  - error: Database execution failures
*/
func (repository *PostgresStore) ListByUser(context context.Context, userID string) ([]*Response, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		strings.Join(schema.EventResponse.Columns(), ", "),
		schema.EventResponse.Table,
		schema.EventResponse.UserID,
		schema.EventResponse.RespondedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_response_store_list_by_user_failed: %w", err)
	}
	defer rows.Close()

	var responses []*Response
	for rows.Next() {
		response := &Response{}
		err := rows.Scan(
			&response.ID,
			&response.EventID,
			&response.UserID,
			&response.Status,
			&response.RespondedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_response_store_list_by_user_scan_failed: %w", err)
		}
		responses = append(responses, response)
	}

	return responses, nil
}

/*
Insert persists a new response row.

Description: The (eventid, userid) pair carries a UNIQUE constraint; a second
response to the same event surfaces as apperr.Conflict.

Parameters:
  - context: context.Context
  - response: *Response

Returns:
  - error: apperr.Conflict or execution failures
*/
func (repository *PostgresStore) Insert(context context.Context, response *Response) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.EventResponse.Table,
		strings.Join(schema.EventResponse.Columns(), ", "),
	)

	_, err := repository.pool.Exec(context, query,
		response.ID,
		response.EventID,
		response.UserID,
		response.Status,
		response.RespondedAt,
	)

	// If the insert fails, return an error
	if err != nil {
		return dberr.Wrap(err, "postgres_response_store_insert")
	}

	return nil
}

/*
UpdateStatus changes the status of a response and refreshes its timestamp.

Parameters:
  - context: context.Context
  - id: string
  - status: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresStore) UpdateStatus(context context.Context, id, status string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.EventResponse.Table,
		schema.EventResponse.Status, schema.EventResponse.RespondedAt,
		schema.EventResponse.ID,
	)

	_, err := repository.pool.Exec(context, query, id, status, time.Now())
	if err != nil {
		return dberr.Wrap(err, "postgres_response_store_update_status")
	}

	return nil
}

/*
AcceptedTelegramIDs lists the Telegram IDs of accepted responders to an event.

Parameters:
  - context: context.Context
  - eventID: string

Returns:
  - []int64: Telegram IDs
  - error: Database execution failures
*/
func (repository *PostgresStore) AcceptedTelegramIDs(context context.Context, eventID string) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT u.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		schema.UserAccount.TelegramID,
		schema.EventResponse.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.EventResponse.UserID,
		schema.EventResponse.EventID, schema.EventResponse.Status,
	)

	rows, err := repository.pool.Query(context, query, eventID, StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("postgres_response_store_accepted_ids_failed: %w", err)
	}
	defer rows.Close()

	var telegramIDs []int64
	for rows.Next() {
		var telegramID int64
		if err := rows.Scan(&telegramID); err != nil {
			return nil, fmt.Errorf("postgres_response_store_accepted_ids_scan_failed: %w", err)
		}
		telegramIDs = append(telegramIDs, telegramID)
	}

	return telegramIDs, nil
}
