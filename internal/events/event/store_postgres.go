// Copyright (c) 2026 LinkUp. All rights reserved.

/*
Package event (Postgres) implements the storage layer for events.

# Schema Table Mapping
  - events.event: Event master data.
*/
package event

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

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation for events.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// # Store Methods

/*
FindByID retrieves a single event row.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Event: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresStore) FindByID(context context.Context, id string) (*Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(schema.Event.Columns(), ", "),
		schema.Event.Table,
		schema.Event.ID,
	)

	event := &Event{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&event.ID,
		&event.CreatorID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.EventType,
		&event.IsOpen,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "postgres_event_store_find_by_id")
	}

	return event, nil
}

/*
List retrieves a filtered, paginated page of events.

Description: Builds a dynamic WHERE clause from the filter and uses a window
function for the total count, so one round trip serves both the page and the
pagination metadata. Results are ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Event: Page of events
  - int: Total count matching the filter
  - error: Database execution failures
*/
func (repository *PostgresStore) List(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	// Using Window Function to get total count
	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE`,
		strings.Join(schema.Event.Columns(), ", "),
		schema.Event.Table,
	))

	// Event type filtering
	if filter.EventType != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Event.EventType, argID))
		args = append(args, filter.EventType)
		argID++
	}

	// Location substring filtering
	if filter.Location != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.Event.Location, argID))
		args = append(args, "%"+filter.Location+"%")
		argID++
	}

	// Open/closed filtering
	if filter.IsOpen != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Event.IsOpen, argID))
		args = append(args, *filter.IsOpen)
		argID++
	}

	// Apply sorting
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.Event.CreatedAt, schema.Event.ID))

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_event_store_list_failed: %w", err)
	}
	defer rows.Close()

	var events []*Event
	var totalCount int

	for rows.Next() {
		event := &Event{}
		err := rows.Scan(
			&event.ID,
			&event.CreatorID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartsAt,
			&event.EventType,
			&event.IsOpen,
			&event.CreatedAt,
			&event.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_event_store_list_scan_failed: %w", err)
		}
		events = append(events, event)
	}

	return events, totalCount, nil
}

/*
ListByCreator retrieves every event created by a user, newest first.

Parameters:
  - context: context.Context
  - creatorID: string

Returns:
  - []*Event: Events created by the user
  - error: Database execution failures
*/
func (repository *PostgresStore) ListByCreator(context context.Context, creatorID string) ([]*Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		strings.Join(schema.Event.Columns(), ", "),
		schema.Event.Table,
		schema.Event.CreatorID,
		schema.Event.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("postgres_event_store_list_by_creator_failed: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event := &Event{}
		err := rows.Scan(
			&event.ID,
			&event.CreatorID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartsAt,
			&event.EventType,
			&event.IsOpen,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_event_store_list_by_creator_scan_failed: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}

/*
Insert persists a new event row.

Parameters:
  - context: context.Context
  - event: *Event

Returns:
  - error: Constraint or execution failures
*/
func (repository *PostgresStore) Insert(context context.Context, event *Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.Event.Table,
		strings.Join(schema.Event.Columns(), ", "),
	)

	_, err := repository.pool.Exec(context, query,
		event.ID,
		event.CreatorID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EventType,
		event.IsOpen,
		event.CreatedAt,
		event.UpdatedAt,
	)

	// If the insert fails, return an error
	if err != nil {
		return dberr.Wrap(err, "postgres_event_store_insert")
	}

	return nil
}

/*
Update persists the mutable fields of an event.

Parameters:
  - context: context.Context
  - event: *Event

Returns:
  - error: Execution failures
*/
func (repository *PostgresStore) Update(context context.Context, event *Event) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1`,
		schema.Event.Table,
		schema.Event.Title, schema.Event.Description, schema.Event.Location,
		schema.Event.StartsAt, schema.Event.EventType, schema.Event.IsOpen,
		schema.Event.UpdatedAt,
		schema.Event.ID,
	)

	now := time.Now()
	_, err := repository.pool.Exec(context, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EventType,
		event.IsOpen,
		now,
	)

	// If the update fails, return an error
	if err != nil {
		return dberr.Wrap(err, "postgres_event_store_update")
	}

	event.UpdatedAt = now
	return nil
}

/*
Delete removes an event row. Response rows cascade via foreign key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresStore) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Event.Table, schema.Event.ID)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_event_store_delete")
	}

	return nil
}
