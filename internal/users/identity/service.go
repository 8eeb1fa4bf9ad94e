// Copyright (c) 2026 LinkUp. All rights reserved.

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkup-app/linkup/internal/platform/apperr"
	"github.com/linkup-app/linkup/internal/platform/dberr"
	uuidutil "github.com/linkup-app/linkup/pkg/uuid"
)

// Cache invalidates cached identity resolutions after a profile mutation.
//
// The Telegram authentication flow caches resolved users under their Telegram
// ID; any profile write must purge that entry so the next sign-in observes
// fresh data.
type Cache interface {
	Invalidate(context context.Context, telegramID int64) error
}

// NopCache is a [Cache] that does nothing. Used when Redis is not wired.
type NopCache struct{}

// Invalidate implements [Cache] as a no-op.
func (NopCache) Invalidate(context.Context, int64) error { return nil }

// # Service Layer

// Service orchestrates business logic for the user directory.
//
// It guarantees that registration is idempotent per Telegram ID and that
// profile updates only touch the fields a client actually supplied.
type Service struct {
	directory Directory
	cache     Cache
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its storage dependencies.
func NewService(directory Directory, cache Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{
		directory: directory,
		cache:     cache,
		logger:    logger,
	}
}

// # Registration

// RegisterInput carries the initial profile payload for a new user.
type RegisterInput struct {
	TelegramID int64
	Name       string
	AvatarURL  string
	Bio        string
	Interests  []string
	Photos     []string
}

/*
Register creates a user for a Telegram identity, or returns the existing one.

Description: Registration is keyed by Telegram ID and is idempotent. If a user
with the given Telegram ID already exists their stored profile is returned
unchanged; the submitted payload never overwrites an established account. A
lost insert race against a concurrent registration resolves by re-fetching the
winning row.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: The existing or freshly created user
  - bool: True when a new row was created
  - error: Validation or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, bool, error) {

	// Business: a user without a Telegram identity cannot exist
	if input.TelegramID == 0 {
		return nil, false, apperr.ValidationError("telegram_id is required")
	}

	// Idempotency: an established account wins over the submitted payload
	existing, err := service.directory.FindByTelegramID(context, input.TelegramID)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, fmt.Errorf("identity_service_register_lookup_failed: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:         uuidutil.New(),
		TelegramID: input.TelegramID,
		Name:       input.Name,
		AvatarURL:  input.AvatarURL,
		Bio:        input.Bio,
		Interests:  input.Interests,
		Photos:     input.Photos,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if user.Interests == nil {
		user.Interests = []string{}
	}
	if user.Photos == nil {
		user.Photos = []string{}
	}

	if err := service.directory.Insert(context, user); err != nil {

		// Resolve the insert race: the concurrent writer's row is the account
		if dberr.IsUniqueViolation(err) || apperr.IsConflict(err) {
			winner, findErr := service.directory.FindByTelegramID(context, input.TelegramID)
			if findErr != nil {
				return nil, false, fmt.Errorf("identity_service_register_race_lookup_failed: %w", findErr)
			}
			return winner, false, nil
		}

		return nil, false, fmt.Errorf("identity_service_register_insert_failed: %w", err)
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.Int64("telegram_id", user.TelegramID),
	)

	return user, true, nil
}

// # Profile Management

/*
Get retrieves a user by their internal ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) Get(context context.Context, userID string) (*User, error) {
	user, err := service.directory.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("identity_service_get_failed: %w", err)
	}
	return user, nil
}

/*
GetByTelegramID retrieves a user by their Telegram identifier.

Parameters:
  - context: context.Context
  - telegramID: int64

Returns:
  - *User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetByTelegramID(context context.Context, telegramID int64) (*User, error) {
	user, err := service.directory.FindByTelegramID(context, telegramID)
	if err != nil {
		return nil, fmt.Errorf("identity_service_get_by_telegram_id_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
//
// Nil pointers mean "leave unchanged"; an explicit empty value clears a field.
type UpdateProfileInput struct {
	Name      *string
	AvatarURL *string
	Bio       *string
	Interests *[]string
	Photos    *[]string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields,
synchronizes the change to persistent storage, and purges the cached identity
resolution for the user's Telegram ID.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*User, error) {

	user, err := service.directory.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("identity_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Name != nil {
		user.Name = *input.Name
	}

	// Apply delta updates
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	// Apply delta updates
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	// Apply delta updates
	if input.Interests != nil {
		user.Interests = *input.Interests
	}

	// Apply delta updates
	if input.Photos != nil {
		user.Photos = *input.Photos
	}

	// Persist changes
	if err := service.directory.Update(context, user); err != nil {
		return nil, fmt.Errorf("identity_service_update_failed: %w", err)
	}

	// Purge the stale resolution so the next sign-in reloads the profile
	if err := service.cache.Invalidate(context, user.TelegramID); err != nil {
		service.logger.Warn("identity_cache_invalidate_failed",
			slog.Int64("telegram_id", user.TelegramID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}
