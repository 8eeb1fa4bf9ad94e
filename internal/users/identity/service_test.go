// Copyright (c) 2026 LinkUp. All rights reserved.

package identity_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup-app/linkup/internal/platform/apperr"
	"github.com/linkup-app/linkup/internal/users/identity"
	"github.com/linkup-app/linkup/pkg/pointer"
)

// memoryDirectory is an in-memory [identity.Directory] with the database's
// unique-Telegram-ID constraint.
type memoryDirectory struct {
	mu           sync.Mutex
	byID         map[string]*identity.User
	byTelegramID map[int64]*identity.User
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		byID:         make(map[string]*identity.User),
		byTelegramID: make(map[int64]*identity.User),
	}
}

func (d *memoryDirectory) FindByID(_ context.Context, id string) (*identity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if user, ok := d.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (d *memoryDirectory) FindByTelegramID(_ context.Context, telegramID int64) (*identity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if user, ok := d.byTelegramID[telegramID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (d *memoryDirectory) Insert(_ context.Context, user *identity.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byTelegramID[user.TelegramID]; exists {
		return apperr.Conflict("Resource already exists")
	}
	copied := *user
	d.byID[copied.ID] = &copied
	d.byTelegramID[copied.TelegramID] = &copied
	return nil
}

func (d *memoryDirectory) Update(_ context.Context, user *identity.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := *user
	d.byID[copied.ID] = &copied
	d.byTelegramID[copied.TelegramID] = &copied
	return nil
}

// recordingCache captures invalidations for assertion.
type recordingCache struct {
	mu          sync.Mutex
	invalidated []int64
}

func (c *recordingCache) Invalidate(_ context.Context, telegramID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, telegramID)
	return nil
}

func newTestService(directory identity.Directory, cache identity.Cache) *identity.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return identity.NewService(directory, cache, logger)
}

/*
TestRegister_Idempotent verifies that two back-to-back registrations with the
same Telegram ID return the identity created by the first, unchanged.
*/
func TestRegister_Idempotent(t *testing.T) {
	service := newTestService(newMemoryDirectory(), nil)

	first, created, err := service.Register(context.Background(), identity.RegisterInput{
		TelegramID: 42,
		Name:       "First",
		Bio:        "original bio",
	})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := service.Register(context.Background(), identity.RegisterInput{
		TelegramID: 42,
		Name:       "Second",
		Bio:        "a different bio",
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "First", second.Name)
	assert.Equal(t, "original bio", second.Bio)
}

/*
TestRegister_RequiresTelegramID verifies the zero Telegram ID is rejected.
*/
func TestRegister_RequiresTelegramID(t *testing.T) {
	service := newTestService(newMemoryDirectory(), nil)

	_, _, err := service.Register(context.Background(), identity.RegisterInput{Name: "Nobody"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestRegister_DefaultsCollections verifies nil slices become empty, never null.
*/
func TestRegister_DefaultsCollections(t *testing.T) {
	service := newTestService(newMemoryDirectory(), nil)

	user, _, err := service.Register(context.Background(), identity.RegisterInput{
		TelegramID: 7,
		Name:       "Minimal",
	})
	require.NoError(t, err)

	assert.NotNil(t, user.Interests)
	assert.NotNil(t, user.Photos)
	assert.Empty(t, user.Interests)
	assert.Empty(t, user.Photos)
}

/*
TestUpdateProfile_PartialMerge verifies that only supplied fields change and
the cached identity resolution is invalidated.
*/
func TestUpdateProfile_PartialMerge(t *testing.T) {
	directory := newMemoryDirectory()
	cache := &recordingCache{}
	service := newTestService(directory, cache)

	user, _, err := service.Register(context.Background(), identity.RegisterInput{
		TelegramID: 42,
		Name:       "Ann",
		Bio:        "keep me",
		AvatarURL:  "https://linkup.app/a.png",
	})
	require.NoError(t, err)

	updated, err := service.UpdateProfile(context.Background(), user.ID, identity.UpdateProfileInput{
		Name:      pointer.To("Annette"),
		Interests: pointer.To([]string{"hiking", "food"}),
	})
	require.NoError(t, err)

	// Supplied fields changed
	assert.Equal(t, "Annette", updated.Name)
	assert.Equal(t, []string{"hiking", "food"}, updated.Interests)

	// Omitted fields survived
	assert.Equal(t, "keep me", updated.Bio)
	assert.Equal(t, "https://linkup.app/a.png", updated.AvatarURL)

	// The cache entry for this Telegram ID was purged
	assert.Contains(t, cache.invalidated, int64(42))
}

/*
TestUpdateProfile_ClearsWithExplicitEmpty verifies an explicit empty value
clears a field instead of being treated as "unchanged".
*/
func TestUpdateProfile_ClearsWithExplicitEmpty(t *testing.T) {
	service := newTestService(newMemoryDirectory(), nil)

	user, _, err := service.Register(context.Background(), identity.RegisterInput{
		TelegramID: 9,
		Name:       "Bea",
		Bio:        "soon gone",
	})
	require.NoError(t, err)

	updated, err := service.UpdateProfile(context.Background(), user.ID, identity.UpdateProfileInput{
		Bio: pointer.To(""),
	})
	require.NoError(t, err)

	assert.Empty(t, updated.Bio)
	assert.Equal(t, "Bea", updated.Name)
}

/*
TestGet_NotFound verifies lookup misses surface as not-found errors.
*/
func TestGet_NotFound(t *testing.T) {
	service := newTestService(newMemoryDirectory(), nil)

	_, err := service.Get(context.Background(), "missing-id")
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.GetByTelegramID(context.Background(), 404)
	assert.True(t, apperr.IsNotFound(err))
}
