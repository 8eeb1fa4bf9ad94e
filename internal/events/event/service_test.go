// Copyright (c) 2026 LinkUp. All rights reserved.

package event_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup-app/linkup/internal/events/event"
	"github.com/linkup-app/linkup/internal/platform/apperr"
	"github.com/linkup-app/linkup/internal/users/identity"
	"github.com/linkup-app/linkup/pkg/pagination"
	"github.com/linkup-app/linkup/pkg/pointer"
)

// memoryStore is an in-memory [event.Store].
type memoryStore struct {
	mu     sync.Mutex
	events map[string]*event.Event
}

func newMemoryStore() *memoryStore {
	return &memoryStore{events: make(map[string]*event.Event)}
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.events[id]; ok {
		copied := *stored
		return &copied, nil
	}
	return nil, apperr.NotFound("Event")
}

func (s *memoryStore) List(_ context.Context, filter event.Filter, limit, offset int) ([]*event.Event, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*event.Event
	for _, stored := range s.events {
		if filter.EventType != "" && stored.EventType != filter.EventType {
			continue
		}
		if filter.IsOpen != nil && stored.IsOpen != *filter.IsOpen {
			continue
		}
		copied := *stored
		matched = append(matched, &copied)
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *memoryStore) ListByCreator(_ context.Context, creatorID string) ([]*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*event.Event
	for _, stored := range s.events {
		if stored.CreatorID == creatorID {
			copied := *stored
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (s *memoryStore) Insert(_ context.Context, entity *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entity
	s.events[copied.ID] = &copied
	return nil
}

func (s *memoryStore) Update(_ context.Context, entity *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entity
	s.events[copied.ID] = &copied
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	return nil
}

// stubDirectory serves a fixed set of users.
type stubDirectory struct {
	users map[string]*identity.User
}

func (d *stubDirectory) FindByID(_ context.Context, id string) (*identity.User, error) {
	if user, ok := d.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (d *stubDirectory) FindByTelegramID(context.Context, int64) (*identity.User, error) {
	return nil, apperr.NotFound("User")
}
func (d *stubDirectory) Insert(context.Context, *identity.User) error { return nil }
func (d *stubDirectory) Update(context.Context, *identity.User) error { return nil }

// stubResponders serves a fixed accepted-responder set.
type stubResponders struct {
	telegramIDs []int64
}

func (s *stubResponders) AcceptedTelegramIDs(context.Context, string) ([]int64, error) {
	return s.telegramIDs, nil
}

// recordingNotifier captures notification calls.
type recordingNotifier struct {
	mu      sync.Mutex
	updated []int64
}

func (n *recordingNotifier) EventInvitation(context.Context, int64, string) error { return nil }

func (n *recordingNotifier) EventUpdated(_ context.Context, telegramID int64, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated = append(n.updated, telegramID)
	return nil
}

func (n *recordingNotifier) ResponseReceived(context.Context, int64, string, string) error {
	return nil
}

func (n *recordingNotifier) updatedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.updated)
}

func newTestService(store event.Store, directory identity.Directory, responders event.ResponderSource, notifier *recordingNotifier) *event.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return event.NewService(store, directory, responders, notifier, logger)
}

/*
TestCreate_Defaults verifies type and openness defaults on creation.
*/
func TestCreate_Defaults(t *testing.T) {
	service := newTestService(newMemoryStore(), &stubDirectory{}, &stubResponders{}, &recordingNotifier{})

	created, err := service.Create(context.Background(), "creator-1", event.CreateInput{
		Title:    "Morning run",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, event.TypeCustom, created.EventType)
	assert.True(t, created.IsOpen)
	assert.Equal(t, "creator-1", created.CreatorID)
	assert.NotEmpty(t, created.ID)
}

/*
TestUpdate_CreatorOnly verifies a non-creator cannot mutate an event.
*/
func TestUpdate_CreatorOnly(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubDirectory{}, &stubResponders{}, &recordingNotifier{})

	created, err := service.Create(context.Background(), "creator-1", event.CreateInput{
		Title:    "Picnic",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), "intruder", created.ID, event.UpdateInput{
		Title: pointer.To("Hijacked"),
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)

	// Unchanged in storage
	stored, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Picnic", stored.Title)
}

/*
TestUpdate_NotifiesAcceptedResponders verifies the update fan-out reaches
every accepted responder without blocking the call.
*/
func TestUpdate_NotifiesAcceptedResponders(t *testing.T) {
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	responders := &stubResponders{telegramIDs: []int64{101, 102, 103}}
	service := newTestService(store, &stubDirectory{}, responders, notifier)

	created, err := service.Create(context.Background(), "creator-1", event.CreateInput{
		Title:    "Picnic",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), "creator-1", created.ID, event.UpdateInput{
		Location: pointer.To("Central Park"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Central Park", updated.Location)

	// Delivery is detached from the request
	assert.Eventually(t, func() bool {
		return notifier.updatedCount() == 3
	}, 2*time.Second, 10*time.Millisecond)
}

/*
TestDelete_CreatorOnly verifies only the creator can delete their event.
*/
func TestDelete_CreatorOnly(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubDirectory{}, &stubResponders{}, &recordingNotifier{})

	created, err := service.Create(context.Background(), "creator-1", event.CreateInput{
		Title:    "Picnic",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), "intruder", created.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	require.NoError(t, service.Delete(context.Background(), "creator-1", created.ID))

	_, err = store.FindByID(context.Background(), created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestGet_EmbedsCreator verifies single-event reads hydrate the creator profile.
*/
func TestGet_EmbedsCreator(t *testing.T) {
	store := newMemoryStore()
	directory := &stubDirectory{users: map[string]*identity.User{
		"creator-1": {ID: "creator-1", TelegramID: 42, Name: "Ann"},
	}}
	service := newTestService(store, directory, &stubResponders{}, &recordingNotifier{})

	created, err := service.Create(context.Background(), "creator-1", event.CreateInput{
		Title:    "Picnic",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	fetched, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)

	require.NotNil(t, fetched.Creator)
	assert.Equal(t, "Ann", fetched.Creator.Name)
}

/*
TestList_FilterAndPaginate exercises filter matching with pagination params.
*/
func TestList_FilterAndPaginate(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubDirectory{}, &stubResponders{}, &recordingNotifier{})

	for i := 0; i < 5; i++ {
		_, err := service.Create(context.Background(), "creator-1", event.CreateInput{
			Title:     "Run",
			StartsAt:  time.Now().Add(24 * time.Hour),
			EventType: event.TypeSport,
		})
		require.NoError(t, err)
	}
	_, err := service.Create(context.Background(), "creator-1", event.CreateInput{
		Title:    "Dinner",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	events, total, err := service.List(context.Background(),
		event.Filter{EventType: event.TypeSport},
		pagination.Params{Page: 1, Limit: 3},
	)
	require.NoError(t, err)

	assert.Equal(t, 5, total)
	assert.Len(t, events, 3)
}
