// Copyright (c) 2026 LinkUp. All rights reserved.

package response_test

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
	"github.com/linkup-app/linkup/internal/events/response"
	"github.com/linkup-app/linkup/internal/platform/apperr"
	"github.com/linkup-app/linkup/internal/users/identity"
)

// memoryStore is an in-memory [response.Store] enforcing the one response
// per (event, user) constraint.
type memoryStore struct {
	mu        sync.Mutex
	responses map[string]*response.Response
}

func newMemoryStore() *memoryStore {
	return &memoryStore{responses: make(map[string]*response.Response)}
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*response.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.responses[id]; ok {
		copied := *stored
		return &copied, nil
	}
	return nil, apperr.NotFound("Response")
}

func (s *memoryStore) ListByEvent(_ context.Context, eventID string) ([]*response.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*response.Response
	for _, stored := range s.responses {
		if stored.EventID == eventID {
			copied := *stored
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID string) ([]*response.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*response.Response
	for _, stored := range s.responses {
		if stored.UserID == userID {
			copied := *stored
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (s *memoryStore) Insert(_ context.Context, entity *response.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stored := range s.responses {
		if stored.EventID == entity.EventID && stored.UserID == entity.UserID {
			return apperr.Conflict("Resource already exists")
		}
	}
	copied := *entity
	s.responses[copied.ID] = &copied
	return nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.responses[id]
	if !ok {
		return apperr.NotFound("Response")
	}
	stored.Status = status
	return nil
}

func (s *memoryStore) AcceptedTelegramIDs(context.Context, string) ([]int64, error) {
	return nil, nil
}

// fixedEvents serves a fixed set of events.
type fixedEvents struct {
	events map[string]*event.Event
}

func (s *fixedEvents) FindByID(_ context.Context, id string) (*event.Event, error) {
	if stored, ok := s.events[id]; ok {
		return stored, nil
	}
	return nil, apperr.NotFound("Event")
}

func (s *fixedEvents) List(context.Context, event.Filter, int, int) ([]*event.Event, int, error) {
	return nil, 0, nil
}
func (s *fixedEvents) ListByCreator(context.Context, string) ([]*event.Event, error) {
	return nil, nil
}
func (s *fixedEvents) Insert(context.Context, *event.Event) error { return nil }
func (s *fixedEvents) Update(context.Context, *event.Event) error { return nil }
func (s *fixedEvents) Delete(context.Context, string) error       { return nil }

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

// recordingNotifier captures notification calls.
type recordingNotifier struct {
	mu          sync.Mutex
	invitations []int64
	received    []int64
}

func (n *recordingNotifier) EventInvitation(_ context.Context, telegramID int64, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invitations = append(n.invitations, telegramID)
	return nil
}

func (n *recordingNotifier) EventUpdated(context.Context, int64, string) error { return nil }

func (n *recordingNotifier) ResponseReceived(_ context.Context, telegramID int64, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, telegramID)
	return nil
}

func (n *recordingNotifier) receivedBy(telegramID int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range n.received {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (n *recordingNotifier) invitedTo(telegramID int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range n.invitations {
		if id == telegramID {
			return true
		}
	}
	return false
}

// fixture wires a service around shared in-memory collaborators.
type fixture struct {
	service  *response.Service
	store    *memoryStore
	notifier *recordingNotifier
}

func newFixture(events *fixedEvents, directory *stubDirectory) *fixture {
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		service:  response.NewService(store, events, directory, notifier, logger),
		store:    store,
		notifier: notifier,
	}
}

func openEvent(id, creatorID string) *event.Event {
	return &event.Event{
		ID:        id,
		CreatorID: creatorID,
		Title:     "Picnic",
		StartsAt:  time.Now().Add(24 * time.Hour),
		EventType: event.TypeCustom,
		IsOpen:    true,
	}
}

/*
TestCreate_Pending verifies a fresh response starts pending and the creator
is notified out of band.
*/
func TestCreate_Pending(t *testing.T) {
	events := &fixedEvents{events: map[string]*event.Event{
		"ev-1": openEvent("ev-1", "creator-1"),
	}}
	directory := &stubDirectory{users: map[string]*identity.User{
		"creator-1":   {ID: "creator-1", TelegramID: 100, Name: "Ann"},
		"responder-1": {ID: "responder-1", TelegramID: 200, Name: "Bob"},
	}}
	f := newFixture(events, directory)

	created, err := f.service.Create(context.Background(), "responder-1", "ev-1")
	require.NoError(t, err)

	assert.Equal(t, response.StatusPending, created.Status)
	assert.Equal(t, "ev-1", created.EventID)
	assert.Equal(t, "responder-1", created.UserID)

	assert.Eventually(t, func() bool {
		return f.notifier.receivedBy(100)
	}, 2*time.Second, 10*time.Millisecond)
}

/*
TestCreate_ClosedEvent verifies closed events accept no responses.
*/
func TestCreate_ClosedEvent(t *testing.T) {
	closed := openEvent("ev-1", "creator-1")
	closed.IsOpen = false
	events := &fixedEvents{events: map[string]*event.Event{"ev-1": closed}}
	f := newFixture(events, &stubDirectory{})

	_, err := f.service.Create(context.Background(), "responder-1", "ev-1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "BAD_REQUEST", ae.Code)
}

/*
TestCreate_OwnEvent verifies a creator cannot respond to their own event.
*/
func TestCreate_OwnEvent(t *testing.T) {
	events := &fixedEvents{events: map[string]*event.Event{
		"ev-1": openEvent("ev-1", "creator-1"),
	}}
	f := newFixture(events, &stubDirectory{})

	_, err := f.service.Create(context.Background(), "creator-1", "ev-1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "BAD_REQUEST", ae.Code)
}

/*
TestCreate_Duplicate verifies the one-response-per-user rule.
*/
func TestCreate_Duplicate(t *testing.T) {
	events := &fixedEvents{events: map[string]*event.Event{
		"ev-1": openEvent("ev-1", "creator-1"),
	}}
	f := newFixture(events, &stubDirectory{})

	_, err := f.service.Create(context.Background(), "responder-1", "ev-1")
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), "responder-1", "ev-1")
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

/*
TestCreate_MissingEvent verifies responses to unknown events are rejected.
*/
func TestCreate_MissingEvent(t *testing.T) {
	f := newFixture(&fixedEvents{}, &stubDirectory{})

	_, err := f.service.Create(context.Background(), "responder-1", "ev-missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestListByEvent_CreatorOnly verifies only the creator reviews responses.
*/
func TestListByEvent_CreatorOnly(t *testing.T) {
	events := &fixedEvents{events: map[string]*event.Event{
		"ev-1": openEvent("ev-1", "creator-1"),
	}}
	f := newFixture(events, &stubDirectory{})

	_, err := f.service.Create(context.Background(), "responder-1", "ev-1")
	require.NoError(t, err)

	_, err = f.service.ListByEvent(context.Background(), "responder-1", "ev-1")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	listed, err := f.service.ListByEvent(context.Background(), "creator-1", "ev-1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

/*
TestUpdateStatus_Accept verifies acceptance by the creator and the
out-of-band invitation to the responder.
*/
func TestUpdateStatus_Accept(t *testing.T) {
	events := &fixedEvents{events: map[string]*event.Event{
		"ev-1": openEvent("ev-1", "creator-1"),
	}}
	directory := &stubDirectory{users: map[string]*identity.User{
		"responder-1": {ID: "responder-1", TelegramID: 200, Name: "Bob"},
	}}
	f := newFixture(events, directory)

	created, err := f.service.Create(context.Background(), "responder-1", "ev-1")
	require.NoError(t, err)

	// Strangers cannot review
	_, err = f.service.UpdateStatus(context.Background(), "intruder", created.ID, response.StatusAccepted)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	updated, err := f.service.UpdateStatus(context.Background(), "creator-1", created.ID, response.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, response.StatusAccepted, updated.Status)

	stored, err := f.store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, response.StatusAccepted, stored.Status)

	assert.Eventually(t, func() bool {
		return f.notifier.invitedTo(200)
	}, 2*time.Second, 10*time.Millisecond)
}

/*
TestUpdateStatus_RejectSkipsInvitation verifies rejection does not invite.
*/
func TestUpdateStatus_RejectSkipsInvitation(t *testing.T) {
	events := &fixedEvents{events: map[string]*event.Event{
		"ev-1": openEvent("ev-1", "creator-1"),
	}}
	directory := &stubDirectory{users: map[string]*identity.User{
		"responder-1": {ID: "responder-1", TelegramID: 200, Name: "Bob"},
	}}
	f := newFixture(events, directory)

	created, err := f.service.Create(context.Background(), "responder-1", "ev-1")
	require.NoError(t, err)

	updated, err := f.service.UpdateStatus(context.Background(), "creator-1", created.ID, response.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, response.StatusRejected, updated.Status)

	assert.False(t, f.notifier.invitedTo(200))
}
