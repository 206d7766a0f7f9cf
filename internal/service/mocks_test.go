package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/events"
	"github.com/support-hub/helpdesk/internal/repository"
)

// Function-field fakes. Unset fields mean the call is unexpected and
// panics, which surfaces the offending test immediately.

type fakeTicketRepo struct {
	CreateFn      func(ctx context.Context, ticket *domain.Ticket) error
	GetByIDFn     func(ctx context.Context, id string) (*domain.Ticket, error)
	UpdatePatchFn func(ctx context.Context, id string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error)
	ListFn        func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	DeleteFn      func(ctx context.Context, id string) error
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	return f.CreateFn(ctx, ticket)
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeTicketRepo) UpdatePatch(ctx context.Context, id string, patch repository.TicketPatch, updatedOn time.Time) (*domain.Ticket, error) {
	return f.UpdatePatchFn(ctx, id, patch, updatedOn)
}

func (f *fakeTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return f.ListFn(ctx, filter)
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

type fakeCommentRepo struct {
	CreateFn       func(ctx context.Context, comment *domain.Comment) error
	ListByTicketFn func(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return f.CreateFn(ctx, comment)
}

func (f *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	return f.ListByTicketFn(ctx, ticketID)
}

type fakeTeamRepo struct {
	GetByIDFn func(ctx context.Context, id string) (*domain.Team, error)
}

func (f *fakeTeamRepo) Create(_ context.Context, _ *domain.Team) error { panic("unexpected Create") }

func (f *fakeTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeTeamRepo) GetByName(_ context.Context, _ string) (*domain.Team, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeTeamRepo) List(_ context.Context) ([]domain.Team, error) { return nil, nil }

func (f *fakeTeamRepo) Delete(_ context.Context, _ string) error { panic("unexpected Delete") }

type fakeCategoryRepo struct {
	GetByIDFn func(ctx context.Context, id string) (*domain.Category, error)
}

func (f *fakeCategoryRepo) Create(_ context.Context, _ *domain.Category) error {
	panic("unexpected Create")
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, _ string) (*domain.Category, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) { return nil, nil }

func (f *fakeCategoryRepo) Delete(_ context.Context, _ string) error { panic("unexpected Delete") }

type fakeUserRepo struct {
	GetByIDFn func(ctx context.Context, id string) (*domain.User, error)
}

func (f *fakeUserRepo) Create(_ context.Context, _ *domain.User) error { panic("unexpected Create") }

func (f *fakeUserRepo) Update(_ context.Context, _ *domain.User) error { panic("unexpected Update") }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) Delete(_ context.Context, _ string) error { panic("unexpected Delete") }

// fakeBlobStore records puts and removals in memory.
type fakeBlobStore struct {
	mu      sync.Mutex
	stored  map[string][]byte
	removed []string
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{stored: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[key] = data
	return "http://blobs.test/" + key, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, key)
	f.removed = append(f.removed, key)
	return nil
}

// fakeCache tracks cached entries and invalidations.
type fakeCache struct {
	entries     map[string]*domain.Ticket
	invalidated []string
	sets        []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*domain.Ticket{}}
}

func (f *fakeCache) Get(_ context.Context, id string) (*domain.Ticket, bool) {
	ticket, ok := f.entries[id]
	return ticket, ok
}

func (f *fakeCache) Set(_ context.Context, ticket *domain.Ticket) {
	f.entries[ticket.ID] = ticket
	f.sets = append(f.sets, ticket.ID)
}

func (f *fakeCache) Invalidate(_ context.Context, id string) {
	delete(f.entries, id)
	f.invalidated = append(f.invalidated, id)
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

// fixedClock advances by a second on every read so consecutive stamps
// are distinguishable.
type fixedClock struct {
	current time.Time
}

func newFixedClock(start time.Time) *fixedClock {
	return &fixedClock{current: start}
}

func (c *fixedClock) Now() time.Time {
	now := c.current
	c.current = c.current.Add(time.Second)
	return now
}
