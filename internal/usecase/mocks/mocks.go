package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*domain.Event

	CreateFunc           func(ctx context.Context, event *domain.Event) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id uuid.UUID) (*domain.Event, error)
	UpdateFunc           func(ctx context.Context, event *domain.Event) error
	ArchiveFunc          func(ctx context.Context, id uuid.UUID, archivedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Event, error)
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		events: make(map[uuid.UUID]*domain.Event),
	}
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if event, ok := m.events[id]; ok {
		return event, nil
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id uuid.UUID) (*domain.Event, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	m.events[event.ID] = event
	return nil
}

func (m *MockEventRepository) Archive(ctx context.Context, id uuid.UUID, archivedAt time.Time) error {
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, id, archivedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	event.ArchivedAt = &archivedAt
	return nil
}

func (m *MockEventRepository) List(ctx context.Context, limit, offset int) ([]*domain.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.Event
	for _, event := range m.events {
		events = append(events, event)
	}
	return events, nil
}

// MockPersonRepository is a mock implementation of PersonRepository.
type MockPersonRepository struct {
	mu     sync.RWMutex
	people map[uuid.UUID]*domain.Person

	CreateFunc      func(ctx context.Context, person *domain.Person) error
	UpdateFunc      func(ctx context.Context, person *domain.Person) error
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Person, error)
	ListByEventFunc func(ctx context.Context, eventID uuid.UUID) ([]*domain.Person, error)
}

func NewMockPersonRepository() *MockPersonRepository {
	return &MockPersonRepository{
		people: make(map[uuid.UUID]*domain.Person),
	}
}

func (m *MockPersonRepository) Create(ctx context.Context, person *domain.Person) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, person)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people[person.ID] = person
	return nil
}

func (m *MockPersonRepository) Update(ctx context.Context, person *domain.Person) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, person)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.people[person.ID]; !ok {
		return domain.ErrPersonNotFound
	}
	m.people[person.ID] = person
	return nil
}

func (m *MockPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if person, ok := m.people[id]; ok {
		return person, nil
	}
	return nil, domain.ErrPersonNotFound
}

func (m *MockPersonRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Person, error) {
	if m.ListByEventFunc != nil {
		return m.ListByEventFunc(ctx, eventID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var people []*domain.Person
	for _, person := range m.people {
		if person.EventID == eventID {
			people = append(people, person)
		}
	}
	return people, nil
}

func (m *MockPersonRepository) ListByEventTx(ctx context.Context, tx usecase.Transaction, eventID uuid.UUID) ([]*domain.Person, error) {
	return m.ListByEvent(ctx, eventID)
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu           sync.RWMutex
	entries      map[uuid.UUID]*domain.Entry
	participants map[uuid.UUID][]*domain.EntryParticipant

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error
	UpdateFunc     func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error
	SoftDeleteFunc func(ctx context.Context, tx usecase.Transaction, id uuid.UUID, deletedAt time.Time) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Entry, []*domain.EntryParticipant, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries:      make(map[uuid.UUID]*domain.Entry),
		participants: make(map[uuid.UUID][]*domain.EntryParticipant),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry, participants)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.participants[entry.ID] = participants
	return nil
}

func (m *MockEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, participants []*domain.EntryParticipant) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, entry, participants)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	m.entries[entry.ID] = entry
	m.participants[entry.ID] = participants
	return nil
}

func (m *MockEntryRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id uuid.UUID, deletedAt time.Time) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, tx, id, deletedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	entry.DeletedAt = &deletedAt
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, []*domain.EntryParticipant, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, nil, domain.ErrEntryNotFound
	}
	return entry, m.participants[id], nil
}

func (m *MockEntryRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, entry := range m.entries {
		if entry.EventID == eventID && entry.Active() {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) ListActiveByEventTx(ctx context.Context, tx usecase.Transaction, eventID uuid.UUID) ([]*domain.Entry, map[uuid.UUID][]*domain.EntryParticipant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	byEntry := make(map[uuid.UUID][]*domain.EntryParticipant)
	for _, entry := range m.entries {
		if entry.EventID == eventID && entry.Active() {
			entries = append(entries, entry)
			byEntry[entry.ID] = m.participants[entry.ID]
		}
	}
	return entries, byEntry, nil
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository.
type MockSnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID][]*domain.BalanceSnapshot

	ReplaceForEventFunc func(ctx context.Context, tx usecase.Transaction, eventID uuid.UUID, snapshots []*domain.BalanceSnapshot) error
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{
		snapshots: make(map[uuid.UUID][]*domain.BalanceSnapshot),
	}
}

func (m *MockSnapshotRepository) ReplaceForEvent(ctx context.Context, tx usecase.Transaction, eventID uuid.UUID, snapshots []*domain.BalanceSnapshot) error {
	if m.ReplaceForEventFunc != nil {
		return m.ReplaceForEventFunc(ctx, tx, eventID, snapshots)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[eventID] = snapshots
	return nil
}

func (m *MockSnapshotRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.BalanceSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[eventID], nil
}

// MockInviteRepository is a mock implementation of InviteRepository.
type MockInviteRepository struct {
	mu      sync.RWMutex
	invites map[string]*domain.InviteToken
}

func NewMockInviteRepository() *MockInviteRepository {
	return &MockInviteRepository{
		invites: make(map[string]*domain.InviteToken),
	}
}

func (m *MockInviteRepository) Create(ctx context.Context, invite *domain.InviteToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites[invite.Token] = invite
	return nil
}

func (m *MockInviteRepository) GetByToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if invite, ok := m.invites[token]; ok {
		return invite, nil
	}
	return nil, domain.ErrInviteNotFound
}

func (m *MockInviteRepository) Revoke(ctx context.Context, token string, revokedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	invite, ok := m.invites[token]
	if !ok {
		return domain.ErrInviteNotFound
	}
	invite.RevokedAt = &revokedAt
	return nil
}

func (m *MockInviteRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.InviteToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var invites []*domain.InviteToken
	for _, invite := range m.invites {
		if invite.EventID == eventID {
			invites = append(invites, invite)
		}
	}
	return invites, nil
}

// MockTransaction is a no-op transaction tracking commit and rollback.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator returns sequential, deterministic UUIDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next uint32
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	var id uuid.UUID
	id[12] = byte(m.next >> 24)
	id[13] = byte(m.next >> 16)
	id[14] = byte(m.next >> 8)
	id[15] = byte(m.next)
	return id
}

// MockTokenGenerator returns a fixed token.
type MockTokenGenerator struct {
	Token string
}

func (m *MockTokenGenerator) Generate() string {
	if m.Token != "" {
		return m.Token
	}
	return "01ARZ3NDEKTSV4RRFFQ69G5FAV"
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct{}

func (MockRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MockClock returns a fixed time.
type MockClock struct {
	Time time.Time
}

func (m MockClock) Now() time.Time {
	if m.Time.IsZero() {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return m.Time
}
