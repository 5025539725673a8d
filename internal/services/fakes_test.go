package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/balancesheet-pro/apiserver/internal/mq"
	"github.com/balancesheet-pro/apiserver/internal/storage"
	"github.com/balancesheet-pro/apiserver/internal/store"
	"github.com/balancesheet-pro/apiserver/types"
)

type fakeLedgerRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries []types.Entry
	loans   []types.Loan
	listErr error
}

func (f *fakeLedgerRepo) CreateEntry(_ context.Context, entry types.Entry) (types.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeLedgerRepo) ListEntries(_ context.Context, kind types.Kind, userID int64) ([]types.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []types.Entry{}
	for _, e := range f.entries {
		if e.Kind == kind && e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) CreateLoan(_ context.Context, loan types.Loan) (types.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	loan.ID = f.nextID
	f.loans = append(f.loans, loan)
	return loan, nil
}

func (f *fakeLedgerRepo) ListLoans(_ context.Context, userID int64) ([]types.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []types.Loan{}
	for _, l := range f.loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakePublisher struct {
	events []mq.RecordCreatedEvent
	err    error
}

func (f *fakePublisher) PublishRecordCreated(_ context.Context, event mq.RecordCreatedEvent) (string, error) {
	f.events = append(f.events, event)
	return "id", f.err
}

type countingRecorder map[string]int

func (c countingRecorder) RecordCreated(kind string) { c[kind]++ }

type fakeUserRepo struct {
	users  map[int64]types.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]types.User{}}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (types.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) find(match func(types.User) bool) (types.User, error) {
	for _, u := range f.users {
		if match(u) {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	return f.find(func(u types.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	return f.find(func(u types.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.LastLogin = &at
	f.users[id] = u
	return nil
}

type memoryObjects struct {
	objects map[string][]byte
}

func (m *memoryObjects) EnsureBucket(context.Context) error { return nil }

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryObjects) Bucket() string { return "exports" }

func (m *memoryObjects) Close() error { return nil }

var errBoom = errors.New("boom")
