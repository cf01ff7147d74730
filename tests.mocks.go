package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockCartStorage struct {
	GetFunc    func(ctx context.Context, sessionID string) (*CartLedger, error)
	SaveFunc   func(ctx context.Context, sessionID string, ledger *CartLedger) error
	DeleteFunc func(ctx context.Context, sessionID string) error
}

// Get mocks the behavior of loading a session cart from the storage.
func (m *MockCartStorage) Get(ctx context.Context, sessionID string) (*CartLedger, error) {
	return m.GetFunc(ctx, sessionID)
}

// Save mocks the behavior of persisting a session cart by the storage.
func (m *MockCartStorage) Save(ctx context.Context, sessionID string, ledger *CartLedger) error {
	return m.SaveFunc(ctx, sessionID, ledger)
}

// Delete mocks the behavior of deleting a session cart by the storage.
func (m *MockCartStorage) Delete(ctx context.Context, sessionID string) error {
	return m.DeleteFunc(ctx, sessionID)
}

// MockBookSource implements a fake external catalog source.
type MockBookSource struct {
	FetchFunc func(ctx context.Context, sourceID string) ([]Book, error)
}

// Fetch mocks the behavior of downloading the catalog rows.
func (m *MockBookSource) Fetch(ctx context.Context, sourceID string) ([]Book, error) {
	return m.FetchFunc(ctx, sourceID)
}

// MockOrderSubmitter implements a fake external order collaborator.
type MockOrderSubmitter struct {
	SubmitFunc func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error)
}

// Submit mocks the behavior of the remote order submission call.
func (m *MockOrderSubmitter) Submit(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
	return m.SubmitFunc(ctx, payload, proof)
}

// MockOrderArchive implements a fake archive of accepted orders.
type MockOrderArchive struct {
	SaveFunc   func(ctx context.Context, id string, record OrderRecord) error
	GetOneFunc func(ctx context.Context, id string) (OrderRecord, error)
	GetAllFunc func(ctx context.Context) ([]OrderRecord, error)
}

// Save mocks the behavior of archiving an accepted order record.
func (m *MockOrderArchive) Save(ctx context.Context, id string, record OrderRecord) error {
	return m.SaveFunc(ctx, id, record)
}

// GetOne mocks the behavior of retrieving an archived order record.
func (m *MockOrderArchive) GetOne(ctx context.Context, id string) (OrderRecord, error) {
	return m.GetOneFunc(ctx, id)
}

// GetAll mocks the behavior of retrieving all archived order records.
func (m *MockOrderArchive) GetAll(ctx context.Context) ([]OrderRecord, error) {
	return m.GetAllFunc(ctx)
}

// MockQueuer implements a fake queue of accepted order records.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, record OrderRecord) error
	PopFunc  func(ctx context.Context, qids ...string) (string, OrderRecord, error)
}

// Push mocks the behavior of enqueueing an order record.
func (m *MockQueuer) Push(ctx context.Context, qid string, record OrderRecord) error {
	return m.PushFunc(ctx, qid, record)
}

// Pop mocks the behavior of dequeueing an order record.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, OrderRecord, error) {
	return m.PopFunc(ctx, qids...)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
