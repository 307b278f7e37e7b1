package bookshelf

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// This file contains mocks definitions needed to perform unit tests.

// MockPersister delegates to its functions when set and to an
// in-memory persister otherwise.
type MockPersister struct {
	*MemoryPersister
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, data []byte) error
}

func NewMockPersister() *MockPersister {
	return &MockPersister{MemoryPersister: NewMemoryPersister()}
}

// Get mocks the behavior of reading a blob.
func (m *MockPersister) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return m.MemoryPersister.Get(ctx, key)
}

// Set mocks the behavior of writing a blob.
func (m *MockPersister) Set(ctx context.Context, key string, data []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, data)
	}
	return m.MemoryPersister.Set(ctx, key, data)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockIDGenerator hands out predictable ids: b:1, b:2...
type MockIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (mg *MockIDGenerator) NewID() string {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	mg.n++
	return "b:" + strconv.Itoa(mg.n)
}

// MockSearcher records every requested url and answers with SearchFunc.
type MockSearcher struct {
	SearchFunc func(ctx context.Context, url string) ([]SimilarBook, error)

	mu    sync.Mutex
	calls []string
}

func (ms *MockSearcher) Search(ctx context.Context, url string) ([]SimilarBook, error) {
	ms.mu.Lock()
	ms.calls = append(ms.calls, url)
	ms.mu.Unlock()
	return ms.SearchFunc(ctx, url)
}

// Calls returns the requested urls in order.
func (ms *MockSearcher) Calls() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]string(nil), ms.calls...)
}

// scripted answers from a fixed table keyed by url. Unknown urls fail.
func scripted(replies map[string]reply) func(context.Context, string) ([]SimilarBook, error) {
	return func(_ context.Context, url string) ([]SimilarBook, error) {
		r, ok := replies[url]
		if !ok {
			return nil, &StatusError{URL: url, Status: 404}
		}
		return r.books, r.err
	}
}

type reply struct {
	books []SimilarBook
	err   error
}

// similarBooks builds n summaries titled <prefix>-0, <prefix>-1...
func similarBooks(prefix string, n int) []SimilarBook {
	books := make([]SimilarBook, n)
	for i := range books {
		books[i] = SimilarBook{
			Title:  prefix + "-" + strconv.Itoa(i),
			Image:  "https://itbook.store/img/" + prefix + strconv.Itoa(i) + ".png",
			ISBN13: "97800000000" + strconv.Itoa(10+i),
		}
	}
	return books
}

// waitOutcome waits for the run to be done and returns its outcome.
func waitOutcome(t *testing.T, run *Run) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	o, err := run.Wait(ctx)
	require.NoError(t, err, "run did not complete in time")
	return o
}
