package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"appstore-release-client/internal/core/domain"
)

// MockJournalRepo is a mock of JournalRepository.
type MockJournalRepo struct {
	mock.Mock
}

func (m *MockJournalRepo) Record(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MemoryJournal is a JournalRepository keeping entries in memory.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
}

func (j *MemoryJournal) Record(_ context.Context, entry *domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, *entry)
	return nil
}

// Actions returns the recorded actions in order.
func (j *MemoryJournal) Actions() []domain.JournalAction {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]domain.JournalAction, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e.Action)
	}
	return out
}
