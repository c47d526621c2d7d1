package ports

import (
	"context"

	"appstore-release-client/internal/core/domain"
)

// JournalRepository stores the side effects of release workflows
type JournalRepository interface {
	Record(ctx context.Context, entry *domain.JournalEntry) error
}
