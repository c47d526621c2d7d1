package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

const journalSchema = `
	CREATE TABLE IF NOT EXISTS release_journal (
		id         UUID PRIMARY KEY,
		subject    TEXT NOT NULL,
		action     TEXT NOT NULL,
		detail     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS release_journal_subject_idx ON release_journal (subject, created_at);
`

type journalRepo struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository
func NewJournalRepository(pool *pgxpool.Pool) ports.JournalRepository {
	return &journalRepo{pool: pool}
}

// EnsureSchema creates the release_journal table when it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("ensure journal schema: %w", err)
	}
	return nil
}

func (r *journalRepo) Record(ctx context.Context, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO release_journal (id, subject, action, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.Subject, string(entry.Action), entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}
	return nil
}
