package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

// journal writes to an optional JournalRepository. Failures never abort a workflow.
type journal struct {
	repo ports.JournalRepository
}

func (j journal) record(ctx context.Context, subject string, action domain.JournalAction, detail string) {
	if j.repo == nil {
		return
	}
	entry := domain.NewJournalEntry(subject, action, detail)
	if err := j.repo.Record(ctx, entry); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"subject": subject,
			"action":  action,
		}).Warn("failed to record journal entry")
	}
}
