package domain

import (
	"time"

	"github.com/google/uuid"
)

type JournalAction string

const (
	JournalActionVersionCreated      JournalAction = "version_created"
	JournalActionVersionRenamed      JournalAction = "version_renamed"
	JournalActionReleaseTypeUpdated  JournalAction = "release_type_updated"
	JournalActionBuildAttached       JournalAction = "build_attached"
	JournalActionLocalizationsSet    JournalAction = "localizations_set"
	JournalActionReleaseNotesSet     JournalAction = "release_notes_set"
	JournalActionReviewDetailsSet    JournalAction = "review_details_set"
	JournalActionVersionUpdated      JournalAction = "version_updated"
	JournalActionSubmitted           JournalAction = "submitted"
	JournalActionBuildPolled         JournalAction = "build_polled"
	JournalActionBuildAddedToGroup   JournalAction = "build_added_to_group"
	JournalActionBetaTestersNotified JournalAction = "beta_testers_notified"
)

// JournalEntry records one side effect of a release workflow.
type JournalEntry struct {
	ID        uuid.UUID     `json:"id"`
	Subject   string        `json:"subject"`
	Action    JournalAction `json:"action"`
	Detail    string        `json:"detail"`
	CreatedAt time.Time     `json:"created_at"`
}

func NewJournalEntry(subject string, action JournalAction, detail string) *JournalEntry {
	return &JournalEntry{
		ID:        uuid.New(),
		Subject:   subject,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
}
