package appstoreconnect

import (
	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

type (
	AppIdentity = domain.AppIdentity
	Platform    = domain.Platform

	Build           = domain.Build
	BuildStatus     = domain.BuildStatus
	BuildUpdate     = domain.BuildUpdate
	ProcessingState = domain.ProcessingState
	WaitOptions     = domain.WaitOptions
	PollObserver    = domain.PollObserver

	Version              = domain.Version
	VersionUpdate        = domain.VersionUpdate
	AppStoreState        = domain.AppStoreState
	ReleaseType          = domain.ReleaseType
	CreateVersionOptions = domain.CreateVersionOptions
	EnsureVersionOptions = domain.EnsureVersionOptions

	Localization           = domain.Localization
	LocalizationAttributes = domain.LocalizationAttributes
	ReleaseNote            = domain.ReleaseNote
	ReviewDetails          = domain.ReviewDetails
	SubmitForReviewOptions = domain.SubmitForReviewOptions

	BetaGroup          = domain.BetaGroup
	CreateGroupOptions = domain.CreateGroupOptions
	AddBuildOptions    = domain.AddBuildOptions
	NotifyOptions      = domain.NotifyOptions

	JournalEntry  = domain.JournalEntry
	JournalAction = domain.JournalAction

	APIError        = domain.APIError
	LookupError     = domain.LookupError
	ProcessingError = domain.ProcessingError

	// TokenSource hands out the bearer token sent with every request.
	TokenSource = ports.TokenSource
	// JournalRepository stores the side effects of release workflows.
	JournalRepository = ports.JournalRepository
)

const (
	PlatformIOS   = domain.PlatformIOS
	PlatformMacOS = domain.PlatformMacOS
	PlatformTVOS  = domain.PlatformTVOS

	ProcessingStateUnknown    = domain.ProcessingStateUnknown
	ProcessingStateProcessing = domain.ProcessingStateProcessing
	ProcessingStateValid      = domain.ProcessingStateValid
	ProcessingStateInvalid    = domain.ProcessingStateInvalid
	ProcessingStateFailed     = domain.ProcessingStateFailed

	ReleaseTypeManual        = domain.ReleaseTypeManual
	ReleaseTypeAfterApproval = domain.ReleaseTypeAfterApproval
	ReleaseTypeScheduled     = domain.ReleaseTypeScheduled

	DefaultLocale = domain.DefaultLocale
)

var (
	ErrNotFound             = domain.ErrNotFound
	ErrAmbiguousResult      = domain.ErrAmbiguousResult
	ErrConflict             = domain.ErrConflict
	ErrMissingCredentials   = domain.ErrMissingCredentials
	ErrBuildProcessing      = domain.ErrBuildProcessing
	ErrProcessingTimeout    = domain.ErrProcessingTimeout
	ErrInvalidVersionString = domain.ErrInvalidVersionString
	ErrInvalidPlatform      = domain.ErrInvalidPlatform
	ErrDuplicateLocale      = domain.ErrDuplicateLocale
)

// ReleaseNotesText builds release notes from a bare string in DefaultLocale.
func ReleaseNotesText(text string) []ReleaseNote { return domain.ReleaseNotesText(text) }

// String returns a pointer to s, for filling optional attributes.
func String(s string) *string { return domain.String(s) }

// Bool returns a pointer to b, for filling optional attributes.
func Bool(b bool) *bool { return domain.Bool(b) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return domain.StatusCode(err) }
