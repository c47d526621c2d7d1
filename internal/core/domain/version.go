package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

type AppStoreState string

const (
	AppStoreStateDeveloperRemovedFromSale    AppStoreState = "DEVELOPER_REMOVED_FROM_SALE"
	AppStoreStateDeveloperRejected           AppStoreState = "DEVELOPER_REJECTED"
	AppStoreStateInReview                    AppStoreState = "IN_REVIEW"
	AppStoreStateInvalidBinary               AppStoreState = "INVALID_BINARY"
	AppStoreStateMetadataRejected            AppStoreState = "METADATA_REJECTED"
	AppStoreStatePendingAppleRelease         AppStoreState = "PENDING_APPLE_RELEASE"
	AppStoreStatePendingContract             AppStoreState = "PENDING_CONTRACT"
	AppStoreStatePendingDeveloperRelease     AppStoreState = "PENDING_DEVELOPER_RELEASE"
	AppStoreStatePrepareForSubmission        AppStoreState = "PREPARE_FOR_SUBMISSION"
	AppStoreStateReadyForSale                AppStoreState = "READY_FOR_SALE"
	AppStoreStateRejected                    AppStoreState = "REJECTED"
	AppStoreStateRemovedFromSale             AppStoreState = "REMOVED_FROM_SALE"
	AppStoreStateWaitingForExportCompliance  AppStoreState = "WAITING_FOR_EXPORT_COMPLIANCE"
	AppStoreStateWaitingForReview            AppStoreState = "WAITING_FOR_REVIEW"
	AppStoreStateProcessingForAppStore       AppStoreState = "PROCESSING_FOR_APP_STORE"
	AppStoreStateReplacedWithNewVersion      AppStoreState = "REPLACED_WITH_NEW_VERSION"
)

// RenamableStates lists the states in which a version's versionString may still be edited.
var RenamableStates = []AppStoreState{
	AppStoreStateDeveloperRemovedFromSale,
	AppStoreStateDeveloperRejected,
	AppStoreStateInvalidBinary,
	AppStoreStateMetadataRejected,
	AppStoreStatePendingContract,
	AppStoreStatePendingDeveloperRelease,
	AppStoreStatePrepareForSubmission,
	AppStoreStateRejected,
	AppStoreStateRemovedFromSale,
	AppStoreStateWaitingForExportCompliance,
}

func (s AppStoreState) IsRenamable() bool {
	for _, r := range RenamableStates {
		if s == r {
			return true
		}
	}
	return false
}

type ReleaseType string

const (
	ReleaseTypeManual        ReleaseType = "MANUAL"
	ReleaseTypeAfterApproval ReleaseType = "AFTER_APPROVAL"
	ReleaseTypeScheduled     ReleaseType = "SCHEDULED"
)

func ReleaseTypeFor(autoRelease bool) ReleaseType {
	if autoRelease {
		return ReleaseTypeAfterApproval
	}
	return ReleaseTypeManual
}

type Version struct {
	ID            string        `json:"id"`
	VersionString string        `json:"version_string"`
	Platform      Platform      `json:"platform"`
	AppStoreState AppStoreState `json:"app_store_state"`
	ReleaseType   ReleaseType   `json:"release_type"`
	Copyright     string        `json:"copyright"`
	CreatedDate   time.Time     `json:"created_date"`
}

// VersionFilter narrows an app's version list. Zero fields are not sent.
type VersionFilter struct {
	VersionString string
	Platform      Platform
	States        []AppStoreState
}

type VersionCreate struct {
	VersionString string
	Platform      Platform
	Copyright     string
	ReleaseType   ReleaseType
	UsesIdfa      bool
}

// VersionUpdate holds the version attributes that may be patched. Nil fields are left untouched.
type VersionUpdate struct {
	VersionString       *string      `json:"versionString,omitempty"`
	Copyright           *string      `json:"copyright,omitempty"`
	ReleaseType         *ReleaseType `json:"releaseType,omitempty"`
	EarliestReleaseDate *time.Time   `json:"earliestReleaseDate,omitempty"`
	UsesIdfa            *bool        `json:"usesIdfa,omitempty"`
	Downloadable        *bool        `json:"downloadable,omitempty"`
}

func (u VersionUpdate) IsEmpty() bool {
	return u == VersionUpdate{}
}

// CreateVersionOptions defaults: AutoRelease false (MANUAL release), empty copyright, UsesIdfa false.
type CreateVersionOptions struct {
	AutoRelease bool
	Copyright   string
	UsesIdfa    bool
}

// EnsureVersionOptions defaults: no rename on conflict, default CreateVersionOptions.
type EnsureVersionOptions struct {
	// UpdateVersionStringIfUnreleasedVersionExists re-targets the single unreleased version
	// to the requested version string when creation conflicts with it.
	UpdateVersionStringIfUnreleasedVersionExists bool
	CreateOptions                                CreateVersionOptions
}

// ValidateVersionString accepts dotted numeric versions such as "1", "1.2" or "1.2.0".
// The string itself is never rewritten; this only rejects values the API refuses anyway.
func ValidateVersionString(v string) error {
	if v == "" || strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return fmt.Errorf("%w: %q", ErrInvalidVersionString, v)
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidVersionString, v, err)
	}
	if parsed.Prerelease() != "" || parsed.Metadata() != "" {
		return fmt.Errorf("%w: %q has prerelease or build metadata", ErrInvalidVersionString, v)
	}
	return nil
}
