package domain

import "time"

type ProcessingState string

const (
	// ProcessingStateUnknown is never returned by the API. It stands for a build that is
	// not observable yet: no match for the query, or the query returned 404.
	ProcessingStateUnknown    ProcessingState = "UNKNOWN"
	ProcessingStateProcessing ProcessingState = "PROCESSING"
	ProcessingStateValid      ProcessingState = "VALID"
	ProcessingStateInvalid    ProcessingState = "INVALID"
	ProcessingStateFailed     ProcessingState = "FAILED"
)

func (s ProcessingState) IsWaiting() bool {
	return s == ProcessingStateUnknown || s == ProcessingStateProcessing
}

func (s ProcessingState) IsFailed() bool {
	return s == ProcessingStateInvalid || s == ProcessingStateFailed
}

type Build struct {
	ID                      string          `json:"id"`
	Version                 string          `json:"version"`
	ProcessingState         ProcessingState `json:"processing_state"`
	UploadedDate            time.Time       `json:"uploaded_date"`
	ExpirationDate          time.Time       `json:"expiration_date"`
	Expired                 bool            `json:"expired"`
	MinOSVersion            string          `json:"min_os_version"`
	UsesNonExemptEncryption *bool           `json:"uses_non_exempt_encryption,omitempty"`
}

type BuildStatus struct {
	ProcessingState ProcessingState `json:"processing_state"`
}

// BuildUpdate holds the build attributes that may be patched. Nil fields are left untouched.
type BuildUpdate struct {
	Expired                 *bool `json:"expired,omitempty"`
	UsesNonExemptEncryption *bool `json:"usesNonExemptEncryption,omitempty"`
}

// BuildFilter narrows a builds list query. Zero fields are not sent.
type BuildFilter struct {
	ID          string
	AppID       int64
	BuildNumber string
	Version     string
	Platform    Platform
}
