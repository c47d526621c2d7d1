package domain

// ReviewDetails are the contact and demo-account details shown to the reviewer.
// Nil fields are not sent.
type ReviewDetails struct {
	ContactFirstName    *string `json:"contactFirstName,omitempty"`
	ContactLastName     *string `json:"contactLastName,omitempty"`
	ContactPhone        *string `json:"contactPhone,omitempty"`
	ContactEmail        *string `json:"contactEmail,omitempty"`
	DemoAccountName     *string `json:"demoAccountName,omitempty"`
	DemoAccountPassword *string `json:"demoAccountPassword,omitempty"`
	DemoAccountRequired *bool   `json:"demoAccountRequired,omitempty"`
	Notes               *string `json:"notes,omitempty"`
}

type ReviewDetail struct {
	ID         string
	VersionID  string
	Attributes ReviewDetails
}

// SubmitForReviewOptions configures the steps performed before a version is submitted.
// Every field is optional; the zero value submits the version as it is.
type SubmitForReviewOptions struct {
	// AutoCreateVersion ensures the version exists, renaming an unreleased version on conflict.
	AutoCreateVersion bool
	// AutoReleaseOnApproval sets the release type when non-nil.
	AutoReleaseOnApproval *bool
	AutoAttachBuildID     string
	// ReleaseNotes override whatsNew of the matching localizations.
	ReleaseNotes      []ReleaseNote
	ReviewDetails     *ReviewDetails
	VersionAttributes *VersionUpdate
	Localizations     []Localization
}
