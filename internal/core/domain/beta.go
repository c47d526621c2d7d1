package domain

type BetaGroup struct {
	ID                string `json:"id"`
	AppID             int64  `json:"app_id"`
	Name              string `json:"name"`
	IsInternalGroup   bool   `json:"is_internal_group"`
	PublicLinkEnabled bool   `json:"public_link_enabled"`
}

type BetaGroupCreate struct {
	Name              string
	PublicLinkEnabled bool
	PublicLinkLimit   int
	FeedbackEnabled   bool
}

type CreateGroupOptions struct {
	// AllowDuplicates skips the existing-name check before creating.
	AllowDuplicates   bool
	PublicLinkEnabled bool
	PublicLinkLimit   int
	FeedbackEnabled   bool
}

type AddBuildOptions struct {
	CreateGroupIfNotExists bool
	NotifyBetaTesters      bool
	// IgnoreIfNotificationEnabled treats an already-sent notification as success.
	IgnoreIfNotificationEnabled bool
}

type NotifyOptions struct {
	IgnoreIfEnabled bool
}
