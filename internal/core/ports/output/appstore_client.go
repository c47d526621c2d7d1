package ports

import (
	"context"

	"appstore-release-client/internal/core/domain"
)

// BuildAPI defines the contract for the builds endpoints
type BuildAPI interface {
	ListBuilds(ctx context.Context, filter domain.BuildFilter) ([]domain.Build, error)
	GetBuild(ctx context.Context, buildID string) (*domain.Build, error)
	UpdateBuild(ctx context.Context, buildID string, update domain.BuildUpdate) error
}

// ReleaseAPI defines the contract for app store versions and everything hanging off them
type ReleaseAPI interface {
	ListVersions(ctx context.Context, appID int64, filter domain.VersionFilter) ([]domain.Version, error)
	CreateVersion(ctx context.Context, appID int64, create domain.VersionCreate) (*domain.Version, error)
	UpdateVersion(ctx context.Context, versionID string, update domain.VersionUpdate) error
	AttachBuild(ctx context.Context, versionID, buildID string) error

	ListLocalizations(ctx context.Context, versionID string) ([]domain.VersionLocalization, error)
	CreateLocalization(ctx context.Context, versionID string, loc domain.Localization) error
	UpdateLocalization(ctx context.Context, localizationID string, attrs domain.LocalizationAttributes) error

	// GetReviewDetail returns an *domain.APIError with status 404 when the version has none.
	GetReviewDetail(ctx context.Context, versionID string) (*domain.ReviewDetail, error)
	CreateReviewDetail(ctx context.Context, versionID string, attrs domain.ReviewDetails) error
	UpdateReviewDetail(ctx context.Context, reviewDetailID string, attrs domain.ReviewDetails) error

	CreateSubmission(ctx context.Context, versionID string) error
}

// BetaAPI defines the contract for the TestFlight endpoints
type BetaAPI interface {
	ListBetaGroups(ctx context.Context, appID int64, name string) ([]domain.BetaGroup, error)
	CreateBetaGroup(ctx context.Context, appID int64, create domain.BetaGroupCreate) (*domain.BetaGroup, error)
	AddBuildToGroups(ctx context.Context, buildID string, groupIDs ...string) error
	CreateBetaNotification(ctx context.Context, buildID string) error
}

// AppStoreAPI is the full App Store Connect surface used by the services
type AppStoreAPI interface {
	BuildAPI
	ReleaseAPI
	BetaAPI
}

// TokenSource hands out the bearer token sent with every request
type TokenSource interface {
	Token() (string, error)
}
