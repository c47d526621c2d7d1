package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"appstore-release-client/internal/core/domain"
)

// MockAppStoreAPI is a mock of AppStoreAPI.
type MockAppStoreAPI struct {
	mock.Mock
}

func (m *MockAppStoreAPI) ListBuilds(ctx context.Context, filter domain.BuildFilter) ([]domain.Build, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Build), args.Error(1)
}

func (m *MockAppStoreAPI) GetBuild(ctx context.Context, buildID string) (*domain.Build, error) {
	args := m.Called(ctx, buildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Build), args.Error(1)
}

func (m *MockAppStoreAPI) UpdateBuild(ctx context.Context, buildID string, update domain.BuildUpdate) error {
	args := m.Called(ctx, buildID, update)
	return args.Error(0)
}

func (m *MockAppStoreAPI) ListVersions(ctx context.Context, appID int64, filter domain.VersionFilter) ([]domain.Version, error) {
	args := m.Called(ctx, appID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Version), args.Error(1)
}

func (m *MockAppStoreAPI) CreateVersion(ctx context.Context, appID int64, create domain.VersionCreate) (*domain.Version, error) {
	args := m.Called(ctx, appID, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Version), args.Error(1)
}

func (m *MockAppStoreAPI) UpdateVersion(ctx context.Context, versionID string, update domain.VersionUpdate) error {
	args := m.Called(ctx, versionID, update)
	return args.Error(0)
}

func (m *MockAppStoreAPI) AttachBuild(ctx context.Context, versionID, buildID string) error {
	args := m.Called(ctx, versionID, buildID)
	return args.Error(0)
}

func (m *MockAppStoreAPI) ListLocalizations(ctx context.Context, versionID string) ([]domain.VersionLocalization, error) {
	args := m.Called(ctx, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VersionLocalization), args.Error(1)
}

func (m *MockAppStoreAPI) CreateLocalization(ctx context.Context, versionID string, loc domain.Localization) error {
	args := m.Called(ctx, versionID, loc)
	return args.Error(0)
}

func (m *MockAppStoreAPI) UpdateLocalization(ctx context.Context, localizationID string, attrs domain.LocalizationAttributes) error {
	args := m.Called(ctx, localizationID, attrs)
	return args.Error(0)
}

func (m *MockAppStoreAPI) GetReviewDetail(ctx context.Context, versionID string) (*domain.ReviewDetail, error) {
	args := m.Called(ctx, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewDetail), args.Error(1)
}

func (m *MockAppStoreAPI) CreateReviewDetail(ctx context.Context, versionID string, attrs domain.ReviewDetails) error {
	args := m.Called(ctx, versionID, attrs)
	return args.Error(0)
}

func (m *MockAppStoreAPI) UpdateReviewDetail(ctx context.Context, reviewDetailID string, attrs domain.ReviewDetails) error {
	args := m.Called(ctx, reviewDetailID, attrs)
	return args.Error(0)
}

func (m *MockAppStoreAPI) CreateSubmission(ctx context.Context, versionID string) error {
	args := m.Called(ctx, versionID)
	return args.Error(0)
}

func (m *MockAppStoreAPI) ListBetaGroups(ctx context.Context, appID int64, name string) ([]domain.BetaGroup, error) {
	args := m.Called(ctx, appID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BetaGroup), args.Error(1)
}

func (m *MockAppStoreAPI) CreateBetaGroup(ctx context.Context, appID int64, create domain.BetaGroupCreate) (*domain.BetaGroup, error) {
	args := m.Called(ctx, appID, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BetaGroup), args.Error(1)
}

func (m *MockAppStoreAPI) AddBuildToGroups(ctx context.Context, buildID string, groupIDs ...string) error {
	args := m.Called(ctx, buildID, groupIDs)
	return args.Error(0)
}

func (m *MockAppStoreAPI) CreateBetaNotification(ctx context.Context, buildID string) error {
	args := m.Called(ctx, buildID)
	return args.Error(0)
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }
