package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"appstore-release-client/internal/core/domain"
	"appstore-release-client/internal/testutil"
)

var exactVersion = domain.VersionFilter{VersionString: "1.2.0", Platform: domain.PlatformIOS}

var renamable = domain.VersionFilter{Platform: domain.PlatformIOS, States: domain.RenamableStates}

func renameOnConflict() domain.EnsureVersionOptions {
	return domain.EnsureVersionOptions{UpdateVersionStringIfUnreleasedVersionExists: true}
}

func TestVersionService_EnsureVersionExists_AlreadyExists(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)
	api.On("ListVersions", mock.Anything, int64(42), exactVersion).Return([]domain.Version{{ID: "ver-1"}}, nil)

	err := svc.EnsureVersionExists(context.Background(), testApp, domain.EnsureVersionOptions{})
	require.NoError(t, err)
	api.AssertNotCalled(t, "CreateVersion", mock.Anything, mock.Anything, mock.Anything)
}

func TestVersionService_EnsureVersionExists_Ambiguous(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)
	api.On("ListVersions", mock.Anything, int64(42), exactVersion).Return([]domain.Version{{ID: "ver-1"}, {ID: "ver-2"}}, nil)

	err := svc.EnsureVersionExists(context.Background(), testApp, domain.EnsureVersionOptions{})
	assert.ErrorIs(t, err, domain.ErrAmbiguousResult)
	api.AssertNotCalled(t, "CreateVersion", mock.Anything, mock.Anything, mock.Anything)
}

func TestVersionService_EnsureVersionExists_Creates(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)
	api.On("ListVersions", mock.Anything, int64(42), exactVersion).Return([]domain.Version{}, nil)
	api.On("CreateVersion", mock.Anything, int64(42), domain.VersionCreate{
		VersionString: "1.2.0",
		Platform:      domain.PlatformIOS,
		Copyright:     "2026 Example",
		ReleaseType:   domain.ReleaseTypeAfterApproval,
	}).Return(&domain.Version{ID: "ver-9"}, nil)

	err := svc.EnsureVersionExists(context.Background(), testApp, domain.EnsureVersionOptions{
		CreateOptions: domain.CreateVersionOptions{AutoRelease: true, Copyright: "2026 Example"},
	})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestVersionService_EnsureVersionExists_RenamesUnreleasedVersion(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)
	api.On("ListVersions", mock.Anything, int64(42), exactVersion).Return([]domain.Version{}, nil)
	api.On("CreateVersion", mock.Anything, int64(42), mock.Anything).
		Return(nil, conflict("You cannot create a new version of the App in the current state."))
	api.On("ListVersions", mock.Anything, int64(42), renamable).
		Return([]domain.Version{{ID: "ver-3", VersionString: "1.1.0"}}, nil)
	api.On("UpdateVersion", mock.Anything, "ver-3", mock.MatchedBy(func(u domain.VersionUpdate) bool {
		return u.VersionString != nil && *u.VersionString == "1.2.0" && u.ReleaseType == nil
	})).Return(nil)

	err := svc.EnsureVersionExists(context.Background(), testApp, renameOnConflict())
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestVersionService_EnsureVersionExists_RenameCandidates(t *testing.T) {
	tests := []struct {
		name       string
		candidates []domain.Version
		wantErr    error
	}{
		{name: "none", candidates: []domain.Version{}, wantErr: domain.ErrNotFound},
		{name: "several", candidates: []domain.Version{{ID: "ver-3"}, {ID: "ver-4"}}, wantErr: domain.ErrAmbiguousResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(testutil.MockAppStoreAPI)
			svc := NewVersionService(api, NewResolver(api, api), nil)
			api.On("ListVersions", mock.Anything, int64(42), exactVersion).Return([]domain.Version{}, nil)
			api.On("CreateVersion", mock.Anything, int64(42), mock.Anything).Return(nil, conflict())
			api.On("ListVersions", mock.Anything, int64(42), renamable).Return(tt.candidates, nil)

			err := svc.EnsureVersionExists(context.Background(), testApp, renameOnConflict())
			assert.ErrorIs(t, err, tt.wantErr)
			api.AssertNotCalled(t, "UpdateVersion", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestVersionService_EnsureVersionExists_ConflictWithoutRename(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)
	api.On("ListVersions", mock.Anything, int64(42), exactVersion).Return([]domain.Version{}, nil)
	api.On("CreateVersion", mock.Anything, int64(42), mock.Anything).Return(nil, conflict("version exists"))

	err := svc.EnsureVersionExists(context.Background(), testApp, domain.EnsureVersionOptions{})
	assert.ErrorIs(t, err, domain.ErrConflict)
	api.AssertNumberOfCalls(t, "ListVersions", 1)
}

func TestVersionService_CreateVersion_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		app     domain.AppIdentity
		wantErr error
	}{
		{name: "v prefix", app: domain.AppIdentity{AppID: 42, Version: "v1.2", Platform: domain.PlatformIOS}, wantErr: domain.ErrInvalidVersionString},
		{name: "prerelease", app: domain.AppIdentity{AppID: 42, Version: "1.2.0-beta", Platform: domain.PlatformIOS}, wantErr: domain.ErrInvalidVersionString},
		{name: "empty", app: domain.AppIdentity{AppID: 42, Platform: domain.PlatformIOS}, wantErr: domain.ErrInvalidVersionString},
		{name: "platform", app: domain.AppIdentity{AppID: 42, Version: "1.2", Platform: "WATCH_OS"}, wantErr: domain.ErrInvalidPlatform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(testutil.MockAppStoreAPI)
			svc := NewVersionService(api, NewResolver(api, api), nil)

			err := svc.CreateVersion(context.Background(), tt.app, domain.CreateVersionOptions{})
			assert.ErrorIs(t, err, tt.wantErr)
			api.AssertNotCalled(t, "CreateVersion", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestVersionService_CreateVersion_ManualByDefault(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	repo := &testutil.MemoryJournal{}
	svc := NewVersionService(api, NewResolver(api, api), repo)
	api.On("CreateVersion", mock.Anything, int64(42), mock.MatchedBy(func(c domain.VersionCreate) bool {
		return c.ReleaseType == domain.ReleaseTypeManual && c.Platform == domain.PlatformMacOS
	})).Return(&domain.Version{ID: "ver-1"}, nil)

	err := svc.CreateVersion(context.Background(),
		domain.AppIdentity{AppID: 42, Version: "2.0", Platform: "mac_os"}, domain.CreateVersionOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.JournalAction{domain.JournalActionVersionCreated}, repo.Actions())
}

func TestVersionService_UpdateVersion_SkipsEmptyUpdate(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)

	require.NoError(t, svc.UpdateVersion(context.Background(), "ver-1", domain.VersionUpdate{}))
	api.AssertNotCalled(t, "UpdateVersion", mock.Anything, mock.Anything, mock.Anything)
}

func TestVersionService_AttachBuildToVersion(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)
	api.On("ListVersions", mock.Anything, int64(42), exactVersion).Return([]domain.Version{{ID: "ver-1"}}, nil)
	api.On("AttachBuild", mock.Anything, "ver-1", "b-1").Return(nil)

	require.NoError(t, svc.AttachBuildToVersion(context.Background(), testApp, "b-1"))
	api.AssertExpectations(t)
}

func TestVersionService_AttachBuildToVersionByID_RequiresBuild(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	svc := NewVersionService(api, NewResolver(api, api), nil)

	assert.Error(t, svc.AttachBuildToVersionByID(context.Background(), "ver-1", ""))
	api.AssertNotCalled(t, "AttachBuild", mock.Anything, mock.Anything, mock.Anything)
}
