package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"appstore-release-client/internal/core/domain"
	"appstore-release-client/internal/testutil"
)

var testApp = domain.AppIdentity{AppID: 42, Version: "1.2.0", Platform: domain.PlatformIOS}

func apiError(status int, details ...string) error {
	return &domain.APIError{Op: "test", StatusCode: status, Details: details}
}

func conflict(details ...string) error {
	return apiError(http.StatusConflict, details...)
}

func TestResolver_BuildID(t *testing.T) {
	tests := []struct {
		name    string
		builds  []domain.Build
		wantID  string
		wantErr error
	}{
		{name: "single match", builds: []domain.Build{{ID: "b-1"}}, wantID: "b-1"},
		{name: "no match", builds: []domain.Build{}, wantErr: domain.ErrNotFound},
		{name: "several matches", builds: []domain.Build{{ID: "b-1"}, {ID: "b-2"}}, wantErr: domain.ErrAmbiguousResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(testutil.MockAppStoreAPI)
			r := NewResolver(api, api)

			api.On("ListBuilds", mock.Anything, domain.BuildFilter{
				AppID: 42, BuildNumber: "100", Version: "1.2.0", Platform: domain.PlatformIOS,
			}).Return(tt.builds, nil)

			id, err := r.BuildID(context.Background(), testApp, "100")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolver_BuildID_LookupErrorMessage(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	r := NewResolver(api, api)
	api.On("ListBuilds", mock.Anything, mock.Anything).Return([]domain.Build{{ID: "a"}, {ID: "b"}}, nil)

	_, err := r.BuildID(context.Background(), testApp, "100")

	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, 2, lookupErr.Count)
	assert.Contains(t, err.Error(), "build number 100")
}

func TestResolver_VersionID(t *testing.T) {
	tests := []struct {
		name     string
		versions []domain.Version
		wantID   string
		wantErr  error
	}{
		{name: "single match", versions: []domain.Version{{ID: "ver-1"}}, wantID: "ver-1"},
		{name: "no match", versions: nil, wantErr: domain.ErrNotFound},
		{name: "several matches", versions: []domain.Version{{ID: "ver-1"}, {ID: "ver-2"}}, wantErr: domain.ErrAmbiguousResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(testutil.MockAppStoreAPI)
			r := NewResolver(api, api)

			api.On("ListVersions", mock.Anything, int64(42), domain.VersionFilter{
				VersionString: "1.2.0", Platform: domain.PlatformIOS,
			}).Return(tt.versions, nil)

			id, err := r.VersionID(context.Background(), testApp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolver_VersionID_NormalizesPlatform(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	r := NewResolver(api, api)
	api.On("ListVersions", mock.Anything, int64(42), domain.VersionFilter{
		VersionString: "1.2.0", Platform: domain.PlatformIOS,
	}).Return([]domain.Version{{ID: "ver-1"}}, nil)

	id, err := r.VersionID(context.Background(), domain.AppIdentity{AppID: 42, Version: "1.2.0", Platform: "ios"})
	require.NoError(t, err)
	assert.Equal(t, "ver-1", id)
}

func TestResolver_VersionID_TransportError(t *testing.T) {
	api := new(testutil.MockAppStoreAPI)
	r := NewResolver(api, api)
	api.On("ListVersions", mock.Anything, int64(42), mock.Anything).Return(nil, apiError(http.StatusInternalServerError, "boom"))

	_, err := r.VersionID(context.Background(), testApp)
	assert.Equal(t, http.StatusInternalServerError, domain.StatusCode(err))
}
