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

func TestReviewService_SetReviewDetails(t *testing.T) {
	details := domain.ReviewDetails{ContactEmail: domain.String("qa@example.com"), DemoAccountRequired: domain.Bool(false)}

	t.Run("creates when absent", func(t *testing.T) {
		api := new(testutil.MockAppStoreAPI)
		svc := NewReviewService(api)
		api.On("GetReviewDetail", mock.Anything, "ver-1").Return(nil, apiError(http.StatusNotFound))
		api.On("CreateReviewDetail", mock.Anything, "ver-1", details).Return(nil)

		require.NoError(t, svc.SetReviewDetails(context.Background(), "ver-1", details))
		api.AssertExpectations(t)
	})

	t.Run("updates when present", func(t *testing.T) {
		api := new(testutil.MockAppStoreAPI)
		svc := NewReviewService(api)
		api.On("GetReviewDetail", mock.Anything, "ver-1").Return(&domain.ReviewDetail{ID: "rev-1", VersionID: "ver-1"}, nil)
		api.On("UpdateReviewDetail", mock.Anything, "rev-1", details).Return(nil)

		require.NoError(t, svc.SetReviewDetails(context.Background(), "ver-1", details))
		api.AssertNotCalled(t, "CreateReviewDetail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("probe failure propagates", func(t *testing.T) {
		api := new(testutil.MockAppStoreAPI)
		svc := NewReviewService(api)
		api.On("GetReviewDetail", mock.Anything, "ver-1").Return(nil, apiError(http.StatusInternalServerError))

		err := svc.SetReviewDetails(context.Background(), "ver-1", details)
		assert.Equal(t, http.StatusInternalServerError, domain.StatusCode(err))
		api.AssertNotCalled(t, "CreateReviewDetail", mock.Anything, mock.Anything, mock.Anything)
	})
}
