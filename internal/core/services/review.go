package services

import (
	"context"
	"errors"
	"fmt"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

type ReviewService struct {
	api ports.ReleaseAPI
}

func NewReviewService(api ports.ReleaseAPI) *ReviewService {
	return &ReviewService{api: api}
}

// SetReviewDetails creates the review detail of a version, or updates it when one exists.
func (s *ReviewService) SetReviewDetails(ctx context.Context, versionID string, details domain.ReviewDetails) error {
	current, err := s.api.GetReviewDetail(ctx, versionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("fetch review detail for version %s: %w", versionID, err)
		}
		if err := s.api.CreateReviewDetail(ctx, versionID, details); err != nil {
			return fmt.Errorf("create review detail for version %s: %w", versionID, err)
		}
		return nil
	}

	if err := s.api.UpdateReviewDetail(ctx, current.ID, details); err != nil {
		return fmt.Errorf("update review detail %s for version %s: %w", current.ID, versionID, err)
	}
	return nil
}
