package appstore

import (
	"context"
	"net/http"
	"net/url"

	"appstore-release-client/internal/core/domain"
)

func (c *client) GetReviewDetail(ctx context.Context, versionID string) (*domain.ReviewDetail, error) {
	var doc singleDocument[domain.ReviewDetails]
	if err := c.do(ctx, "get review detail", http.MethodGet, c.url(versionPath(versionID)+"/appStoreReviewDetail", nil), nil, &doc); err != nil {
		return nil, err
	}
	// a version without review details may also answer 200 with "data": null
	if doc.Data.ID == "" {
		return nil, &domain.APIError{Op: "get review detail", StatusCode: http.StatusNotFound}
	}
	return &domain.ReviewDetail{
		ID:         doc.Data.ID,
		VersionID:  versionID,
		Attributes: doc.Data.Attributes,
	}, nil
}

func (c *client) CreateReviewDetail(ctx context.Context, versionID string, attrs domain.ReviewDetails) error {
	body := requestDocument{Data: resourceObject{
		Type:       "appStoreReviewDetails",
		Attributes: attrs,
		Relationships: map[string]relationship{
			"appStoreVersion": toOne("appStoreVersions", versionID),
		},
	}}
	return c.do(ctx, "create review detail", http.MethodPost, c.url("/v1/appStoreReviewDetails", nil), body, nil)
}

func (c *client) UpdateReviewDetail(ctx context.Context, reviewDetailID string, attrs domain.ReviewDetails) error {
	body := requestDocument{Data: resourceObject{
		Type:       "appStoreReviewDetails",
		ID:         reviewDetailID,
		Attributes: attrs,
	}}
	path := "/v1/appStoreReviewDetails/" + url.PathEscape(reviewDetailID)
	return c.do(ctx, "update review detail", http.MethodPatch, c.url(path, nil), body, nil)
}
