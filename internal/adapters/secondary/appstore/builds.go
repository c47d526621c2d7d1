package appstore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"appstore-release-client/internal/core/domain"
)

const buildFields = "version,processingState,uploadedDate,expirationDate,expired,minOsVersion,usesNonExemptEncryption"

type buildAttributes struct {
	Version                 string                 `json:"version"`
	ProcessingState         domain.ProcessingState `json:"processingState"`
	UploadedDate            time.Time              `json:"uploadedDate"`
	ExpirationDate          time.Time              `json:"expirationDate"`
	Expired                 bool                   `json:"expired"`
	MinOSVersion            string                 `json:"minOsVersion"`
	UsesNonExemptEncryption *bool                  `json:"usesNonExemptEncryption"`
}

func toBuild(r resource[buildAttributes]) domain.Build {
	return domain.Build{
		ID:                      r.ID,
		Version:                 r.Attributes.Version,
		ProcessingState:         r.Attributes.ProcessingState,
		UploadedDate:            r.Attributes.UploadedDate,
		ExpirationDate:          r.Attributes.ExpirationDate,
		Expired:                 r.Attributes.Expired,
		MinOSVersion:            r.Attributes.MinOSVersion,
		UsesNonExemptEncryption: r.Attributes.UsesNonExemptEncryption,
	}
}

func buildQuery(filter domain.BuildFilter) url.Values {
	q := url.Values{}
	q.Set("fields[builds]", buildFields)
	if filter.ID != "" {
		q.Set("filter[id]", filter.ID)
	}
	if filter.AppID != 0 {
		q.Set("filter[app]", strconv.FormatInt(filter.AppID, 10))
	}
	if filter.BuildNumber != "" {
		q.Set("filter[version]", filter.BuildNumber)
	}
	if filter.Version != "" {
		q.Set("filter[preReleaseVersion.version]", filter.Version)
	}
	if filter.Platform != "" {
		q.Set("filter[preReleaseVersion.platform]", string(filter.Platform.Normalize()))
	}
	return q
}

func (c *client) ListBuilds(ctx context.Context, filter domain.BuildFilter) ([]domain.Build, error) {
	res, err := list[buildAttributes](ctx, c, "list builds", "/v1/builds", buildQuery(filter))
	if err != nil {
		return nil, err
	}
	builds := make([]domain.Build, 0, len(res))
	for _, r := range res {
		builds = append(builds, toBuild(r))
	}
	return builds, nil
}

func (c *client) GetBuild(ctx context.Context, buildID string) (*domain.Build, error) {
	q := url.Values{}
	q.Set("fields[builds]", buildFields)

	var doc singleDocument[buildAttributes]
	if err := c.do(ctx, "get build", http.MethodGet, c.url("/v1/builds/"+url.PathEscape(buildID), q), nil, &doc); err != nil {
		return nil, err
	}
	build := toBuild(doc.Data)
	return &build, nil
}

func (c *client) UpdateBuild(ctx context.Context, buildID string, update domain.BuildUpdate) error {
	body := requestDocument{Data: resourceObject{
		Type:       "builds",
		ID:         buildID,
		Attributes: update,
	}}
	return c.do(ctx, "update build", http.MethodPatch, c.url("/v1/builds/"+url.PathEscape(buildID), nil), body, nil)
}
