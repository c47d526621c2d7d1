package appstore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"appstore-release-client/internal/core/domain"
)

type versionAttributes struct {
	VersionString string               `json:"versionString"`
	Platform      domain.Platform      `json:"platform"`
	AppStoreState domain.AppStoreState `json:"appStoreState"`
	ReleaseType   domain.ReleaseType   `json:"releaseType"`
	Copyright     string               `json:"copyright"`
	CreatedDate   time.Time            `json:"createdDate"`
}

type versionCreateAttributes struct {
	VersionString string             `json:"versionString"`
	Platform      domain.Platform    `json:"platform"`
	Copyright     string             `json:"copyright"`
	ReleaseType   domain.ReleaseType `json:"releaseType"`
	UsesIdfa      bool               `json:"usesIdfa"`
}

func toVersion(r resource[versionAttributes]) domain.Version {
	return domain.Version{
		ID:            r.ID,
		VersionString: r.Attributes.VersionString,
		Platform:      r.Attributes.Platform,
		AppStoreState: r.Attributes.AppStoreState,
		ReleaseType:   r.Attributes.ReleaseType,
		Copyright:     r.Attributes.Copyright,
		CreatedDate:   r.Attributes.CreatedDate,
	}
}

func versionPath(versionID string) string {
	return "/v1/appStoreVersions/" + url.PathEscape(versionID)
}

func (c *client) ListVersions(ctx context.Context, appID int64, filter domain.VersionFilter) ([]domain.Version, error) {
	q := url.Values{}
	if filter.VersionString != "" {
		q.Set("filter[versionString]", filter.VersionString)
	}
	if filter.Platform != "" {
		q.Set("filter[platform]", string(filter.Platform.Normalize()))
	}
	if len(filter.States) > 0 {
		states := make([]string, 0, len(filter.States))
		for _, s := range filter.States {
			states = append(states, string(s))
		}
		q.Set("filter[appStoreState]", strings.Join(states, ","))
	}

	path := "/v1/apps/" + strconv.FormatInt(appID, 10) + "/appStoreVersions"
	res, err := list[versionAttributes](ctx, c, "list versions", path, q)
	if err != nil {
		return nil, err
	}
	versions := make([]domain.Version, 0, len(res))
	for _, r := range res {
		versions = append(versions, toVersion(r))
	}
	return versions, nil
}

func (c *client) CreateVersion(ctx context.Context, appID int64, create domain.VersionCreate) (*domain.Version, error) {
	body := requestDocument{Data: resourceObject{
		Type: "appStoreVersions",
		Attributes: versionCreateAttributes{
			VersionString: create.VersionString,
			Platform:      create.Platform.Normalize(),
			Copyright:     create.Copyright,
			ReleaseType:   create.ReleaseType,
			UsesIdfa:      create.UsesIdfa,
		},
		Relationships: map[string]relationship{
			"app": toOne("apps", strconv.FormatInt(appID, 10)),
		},
	}}

	var doc singleDocument[versionAttributes]
	if err := c.do(ctx, "create version", http.MethodPost, c.url("/v1/appStoreVersions", nil), body, &doc); err != nil {
		return nil, err
	}
	version := toVersion(doc.Data)
	return &version, nil
}

func (c *client) UpdateVersion(ctx context.Context, versionID string, update domain.VersionUpdate) error {
	body := requestDocument{Data: resourceObject{
		Type:       "appStoreVersions",
		ID:         versionID,
		Attributes: update,
	}}
	return c.do(ctx, "update version", http.MethodPatch, c.url(versionPath(versionID), nil), body, nil)
}

func (c *client) AttachBuild(ctx context.Context, versionID, buildID string) error {
	body := requestDocument{Data: resourceIdentifier{Type: "builds", ID: buildID}}
	return c.do(ctx, "attach build", http.MethodPatch, c.url(versionPath(versionID)+"/relationships/build", nil), body, nil)
}

func (c *client) CreateSubmission(ctx context.Context, versionID string) error {
	body := requestDocument{Data: resourceObject{
		Type: "appStoreVersionSubmissions",
		Relationships: map[string]relationship{
			"appStoreVersion": toOne("appStoreVersions", versionID),
		},
	}}
	return c.do(ctx, "submit for review", http.MethodPost, c.url("/v1/appStoreVersionSubmissions", nil), body, nil)
}
