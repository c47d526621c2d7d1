package appstore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"appstore-release-client/internal/core/domain"
)

type betaGroupAttributes struct {
	Name              string `json:"name"`
	IsInternalGroup   bool   `json:"isInternalGroup"`
	PublicLinkEnabled bool   `json:"publicLinkEnabled"`
}

type betaGroupCreateAttributes struct {
	Name                   string `json:"name"`
	PublicLinkEnabled      bool   `json:"publicLinkEnabled"`
	PublicLinkLimit        int    `json:"publicLinkLimit,omitempty"`
	PublicLinkLimitEnabled bool   `json:"publicLinkLimitEnabled"`
	FeedbackEnabled        bool   `json:"feedbackEnabled"`
}

func toBetaGroup(appID int64, r resource[betaGroupAttributes]) domain.BetaGroup {
	return domain.BetaGroup{
		ID:                r.ID,
		AppID:             appID,
		Name:              r.Attributes.Name,
		IsInternalGroup:   r.Attributes.IsInternalGroup,
		PublicLinkEnabled: r.Attributes.PublicLinkEnabled,
	}
}

// ListBetaGroups returns the external beta groups of an app named name.
func (c *client) ListBetaGroups(ctx context.Context, appID int64, name string) ([]domain.BetaGroup, error) {
	q := url.Values{}
	q.Set("filter[app]", strconv.FormatInt(appID, 10))
	q.Set("filter[isInternalGroup]", "false")
	if name != "" {
		q.Set("filter[name]", name)
	}

	res, err := list[betaGroupAttributes](ctx, c, "list beta groups", "/v1/betaGroups", q)
	if err != nil {
		return nil, err
	}
	groups := make([]domain.BetaGroup, 0, len(res))
	for _, r := range res {
		groups = append(groups, toBetaGroup(appID, r))
	}
	return groups, nil
}

func (c *client) CreateBetaGroup(ctx context.Context, appID int64, create domain.BetaGroupCreate) (*domain.BetaGroup, error) {
	body := requestDocument{Data: resourceObject{
		Type: "betaGroups",
		Attributes: betaGroupCreateAttributes{
			Name:                   create.Name,
			PublicLinkEnabled:      create.PublicLinkEnabled,
			PublicLinkLimit:        create.PublicLinkLimit,
			PublicLinkLimitEnabled: create.PublicLinkLimit > 0,
			FeedbackEnabled:        create.FeedbackEnabled,
		},
		Relationships: map[string]relationship{
			"app": toOne("apps", strconv.FormatInt(appID, 10)),
		},
	}}

	var doc singleDocument[betaGroupAttributes]
	if err := c.do(ctx, "create beta group", http.MethodPost, c.url("/v1/betaGroups", nil), body, &doc); err != nil {
		return nil, err
	}
	group := toBetaGroup(appID, doc.Data)
	return &group, nil
}

func (c *client) AddBuildToGroups(ctx context.Context, buildID string, groupIDs ...string) error {
	data := make([]resourceIdentifier, 0, len(groupIDs))
	for _, id := range groupIDs {
		data = append(data, resourceIdentifier{Type: "betaGroups", ID: id})
	}
	path := "/v1/builds/" + url.PathEscape(buildID) + "/relationships/betaGroups"
	return c.do(ctx, "add build to beta groups", http.MethodPost, c.url(path, nil), requestDocument{Data: data}, nil)
}

func (c *client) CreateBetaNotification(ctx context.Context, buildID string) error {
	body := requestDocument{Data: resourceObject{
		Type: "buildBetaNotifications",
		Relationships: map[string]relationship{
			"build": toOne("builds", buildID),
		},
	}}
	return c.do(ctx, "notify beta testers", http.MethodPost, c.url("/v1/buildBetaNotifications", nil), body, nil)
}
