package appstore

import (
	"context"
	"net/http"
	"net/url"

	"appstore-release-client/internal/core/domain"
)

type localizationAttributes struct {
	Locale string `json:"locale"`
	domain.LocalizationAttributes
}

func (c *client) ListLocalizations(ctx context.Context, versionID string) ([]domain.VersionLocalization, error) {
	res, err := list[localizationAttributes](ctx, c, "list localizations", versionPath(versionID)+"/appStoreVersionLocalizations", nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VersionLocalization, 0, len(res))
	for _, r := range res {
		out = append(out, domain.VersionLocalization{
			ID:         r.ID,
			Locale:     r.Attributes.Locale,
			Attributes: r.Attributes.LocalizationAttributes,
		})
	}
	return out, nil
}

func (c *client) CreateLocalization(ctx context.Context, versionID string, loc domain.Localization) error {
	body := requestDocument{Data: resourceObject{
		Type: "appStoreVersionLocalizations",
		Attributes: localizationAttributes{
			Locale:                 loc.Locale,
			LocalizationAttributes: loc.Attributes,
		},
		Relationships: map[string]relationship{
			"appStoreVersion": toOne("appStoreVersions", versionID),
		},
	}}
	return c.do(ctx, "create localization "+loc.Locale, http.MethodPost, c.url("/v1/appStoreVersionLocalizations", nil), body, nil)
}

func (c *client) UpdateLocalization(ctx context.Context, localizationID string, attrs domain.LocalizationAttributes) error {
	body := requestDocument{Data: resourceObject{
		Type:       "appStoreVersionLocalizations",
		ID:         localizationID,
		Attributes: attrs,
	}}
	path := "/v1/appStoreVersionLocalizations/" + url.PathEscape(localizationID)
	return c.do(ctx, "update localization", http.MethodPatch, c.url(path, nil), body, nil)
}
