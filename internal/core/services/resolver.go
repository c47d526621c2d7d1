package services

import (
	"context"
	"fmt"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

// Resolver maps app identities onto App Store Connect resource ids.
// Zero or several matches are errors; nothing is retried.
type Resolver struct {
	builds   ports.BuildAPI
	releases ports.ReleaseAPI
}

func NewResolver(builds ports.BuildAPI, releases ports.ReleaseAPI) *Resolver {
	return &Resolver{builds: builds, releases: releases}
}

// BuildID resolves the build uploaded for app. An empty buildNumber matches any build number.
func (r *Resolver) BuildID(ctx context.Context, app domain.AppIdentity, buildNumber string) (string, error) {
	builds, err := r.builds.ListBuilds(ctx, buildFilter(app, buildNumber))
	if err != nil {
		return "", fmt.Errorf("fetch build for %s, build number %q: %w", app, buildNumber, err)
	}
	if err := domain.ExpectOne("build", buildCriteria(app, buildNumber), len(builds)); err != nil {
		return "", err
	}
	return builds[0].ID, nil
}

func (r *Resolver) VersionID(ctx context.Context, app domain.AppIdentity) (string, error) {
	v, err := r.Version(ctx, app)
	if err != nil {
		return "", err
	}
	return v.ID, nil
}

func (r *Resolver) Version(ctx context.Context, app domain.AppIdentity) (*domain.Version, error) {
	versions, err := r.releases.ListVersions(ctx, app.AppID, domain.VersionFilter{
		VersionString: app.Version,
		Platform:      app.Platform.Normalize(),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch version for %s: %w", app, err)
	}
	if err := domain.ExpectOne("version", app.String(), len(versions)); err != nil {
		return nil, err
	}
	return &versions[0], nil
}

func buildFilter(app domain.AppIdentity, buildNumber string) domain.BuildFilter {
	return domain.BuildFilter{
		AppID:       app.AppID,
		BuildNumber: buildNumber,
		Version:     app.Version,
		Platform:    app.Platform.Normalize(),
	}
}

func buildCriteria(app domain.AppIdentity, buildNumber string) string {
	if buildNumber == "" {
		return app.String()
	}
	return fmt.Sprintf("%s, build number %s", app, buildNumber)
}
