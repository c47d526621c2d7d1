package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

type VersionService struct {
	api      ports.ReleaseAPI
	resolver *Resolver
	journal  journal
}

func NewVersionService(api ports.ReleaseAPI, resolver *Resolver, journalRepo ports.JournalRepository) *VersionService {
	return &VersionService{api: api, resolver: resolver, journal: journal{repo: journalRepo}}
}

func (s *VersionService) VersionID(ctx context.Context, app domain.AppIdentity) (string, error) {
	return s.resolver.VersionID(ctx, app)
}

// EnsureVersionExists creates the version unless it already exists. When creation
// conflicts with an unreleased version and the caller opted in, that version is renamed
// to the requested version string instead.
func (s *VersionService) EnsureVersionExists(ctx context.Context, app domain.AppIdentity, opts domain.EnsureVersionOptions) error {
	existing, err := s.api.ListVersions(ctx, app.AppID, domain.VersionFilter{
		VersionString: app.Version,
		Platform:      app.Platform.Normalize(),
	})
	if err != nil {
		return fmt.Errorf("fetch version for %s: %w", app, err)
	}
	if len(existing) > 1 {
		return domain.ExpectOne("version", app.String(), len(existing))
	}
	if len(existing) == 1 {
		log.WithField("version_id", existing[0].ID).Debugf("version already exists for %s", app)
		return nil
	}

	err = s.CreateVersion(ctx, app, opts.CreateOptions)
	if err == nil {
		return nil
	}
	if domain.IsConflict(err) && opts.UpdateVersionStringIfUnreleasedVersionExists {
		return s.renameUnreleasedVersion(ctx, app)
	}
	return err
}

func (s *VersionService) CreateVersion(ctx context.Context, app domain.AppIdentity, opts domain.CreateVersionOptions) error {
	if err := domain.ValidateVersionString(app.Version); err != nil {
		return err
	}
	if err := app.Platform.Validate(); err != nil {
		return err
	}

	created, err := s.api.CreateVersion(ctx, app.AppID, domain.VersionCreate{
		VersionString: app.Version,
		Platform:      app.Platform.Normalize(),
		Copyright:     opts.Copyright,
		ReleaseType:   domain.ReleaseTypeFor(opts.AutoRelease),
		UsesIdfa:      opts.UsesIdfa,
	})
	if err != nil {
		return fmt.Errorf("create version for %s: %w", app, err)
	}

	log.WithFields(log.Fields{
		"app_id":     app.AppID,
		"version":    app.Version,
		"platform":   app.Platform.Normalize(),
		"version_id": created.ID,
	}).Info("version created")
	s.journal.record(ctx, created.ID, domain.JournalActionVersionCreated, app.String())
	return nil
}

// renameUnreleasedVersion re-targets the single version in a renamable state to app.Version.
func (s *VersionService) renameUnreleasedVersion(ctx context.Context, app domain.AppIdentity) error {
	candidates, err := s.api.ListVersions(ctx, app.AppID, domain.VersionFilter{
		Platform: app.Platform.Normalize(),
		States:   domain.RenamableStates,
	})
	if err != nil {
		return fmt.Errorf("fetch unreleased version for %s: %w", app, err)
	}
	criteria := fmt.Sprintf("app %d, platform %s in a renamable state, when updating the version to %s",
		app.AppID, app.Platform.Normalize(), app.Version)
	if err := domain.ExpectOne("unreleased version", criteria, len(candidates)); err != nil {
		return err
	}

	target := candidates[0]
	if err := s.api.UpdateVersion(ctx, target.ID, domain.VersionUpdate{VersionString: &app.Version}); err != nil {
		return fmt.Errorf("update version string of %s for %s: %w", target.ID, app, err)
	}

	log.WithFields(log.Fields{
		"version_id": target.ID,
		"from":       target.VersionString,
		"to":         app.Version,
	}).Info("unreleased version renamed")
	s.journal.record(ctx, target.ID, domain.JournalActionVersionRenamed,
		fmt.Sprintf("%s -> %s", target.VersionString, app.Version))
	return nil
}

func (s *VersionService) UpdateVersion(ctx context.Context, versionID string, update domain.VersionUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	if err := s.api.UpdateVersion(ctx, versionID, update); err != nil {
		return fmt.Errorf("update version %s: %w", versionID, err)
	}
	return nil
}

func (s *VersionService) AttachBuildToVersion(ctx context.Context, app domain.AppIdentity, buildID string) error {
	versionID, err := s.resolver.VersionID(ctx, app)
	if err != nil {
		return err
	}
	return s.AttachBuildToVersionByID(ctx, versionID, buildID)
}

func (s *VersionService) AttachBuildToVersionByID(ctx context.Context, versionID, buildID string) error {
	if buildID == "" {
		return errors.New("build id is required")
	}
	if err := s.api.AttachBuild(ctx, versionID, buildID); err != nil {
		return fmt.Errorf("attach build %s to version %s: %w", buildID, versionID, err)
	}
	s.journal.record(ctx, versionID, domain.JournalActionBuildAttached, buildID)
	return nil
}
