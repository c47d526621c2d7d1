package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

type TestflightService struct {
	api      ports.BetaAPI
	resolver *Resolver
	journal  journal
}

func NewTestflightService(api ports.BetaAPI, resolver *Resolver, journalRepo ports.JournalRepository) *TestflightService {
	return &TestflightService{api: api, resolver: resolver, journal: journal{repo: journalRepo}}
}

// ExternalBetaGroupID returns the id of the app's only beta group named name.
func (s *TestflightService) ExternalBetaGroupID(ctx context.Context, appID int64, name string) (string, error) {
	groups, err := s.api.ListBetaGroups(ctx, appID, name)
	if err != nil {
		return "", fmt.Errorf("fetch beta group %q for app %d: %w", name, appID, err)
	}
	criteria := fmt.Sprintf("app %d, name %q", appID, name)
	if err := domain.ExpectOne("beta group", criteria, len(groups)); err != nil {
		return "", err
	}
	return groups[0].ID, nil
}

// CreateExternalBetaGroup creates a beta group. Unless opts.AllowDuplicates is set, an
// existing group with the same name is returned instead.
func (s *TestflightService) CreateExternalBetaGroup(ctx context.Context, appID int64, name string, opts domain.CreateGroupOptions) (string, error) {
	if !opts.AllowDuplicates {
		id, err := s.ExternalBetaGroupID(ctx, appID, name)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
	}

	group, err := s.api.CreateBetaGroup(ctx, appID, domain.BetaGroupCreate{
		Name:              name,
		PublicLinkEnabled: opts.PublicLinkEnabled,
		PublicLinkLimit:   opts.PublicLinkLimit,
		FeedbackEnabled:   opts.FeedbackEnabled,
	})
	if err != nil {
		return "", fmt.Errorf("create beta group %q for app %d: %w", name, appID, err)
	}
	log.WithFields(log.Fields{
		"app_id":   appID,
		"group":    name,
		"group_id": group.ID,
	}).Info("beta group created")
	return group.ID, nil
}

// AddBuildToExternalGroupByBuildID adds a build to the beta group named groupName.
func (s *TestflightService) AddBuildToExternalGroupByBuildID(ctx context.Context, appID int64, buildID, groupName string, opts domain.AddBuildOptions) error {
	groupID, err := s.ExternalBetaGroupID(ctx, appID, groupName)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) || !opts.CreateGroupIfNotExists {
			return err
		}
		groupID, err = s.CreateExternalBetaGroup(ctx, appID, groupName, domain.CreateGroupOptions{})
		if err != nil {
			return err
		}
	}
	return s.AddBuildToExternalGroupByGroupIDAndBuildID(ctx, buildID, groupID, opts)
}

// AddBuildToExternalGroupByGroupID resolves the build of app and buildNumber, then adds it to groupID.
func (s *TestflightService) AddBuildToExternalGroupByGroupID(ctx context.Context, app domain.AppIdentity, buildNumber, groupID string, opts domain.AddBuildOptions) error {
	buildID, err := s.resolver.BuildID(ctx, app, buildNumber)
	if err != nil {
		return err
	}
	return s.AddBuildToExternalGroupByGroupIDAndBuildID(ctx, buildID, groupID, opts)
}

func (s *TestflightService) AddBuildToExternalGroupByGroupIDAndBuildID(ctx context.Context, buildID, groupID string, opts domain.AddBuildOptions) error {
	if err := s.api.AddBuildToGroups(ctx, buildID, groupID); err != nil {
		return fmt.Errorf("add build %s to beta group %s: %w", buildID, groupID, err)
	}
	s.journal.record(ctx, buildID, domain.JournalActionBuildAddedToGroup, groupID)

	if opts.NotifyBetaTesters {
		return s.NotifyBetaTestersOfNewBuild(ctx, buildID, domain.NotifyOptions{
			IgnoreIfEnabled: opts.IgnoreIfNotificationEnabled,
		})
	}
	return nil
}

// NotifyBetaTestersOfNewBuild sends the new-build notification. With IgnoreIfEnabled, a
// conflict (already notified, or automatic notification enabled) counts as success.
func (s *TestflightService) NotifyBetaTestersOfNewBuild(ctx context.Context, buildID string, opts domain.NotifyOptions) error {
	err := s.api.CreateBetaNotification(ctx, buildID)
	if err != nil {
		if opts.IgnoreIfEnabled && domain.IsConflict(err) {
			log.WithField("build_id", buildID).Debug("beta testers already notified")
			return nil
		}
		return fmt.Errorf("notify beta testers of build %s: %w", buildID, err)
	}
	s.journal.record(ctx, buildID, domain.JournalActionBetaTestersNotified, "")
	return nil
}
