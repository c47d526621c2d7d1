package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

type BuildService struct {
	api      ports.BuildAPI
	resolver *Resolver
	journal  journal
}

func NewBuildService(api ports.BuildAPI, resolver *Resolver, journalRepo ports.JournalRepository) *BuildService {
	return &BuildService{api: api, resolver: resolver, journal: journal{repo: journalRepo}}
}

func (s *BuildService) BuildID(ctx context.Context, app domain.AppIdentity, buildNumber string) (string, error) {
	return s.resolver.BuildID(ctx, app, buildNumber)
}

func (s *BuildService) GetBuild(ctx context.Context, buildID string) (*domain.Build, error) {
	build, err := s.api.GetBuild(ctx, buildID)
	if err != nil {
		return nil, fmt.Errorf("get build %s: %w", buildID, err)
	}
	return build, nil
}

func (s *BuildService) UpdateBuild(ctx context.Context, buildID string, update domain.BuildUpdate) error {
	if err := s.api.UpdateBuild(ctx, buildID, update); err != nil {
		return fmt.Errorf("update build %s: %w", buildID, err)
	}
	return nil
}

// BuildStatus returns the processing state of the build matching app and buildNumber.
// A build that does not exist yet, or a 404, yields ProcessingStateUnknown instead of an error.
func (s *BuildService) BuildStatus(ctx context.Context, app domain.AppIdentity, buildNumber string) (*domain.BuildStatus, error) {
	builds, err := s.api.ListBuilds(ctx, buildFilter(app, buildNumber))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.BuildStatus{ProcessingState: domain.ProcessingStateUnknown}, nil
		}
		return nil, fmt.Errorf("fetch build status for %s, build number %q: %w", app, buildNumber, err)
	}
	if len(builds) == 0 {
		return &domain.BuildStatus{ProcessingState: domain.ProcessingStateUnknown}, nil
	}
	if err := domain.ExpectOne("build", buildCriteria(app, buildNumber), len(builds)); err != nil {
		return nil, err
	}
	return &domain.BuildStatus{ProcessingState: builds[0].ProcessingState}, nil
}

// BuildStatusByID returns the processing state of a build. Unlike BuildStatus, a missing
// build is a NotFound error.
func (s *BuildService) BuildStatusByID(ctx context.Context, buildID string) (*domain.BuildStatus, error) {
	builds, err := s.api.ListBuilds(ctx, domain.BuildFilter{ID: buildID})
	if err != nil {
		return nil, fmt.Errorf("fetch build status for build id %s: %w", buildID, err)
	}
	if err := domain.ExpectOne("build", "build id "+buildID, len(builds)); err != nil {
		return nil, err
	}
	return &domain.BuildStatus{ProcessingState: builds[0].ProcessingState}, nil
}

// WaitForBuildProcessing blocks until the build matching app and buildNumber is VALID.
// A build that does not exist yet is waited for, bounded by opts.MaxTries.
func (s *BuildService) WaitForBuildProcessing(ctx context.Context, app domain.AppIdentity, buildNumber string, opts domain.WaitOptions) error {
	subject := buildCriteria(app, buildNumber)
	return s.waitForProcessing(ctx, subject, func(ctx context.Context) (domain.ProcessingState, error) {
		status, err := s.BuildStatus(ctx, app, buildNumber)
		if err != nil {
			return "", err
		}
		return status.ProcessingState, nil
	}, opts)
}

func (s *BuildService) WaitForBuildProcessingByID(ctx context.Context, buildID string, opts domain.WaitOptions) error {
	return s.waitForProcessing(ctx, buildID, func(ctx context.Context) (domain.ProcessingState, error) {
		status, err := s.BuildStatusByID(ctx, buildID)
		if err != nil {
			return "", err
		}
		return status.ProcessingState, nil
	}, opts)
}

type stateFetcher func(ctx context.Context) (domain.ProcessingState, error)

func (s *BuildService) waitForProcessing(ctx context.Context, subject string, fetch stateFetcher, opts domain.WaitOptions) error {
	opts = opts.WithDefaults()

	state, err := fetch(ctx)
	if err != nil {
		return err
	}
	if state.IsFailed() {
		return &domain.ProcessingError{State: state}
	}
	if !state.IsWaiting() {
		return nil
	}

	tries := 0
	s.observe(ctx, subject, opts.Observer, state, tries)

	if opts.InitialDelay > 0 {
		timer := time.NewTimer(opts.InitialDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	// The poller owns a single ticker and stops it as soon as the condition returns.
	return wait.PollUntilContextCancel(ctx, opts.PollInterval, false, func(ctx context.Context) (bool, error) {
		state, err := fetch(ctx)
		if err != nil {
			return false, err
		}
		s.observe(ctx, subject, opts.Observer, state, tries)

		if state.IsFailed() {
			return false, &domain.ProcessingError{State: state}
		}
		if state == domain.ProcessingStateValid {
			return true, nil
		}
		tries++
		if tries >= opts.MaxTries {
			return false, &domain.ProcessingError{
				State:   domain.ProcessingStateUnknown,
				Message: domain.ErrProcessingTimeout.Error(),
				Timeout: true,
			}
		}
		return false, nil
	})
}

func (s *BuildService) observe(ctx context.Context, subject string, observer domain.PollObserver, state domain.ProcessingState, tries int) {
	log.WithFields(log.Fields{
		"build": subject,
		"state": state,
		"tries": tries,
	}).Debug("polled build processing state")
	s.journal.record(ctx, subject, domain.JournalActionBuildPolled, fmt.Sprintf("%s after %d tries", state, tries))
	observer(state, tries)
}
