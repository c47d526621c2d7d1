package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

type SubmissionService struct {
	api           ports.ReleaseAPI
	resolver      *Resolver
	versions      *VersionService
	localizations *LocalizationService
	reviews       *ReviewService
	journal       journal
}

func NewSubmissionService(
	api ports.ReleaseAPI,
	resolver *Resolver,
	versions *VersionService,
	localizations *LocalizationService,
	reviews *ReviewService,
	journalRepo ports.JournalRepository,
) *SubmissionService {
	return &SubmissionService{
		api:           api,
		resolver:      resolver,
		versions:      versions,
		localizations: localizations,
		reviews:       reviews,
		journal:       journal{repo: journalRepo},
	}
}

// SubmitForReview prepares the version of app as configured by opts and submits it.
func (s *SubmissionService) SubmitForReview(ctx context.Context, app domain.AppIdentity, opts domain.SubmitForReviewOptions) error {
	// 1. Create the version, or re-target the unreleased one
	if opts.AutoCreateVersion {
		autoRelease := opts.AutoReleaseOnApproval != nil && *opts.AutoReleaseOnApproval
		err := s.versions.EnsureVersionExists(ctx, app, domain.EnsureVersionOptions{
			UpdateVersionStringIfUnreleasedVersionExists: true,
			CreateOptions: domain.CreateVersionOptions{AutoRelease: autoRelease},
		})
		if err != nil {
			return err
		}
	}

	// 2. Resolve the version id
	versionID, err := s.resolver.VersionID(ctx, app)
	if err != nil {
		return err
	}

	// 3. Edit and submit
	return s.SubmitForReviewByVersionID(ctx, versionID, opts)
}

// SubmitForReviewByVersionID applies every configured edit, in order, then creates the
// submission. Metadata is frozen at submission time so all edits must land first.
// The first failing step aborts; earlier steps are not rolled back.
func (s *SubmissionService) SubmitForReviewByVersionID(ctx context.Context, versionID string, opts domain.SubmitForReviewOptions) error {
	logger := log.WithField("version_id", versionID)

	// a. Release type
	if opts.AutoReleaseOnApproval != nil {
		releaseType := domain.ReleaseTypeFor(*opts.AutoReleaseOnApproval)
		if err := s.versions.UpdateVersion(ctx, versionID, domain.VersionUpdate{ReleaseType: &releaseType}); err != nil {
			return err
		}
		s.journal.record(ctx, versionID, domain.JournalActionReleaseTypeUpdated, string(releaseType))
	}

	// b. Build
	if opts.AutoAttachBuildID != "" {
		if err := s.versions.AttachBuildToVersionByID(ctx, versionID, opts.AutoAttachBuildID); err != nil {
			return err
		}
	}

	// c. Localizations
	if len(opts.Localizations) > 0 {
		if err := s.localizations.SetLocalizations(ctx, versionID, opts.Localizations); err != nil {
			return err
		}
		s.journal.record(ctx, versionID, domain.JournalActionLocalizationsSet, fmt.Sprintf("%d locales", len(opts.Localizations)))
	}

	// d. Release notes, through the same reconciler
	if len(opts.ReleaseNotes) > 0 {
		if err := s.localizations.SetLocalizations(ctx, versionID, domain.ReleaseNotesLocalizations(opts.ReleaseNotes)); err != nil {
			return fmt.Errorf("set release notes: %w", err)
		}
		s.journal.record(ctx, versionID, domain.JournalActionReleaseNotesSet, fmt.Sprintf("%d locales", len(opts.ReleaseNotes)))
	}

	// e. Review details
	if opts.ReviewDetails != nil {
		if err := s.reviews.SetReviewDetails(ctx, versionID, *opts.ReviewDetails); err != nil {
			return err
		}
		s.journal.record(ctx, versionID, domain.JournalActionReviewDetailsSet, "")
	}

	// f. Remaining version attributes
	if opts.VersionAttributes != nil && !opts.VersionAttributes.IsEmpty() {
		if err := s.versions.UpdateVersion(ctx, versionID, *opts.VersionAttributes); err != nil {
			return err
		}
		s.journal.record(ctx, versionID, domain.JournalActionVersionUpdated, "")
	}

	// g. Submission
	if err := s.api.CreateSubmission(ctx, versionID); err != nil {
		return fmt.Errorf("submit version %s for review: %w", versionID, err)
	}
	logger.Info("version submitted for review")
	s.journal.record(ctx, versionID, domain.JournalActionSubmitted, "")
	return nil
}
