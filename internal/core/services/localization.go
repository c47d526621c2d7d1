package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"

	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

// whatsNewAttribute is the attribute the API refuses to edit before the first
// release notes of a locale have been accepted.
const whatsNewAttribute = "whatsNew"

type LocalizationService struct {
	api ports.ReleaseAPI
}

func NewLocalizationService(api ports.ReleaseAPI) *LocalizationService {
	return &LocalizationService{api: api}
}

// SetLocalizations creates the missing locales, then updates the existing ones.
// Each phase runs its requests concurrently; a failure stops the workflow but does not
// undo requests that already succeeded.
func (s *LocalizationService) SetLocalizations(ctx context.Context, versionID string, desired []domain.Localization) error {
	if len(desired) == 0 {
		return nil
	}
	if err := checkUniqueLocales(desired); err != nil {
		return err
	}

	existing, err := s.api.ListLocalizations(ctx, versionID)
	if err != nil {
		return fmt.Errorf("fetch localizations for version %s: %w", versionID, err)
	}

	existingIDs := make(map[string]string, len(existing))
	for _, loc := range existing {
		existingIDs[loc.Locale] = loc.ID
	}
	present := sets.KeySet(existingIDs)

	var missing, toUpdate []domain.Localization
	for _, loc := range desired {
		if present.Has(loc.Locale) {
			toUpdate = append(toUpdate, loc)
		} else {
			missing = append(missing, loc)
		}
	}

	log.WithFields(log.Fields{
		"version_id": versionID,
		"create":     len(missing),
		"update":     len(toUpdate),
	}).Debug("reconciling localizations")

	// A failing request does not cancel its siblings; the first error is returned.
	var create errgroup.Group
	for _, loc := range missing {
		loc := loc
		create.Go(func() error {
			loc.Attributes = loc.Attributes.WithCreateDefaults()
			if err := s.api.CreateLocalization(ctx, versionID, loc); err != nil {
				return fmt.Errorf("create localization %s for version %s: %w", loc.Locale, versionID, err)
			}
			return nil
		})
	}
	if err := create.Wait(); err != nil {
		return err
	}

	var update errgroup.Group
	for _, loc := range toUpdate {
		loc := loc
		id := existingIDs[loc.Locale]
		update.Go(func() error {
			if err := s.updateLocalization(ctx, id, loc.Attributes); err != nil {
				return fmt.Errorf("update localization %s for version %s: %w", loc.Locale, versionID, err)
			}
			return nil
		})
	}
	return update.Wait()
}

// updateLocalization retries once without whatsNew when the API refuses to edit only that attribute.
func (s *LocalizationService) updateLocalization(ctx context.Context, id string, attrs domain.LocalizationAttributes) error {
	err := s.api.UpdateLocalization(ctx, id, attrs)
	if err == nil || attrs.WhatsNew == nil || !isWhatsNewConflict(err) {
		return err
	}
	log.WithField("localization_id", id).Info("whatsNew cannot be edited yet, retrying without it")
	return s.api.UpdateLocalization(ctx, id, attrs.WithoutWhatsNew())
}

func isWhatsNewConflict(err error) bool {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || !errors.Is(apiErr, domain.ErrConflict) {
		return false
	}
	return apiErr.DetailsMention(whatsNewAttribute)
}

func checkUniqueLocales(locs []domain.Localization) error {
	seen := sets.New[string]()
	for _, loc := range locs {
		if seen.Has(loc.Locale) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateLocale, loc.Locale)
		}
		seen.Insert(loc.Locale)
	}
	return nil
}
