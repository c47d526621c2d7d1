// Package appstoreconnect is a client for the App Store Connect release workflow:
// builds, versions, localizations, review submission and TestFlight groups.
package appstoreconnect

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"appstore-release-client/internal/adapters/secondary/appstore"
	"appstore-release-client/internal/adapters/secondary/postgres"
	"appstore-release-client/internal/adapters/secondary/token"
	"appstore-release-client/internal/config"
	"appstore-release-client/internal/core/services"
)

// BuildClient covers uploaded builds and their processing.
type BuildClient interface {
	BuildID(ctx context.Context, app AppIdentity, buildNumber string) (string, error)
	GetBuild(ctx context.Context, buildID string) (*Build, error)
	UpdateBuild(ctx context.Context, buildID string, update BuildUpdate) error
	BuildStatus(ctx context.Context, app AppIdentity, buildNumber string) (*BuildStatus, error)
	BuildStatusByID(ctx context.Context, buildID string) (*BuildStatus, error)
	WaitForBuildProcessing(ctx context.Context, app AppIdentity, buildNumber string, opts WaitOptions) error
	WaitForBuildProcessingByID(ctx context.Context, buildID string, opts WaitOptions) error
}

// ReleaseClient covers App Store versions and their submission for review.
type ReleaseClient interface {
	VersionID(ctx context.Context, app AppIdentity) (string, error)
	CreateVersion(ctx context.Context, app AppIdentity, opts CreateVersionOptions) error
	EnsureVersionExists(ctx context.Context, app AppIdentity, opts EnsureVersionOptions) error
	UpdateVersion(ctx context.Context, versionID string, update VersionUpdate) error
	AttachBuildToVersion(ctx context.Context, app AppIdentity, buildID string) error
	AttachBuildToVersionByID(ctx context.Context, versionID, buildID string) error
	SetLocalizations(ctx context.Context, versionID string, localizations []Localization) error
	SetReviewDetails(ctx context.Context, versionID string, details ReviewDetails) error
	SubmitForReview(ctx context.Context, app AppIdentity, opts SubmitForReviewOptions) error
	SubmitForReviewByVersionID(ctx context.Context, versionID string, opts SubmitForReviewOptions) error
}

// TestflightClient covers external beta groups and tester notifications.
type TestflightClient interface {
	ExternalBetaGroupID(ctx context.Context, appID int64, name string) (string, error)
	CreateExternalBetaGroup(ctx context.Context, appID int64, name string, opts CreateGroupOptions) (string, error)
	AddBuildToExternalGroupByBuildID(ctx context.Context, appID int64, buildID, groupName string, opts AddBuildOptions) error
	AddBuildToExternalGroupByGroupID(ctx context.Context, app AppIdentity, buildNumber, groupID string, opts AddBuildOptions) error
	AddBuildToExternalGroupByGroupIDAndBuildID(ctx context.Context, buildID, groupID string, opts AddBuildOptions) error
	NotifyBetaTestersOfNewBuild(ctx context.Context, buildID string, opts NotifyOptions) error
}

var (
	_ BuildClient      = (*Client)(nil)
	_ ReleaseClient    = (*Client)(nil)
	_ TestflightClient = (*Client)(nil)
)

// Options configures New. Credentials are required unless TokenSource is set.
type Options struct {
	IssuerID   string
	KeyID      string
	PrivateKey []byte
	TokenTTL   time.Duration
	// TokenSource replaces the built-in ES256 issuer.
	TokenSource TokenSource

	// BaseURL defaults to https://api.appstoreconnect.apple.com.
	BaseURL        string
	Timeout        time.Duration
	RateLimitQPS   float32
	RateLimitBurst int
	HTTPClient     *http.Client

	// Polling fills the zero fields of the WaitOptions passed to the wait operations.
	// Pass a negative InitialDelay to skip a configured delay for one call.
	Polling WaitOptions
	// Journal records the side effects of release workflows. Optional.
	Journal JournalRepository
}

// Client composes the build, release and TestFlight services and forwards to them.
type Client struct {
	builds        *services.BuildService
	versions      *services.VersionService
	localizations *services.LocalizationService
	reviews       *services.ReviewService
	submissions   *services.SubmissionService
	testflight    *services.TestflightService

	polling WaitOptions
	pool    *pgxpool.Pool
}

func New(opts Options) (*Client, error) {
	tokens := opts.TokenSource
	if tokens == nil {
		issuer, err := token.NewIssuer(&config.AuthConfig{
			IssuerID:   opts.IssuerID,
			KeyID:      opts.KeyID,
			PrivateKey: opts.PrivateKey,
			TokenTTL:   opts.TokenTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create token issuer: %w", err)
		}
		tokens = issuer
	}

	api := appstore.NewClientWithHTTP(&config.APIConfig{
		URL:            opts.BaseURL,
		Timeout:        opts.Timeout,
		RateLimitQPS:   opts.RateLimitQPS,
		RateLimitBurst: opts.RateLimitBurst,
	}, tokens, opts.HTTPClient)

	resolver := services.NewResolver(api, api)
	versions := services.NewVersionService(api, resolver, opts.Journal)
	localizations := services.NewLocalizationService(api)
	reviews := services.NewReviewService(api)

	return &Client{
		builds:        services.NewBuildService(api, resolver, opts.Journal),
		versions:      versions,
		localizations: localizations,
		reviews:       reviews,
		submissions:   services.NewSubmissionService(api, resolver, versions, localizations, reviews, opts.Journal),
		testflight:    services.NewTestflightService(api, resolver, opts.Journal),
		polling:       opts.Polling,
	}, nil
}

// NewFromEnv configures a Client from ASC_*, JOURNAL_* and LOGGER_* environment variables.
// A journal database that cannot be reached is logged and skipped.
func NewFromEnv(ctx context.Context) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	initLogger(cfg)

	opts := Options{
		IssuerID:       cfg.Auth.IssuerID,
		KeyID:          cfg.Auth.KeyID,
		PrivateKey:     cfg.Auth.PrivateKey,
		TokenTTL:       cfg.Auth.TokenTTL,
		BaseURL:        cfg.API.URL,
		Timeout:        cfg.API.Timeout,
		RateLimitQPS:   cfg.API.RateLimitQPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
		Polling: WaitOptions{
			InitialDelay: cfg.Polling.InitialDelay,
			PollInterval: cfg.Polling.Interval,
			MaxTries:     cfg.Polling.MaxTries,
		},
	}

	// Release journal (Optional - based on config)
	var pool *pgxpool.Pool
	if cfg.Journal.Enabled {
		pool, err = openJournal(ctx, &cfg.Journal)
		if err != nil {
			log.Warnf("release journal init failed (continuing without journal): %v", err)
		} else {
			opts.Journal = postgres.NewJournalRepository(pool)
			log.Info("release journal initialized")
		}
	}

	c, err := New(opts)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	c.pool = pool
	return c, nil
}

func openJournal(ctx context.Context, cfg *config.JournalConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse journal db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create journal db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping journal db: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Close releases the journal database pool, if any.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

func (c *Client) waitOptions(opts WaitOptions) WaitOptions {
	if opts.InitialDelay == 0 {
		opts.InitialDelay = c.polling.InitialDelay
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = c.polling.PollInterval
	}
	if opts.MaxTries == 0 {
		opts.MaxTries = c.polling.MaxTries
	}
	if opts.Observer == nil {
		opts.Observer = c.polling.Observer
	}
	return opts
}

// ============================================================================
// Builds
// ============================================================================

func (c *Client) BuildID(ctx context.Context, app AppIdentity, buildNumber string) (string, error) {
	return c.builds.BuildID(ctx, app, buildNumber)
}

func (c *Client) GetBuild(ctx context.Context, buildID string) (*Build, error) {
	return c.builds.GetBuild(ctx, buildID)
}

func (c *Client) UpdateBuild(ctx context.Context, buildID string, update BuildUpdate) error {
	return c.builds.UpdateBuild(ctx, buildID, update)
}

// BuildStatus reports ProcessingStateUnknown for a build that is not visible yet.
func (c *Client) BuildStatus(ctx context.Context, app AppIdentity, buildNumber string) (*BuildStatus, error) {
	return c.builds.BuildStatus(ctx, app, buildNumber)
}

// BuildStatusByID fails with ErrNotFound for an unknown build id.
func (c *Client) BuildStatusByID(ctx context.Context, buildID string) (*BuildStatus, error) {
	return c.builds.BuildStatusByID(ctx, buildID)
}

func (c *Client) WaitForBuildProcessing(ctx context.Context, app AppIdentity, buildNumber string, opts WaitOptions) error {
	return c.builds.WaitForBuildProcessing(ctx, app, buildNumber, c.waitOptions(opts))
}

func (c *Client) WaitForBuildProcessingByID(ctx context.Context, buildID string, opts WaitOptions) error {
	return c.builds.WaitForBuildProcessingByID(ctx, buildID, c.waitOptions(opts))
}

// ============================================================================
// Releases
// ============================================================================

func (c *Client) VersionID(ctx context.Context, app AppIdentity) (string, error) {
	return c.versions.VersionID(ctx, app)
}

func (c *Client) CreateVersion(ctx context.Context, app AppIdentity, opts CreateVersionOptions) error {
	return c.versions.CreateVersion(ctx, app, opts)
}

func (c *Client) EnsureVersionExists(ctx context.Context, app AppIdentity, opts EnsureVersionOptions) error {
	return c.versions.EnsureVersionExists(ctx, app, opts)
}

func (c *Client) UpdateVersion(ctx context.Context, versionID string, update VersionUpdate) error {
	return c.versions.UpdateVersion(ctx, versionID, update)
}

func (c *Client) AttachBuildToVersion(ctx context.Context, app AppIdentity, buildID string) error {
	return c.versions.AttachBuildToVersion(ctx, app, buildID)
}

func (c *Client) AttachBuildToVersionByID(ctx context.Context, versionID, buildID string) error {
	return c.versions.AttachBuildToVersionByID(ctx, versionID, buildID)
}

func (c *Client) SetLocalizations(ctx context.Context, versionID string, localizations []Localization) error {
	return c.localizations.SetLocalizations(ctx, versionID, localizations)
}

func (c *Client) SetReviewDetails(ctx context.Context, versionID string, details ReviewDetails) error {
	return c.reviews.SetReviewDetails(ctx, versionID, details)
}

func (c *Client) SubmitForReview(ctx context.Context, app AppIdentity, opts SubmitForReviewOptions) error {
	return c.submissions.SubmitForReview(ctx, app, opts)
}

func (c *Client) SubmitForReviewByVersionID(ctx context.Context, versionID string, opts SubmitForReviewOptions) error {
	return c.submissions.SubmitForReviewByVersionID(ctx, versionID, opts)
}

// ============================================================================
// TestFlight
// ============================================================================

func (c *Client) ExternalBetaGroupID(ctx context.Context, appID int64, name string) (string, error) {
	return c.testflight.ExternalBetaGroupID(ctx, appID, name)
}

func (c *Client) CreateExternalBetaGroup(ctx context.Context, appID int64, name string, opts CreateGroupOptions) (string, error) {
	return c.testflight.CreateExternalBetaGroup(ctx, appID, name, opts)
}

func (c *Client) AddBuildToExternalGroupByBuildID(ctx context.Context, appID int64, buildID, groupName string, opts AddBuildOptions) error {
	return c.testflight.AddBuildToExternalGroupByBuildID(ctx, appID, buildID, groupName, opts)
}

func (c *Client) AddBuildToExternalGroupByGroupID(ctx context.Context, app AppIdentity, buildNumber, groupID string, opts AddBuildOptions) error {
	return c.testflight.AddBuildToExternalGroupByGroupID(ctx, app, buildNumber, groupID, opts)
}

func (c *Client) AddBuildToExternalGroupByGroupIDAndBuildID(ctx context.Context, buildID, groupID string, opts AddBuildOptions) error {
	return c.testflight.AddBuildToExternalGroupByGroupIDAndBuildID(ctx, buildID, groupID, opts)
}

func (c *Client) NotifyBetaTestersOfNewBuild(ctx context.Context, buildID string, opts NotifyOptions) error {
	return c.testflight.NotifyBetaTestersOfNewBuild(ctx, buildID, opts)
}
