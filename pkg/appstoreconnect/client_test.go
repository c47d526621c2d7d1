package appstoreconnect

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appstore-release-client/internal/testutil"
	"appstore-release-client/internal/testutil/fakeasc"
)

func newTestClient(t *testing.T, journal JournalRepository) (*fakeasc.Server, *Client) {
	t.Helper()
	fake := fakeasc.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	c, err := New(Options{
		TokenSource: testutil.StaticToken("test-token"),
		BaseURL:     srv.URL,
		Polling:     WaitOptions{PollInterval: time.Millisecond, MaxTries: 5},
		Journal:     journal,
	})
	require.NoError(t, err)
	return fake, c
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}

func TestClient_SubmitForReview_EndToEnd(t *testing.T) {
	journal := &testutil.MemoryJournal{}
	fake, c := newTestClient(t, journal)
	fake.AddBuild(fakeasc.Build{ID: "b-1", AppID: 42, Number: "100", Version: "1.2.0", Platform: "IOS", ProcessingState: "VALID"})

	app := AppIdentity{AppID: 42, Version: "1.2.0", Platform: "IOS"}
	err := c.SubmitForReview(context.Background(), app, SubmitForReviewOptions{
		AutoCreateVersion:     true,
		AutoReleaseOnApproval: Bool(true),
		ReleaseNotes:          ReleaseNotesText("Bug fixes"),
		AutoAttachBuildID:     "b-1",
	})
	require.NoError(t, err)

	versions := fake.Versions(42)
	require.Len(t, versions, 1)
	version := versions[0]
	assert.Equal(t, "1.2.0", version.VersionString)
	assert.Equal(t, string(ReleaseTypeAfterApproval), version.ReleaseType)
	assert.Equal(t, "b-1", version.BuildID)

	locs := fake.Localizations(version.ID)
	require.Len(t, locs, 1)
	assert.Equal(t, "en-US", locs[0].Locale)
	assert.Equal(t, "Bug fixes", locs[0].Attributes["whatsNew"])
	assert.Equal(t, "", locs[0].Attributes["description"])

	assert.Equal(t, []string{version.ID}, fake.Submissions())

	mutations := fake.Mutations()
	create := indexOf(mutations, "POST /v1/appStoreVersions")
	attach := indexOf(mutations, "PATCH /v1/appStoreVersions/"+version.ID+"/relationships/build")
	localize := indexOf(mutations, "POST /v1/appStoreVersionLocalizations")
	submit := indexOf(mutations, "POST /v1/appStoreVersionSubmissions")
	require.True(t, create >= 0 && attach >= 0 && localize >= 0 && submit >= 0, "mutations: %v", mutations)
	assert.True(t, create < attach && attach < localize && localize < submit, "mutations: %v", mutations)

	var createBody struct {
		Data struct {
			Attributes map[string]any `json:"attributes"`
		} `json:"data"`
	}
	for _, call := range fake.Calls() {
		if call.Method == http.MethodPost && call.Path == "/v1/appStoreVersions" {
			require.NoError(t, json.Unmarshal(call.Body, &createBody))
		}
	}
	assert.Equal(t, "AFTER_APPROVAL", createBody.Data.Attributes["releaseType"])

	assert.Contains(t, journal.Actions(), JournalAction("submitted"))
}

func TestClient_EnsureVersionExists_Idempotent(t *testing.T) {
	fake, c := newTestClient(t, nil)
	app := AppIdentity{AppID: 42, Version: "2.0", Platform: PlatformIOS}
	ctx := context.Background()

	require.NoError(t, c.EnsureVersionExists(ctx, app, EnsureVersionOptions{}))
	require.NoError(t, c.EnsureVersionExists(ctx, app, EnsureVersionOptions{}))

	assert.Len(t, fake.Versions(42), 1)
	assert.Equal(t, []string{"POST /v1/appStoreVersions"}, fake.Mutations())
}

func TestClient_EnsureVersionExists_RenamesDraft(t *testing.T) {
	fake, c := newTestClient(t, nil)
	fake.AddVersion(fakeasc.Version{ID: "ver-live", AppID: 42, VersionString: "1.0", Platform: "IOS", AppStoreState: "READY_FOR_SALE"})
	fake.AddVersion(fakeasc.Version{ID: "ver-draft", AppID: 42, VersionString: "1.1", Platform: "IOS", AppStoreState: "PREPARE_FOR_SUBMISSION"})

	err := c.EnsureVersionExists(context.Background(), AppIdentity{AppID: 42, Version: "1.2", Platform: PlatformIOS},
		EnsureVersionOptions{UpdateVersionStringIfUnreleasedVersionExists: true})
	require.NoError(t, err)

	versions := fake.Versions(42)
	require.Len(t, versions, 2)
	assert.Equal(t, "1.2", versions[0].VersionString)
	assert.Equal(t, "ver-draft", versions[0].ID)
}

func TestClient_SetLocalizations_FirstVersionWhatsNew(t *testing.T) {
	fake, c := newTestClient(t, nil)
	fake.RejectWhatsNew = true
	fake.AddVersion(fakeasc.Version{ID: "ver-1", AppID: 42, VersionString: "1.0", Platform: "IOS", AppStoreState: "PREPARE_FOR_SUBMISSION"})
	fake.AddLocalization(fakeasc.Localization{ID: "loc-1", VersionID: "ver-1", Locale: "en-US"})

	err := c.SetLocalizations(context.Background(), "ver-1", []Localization{{
		Locale:     "en-US",
		Attributes: LocalizationAttributes{Description: String("An app"), WhatsNew: String("First release")},
	}})
	require.NoError(t, err)

	locs := fake.Localizations("ver-1")
	assert.Equal(t, "An app", locs[0].Attributes["description"])
	assert.NotContains(t, locs[0].Attributes, "whatsNew")
}

func TestClient_WaitForBuildProcessing(t *testing.T) {
	fake, c := newTestClient(t, nil)
	fake.AddBuild(fakeasc.Build{
		ID: "b-1", AppID: 42, Number: "100", Version: "1.2.0", Platform: "IOS",
		States: []string{"PROCESSING", "PROCESSING", "VALID"},
	})

	var tries []int
	err := c.WaitForBuildProcessing(context.Background(), AppIdentity{AppID: 42, Version: "1.2.0", Platform: PlatformIOS}, "100",
		WaitOptions{Observer: func(_ ProcessingState, n int) { tries = append(tries, n) }})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, tries)
}

func TestClient_WaitForBuildProcessing_NegativeDelaySkipsConfiguredDelay(t *testing.T) {
	fake := fakeasc.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	c, err := New(Options{
		TokenSource: testutil.StaticToken("test-token"),
		BaseURL:     srv.URL,
		Polling:     WaitOptions{InitialDelay: time.Hour, PollInterval: time.Millisecond, MaxTries: 5},
	})
	require.NoError(t, err)
	fake.AddBuild(fakeasc.Build{ID: "b-1", AppID: 42, States: []string{"PROCESSING", "VALID"}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.WaitForBuildProcessingByID(ctx, "b-1", WaitOptions{InitialDelay: -1}))
}

func TestClient_WaitForBuildProcessingByID_Failed(t *testing.T) {
	fake, c := newTestClient(t, nil)
	fake.AddBuild(fakeasc.Build{ID: "b-1", AppID: 42, ProcessingState: "INVALID"})

	err := c.WaitForBuildProcessingByID(context.Background(), "b-1", WaitOptions{})
	assert.ErrorIs(t, err, ErrBuildProcessing)
	assert.NotErrorIs(t, err, ErrProcessingTimeout)
}

func TestClient_BuildStatus_Asymmetry(t *testing.T) {
	_, c := newTestClient(t, nil)
	ctx := context.Background()

	status, err := c.BuildStatus(ctx, AppIdentity{AppID: 42, Version: "9.9", Platform: PlatformIOS}, "1")
	require.NoError(t, err)
	assert.Equal(t, ProcessingStateUnknown, status.ProcessingState)

	_, err = c.BuildStatusByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Testflight(t *testing.T) {
	fake, c := newTestClient(t, nil)
	fake.AddBuild(fakeasc.Build{ID: "b-1", AppID: 42})
	fake.AddBetaGroup(fakeasc.BetaGroup{ID: "g-1", AppID: 42, Name: "External"})
	ctx := context.Background()

	err := c.AddBuildToExternalGroupByBuildID(ctx, 42, "b-1", "External", AddBuildOptions{
		CreateGroupIfNotExists:      true,
		NotifyBetaTesters:           true,
		IgnoreIfNotificationEnabled: true,
	})
	require.NoError(t, err)
	assert.Len(t, fake.BetaGroups(42), 1)
	assert.True(t, fake.Notified("b-1"))

	err = c.NotifyBetaTestersOfNewBuild(ctx, "b-1", NotifyOptions{IgnoreIfEnabled: true})
	assert.NoError(t, err)
	err = c.NotifyBetaTestersOfNewBuild(ctx, "b-1", NotifyOptions{})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(Options{IssuerID: "issuer-1"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewFromEnv(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	fake := fakeasc.New()
	fake.AddBuild(fakeasc.Build{ID: "b-1", AppID: 42, ProcessingState: "VALID"})
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	t.Setenv("ASC_API_URL", srv.URL)
	t.Setenv("ASC_ISSUER_ID", "issuer-1")
	t.Setenv("ASC_KEY_ID", "KEY123")
	t.Setenv("ASC_PRIVATE_KEY", string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})))
	t.Setenv("LOGGER_LEVEL", "warn")

	c, err := NewFromEnv(context.Background())
	require.NoError(t, err)
	defer c.Close()

	status, err := c.BuildStatusByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, ProcessingStateValid, status.ProcessingState)
}
