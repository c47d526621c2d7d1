package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectOne(t *testing.T) {
	assert.NoError(t, ExpectOne("build", "app 1", 1))

	err := ExpectOne("build", "app 1", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAmbiguousResult)
	assert.Equal(t, "build not found for app 1", err.Error())

	err = ExpectOne("build", "app 1", 3)
	assert.ErrorIs(t, err, ErrAmbiguousResult)

	var lookupErr *LookupError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &lookupErr))
	assert.Equal(t, 3, lookupErr.Count)
}

func TestAPIError(t *testing.T) {
	conflict := &APIError{Op: "update localization", StatusCode: http.StatusConflict, Details: []string{"a", "b"}}
	assert.Equal(t, "update localization: status code 409: a; b", conflict.Error())
	assert.True(t, IsConflict(fmt.Errorf("outer: %w", conflict)))
	assert.NotErrorIs(t, conflict, ErrNotFound)
	assert.Equal(t, http.StatusConflict, StatusCode(fmt.Errorf("outer: %w", conflict)))

	notFound := &APIError{Op: "get", StatusCode: http.StatusNotFound}
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.False(t, IsConflict(notFound))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestAPIError_DetailsMention(t *testing.T) {
	tests := []struct {
		name    string
		details []string
		want    bool
	}{
		{name: "no details", details: nil, want: false},
		{name: "all mention", details: []string{"whatsNew cannot be edited", "attribute 'whatsNew'"}, want: true},
		{name: "one does not", details: []string{"whatsNew cannot be edited", "description too long"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &APIError{StatusCode: http.StatusConflict, Details: tt.details}
			assert.Equal(t, tt.want, e.DetailsMention("whatsNew"))
		})
	}
}

func TestProcessingError(t *testing.T) {
	failed := &ProcessingError{State: ProcessingStateInvalid}
	assert.ErrorIs(t, failed, ErrBuildProcessing)
	assert.NotErrorIs(t, failed, ErrProcessingTimeout)

	timeout := &ProcessingError{State: ProcessingStateUnknown, Message: ErrProcessingTimeout.Error(), Timeout: true}
	assert.ErrorIs(t, timeout, ErrProcessingTimeout)
	assert.Contains(t, timeout.Error(), "timed out")
}

func TestValidateVersionString(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"1.2.0", true},
		{"1.2", true},
		{"3", true},
		{"", false},
		{"v1.2.0", false},
		{"1.2.0-beta.1", false},
		{"1.2.0+42", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := ValidateVersionString(tt.version)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidVersionString)
			}
		})
	}
}

func TestPlatform(t *testing.T) {
	assert.Equal(t, PlatformIOS, Platform(" ios ").Normalize())
	assert.NoError(t, Platform("mac_os").Validate())
	assert.ErrorIs(t, Platform("WATCH_OS").Validate(), ErrInvalidPlatform)
	assert.Equal(t, "app 7, version 2.0, platform TV_OS", AppIdentity{AppID: 7, Version: "2.0", Platform: "tv_os"}.String())
}

func TestReleaseNotesLocalizations(t *testing.T) {
	locs := ReleaseNotesLocalizations([]ReleaseNote{{Text: "Fixes"}, {Locale: "fr-FR", Text: "Corrections"}})
	require.Len(t, locs, 2)
	assert.Equal(t, DefaultLocale, locs[0].Locale)
	assert.Equal(t, "Fixes", *locs[0].Attributes.WhatsNew)
	assert.Nil(t, locs[0].Attributes.Description)
	assert.Equal(t, "fr-FR", locs[1].Locale)

	assert.Equal(t, []ReleaseNote{{Locale: "en-US", Text: "x"}}, ReleaseNotesText("x"))
}

func TestLocalizationAttributes_WithCreateDefaults(t *testing.T) {
	attrs := LocalizationAttributes{Description: String("Desc"), WhatsNew: String("New")}.WithCreateDefaults()
	assert.Equal(t, "Desc", *attrs.Description)
	assert.Equal(t, "", *attrs.Keywords)
	assert.Equal(t, "", *attrs.SupportURL)
	assert.Nil(t, attrs.MarketingURL)
	assert.Nil(t, attrs.WithoutWhatsNew().WhatsNew)
	assert.Equal(t, "New", *attrs.WhatsNew)
}

func TestWaitOptions_WithDefaults(t *testing.T) {
	opts := WaitOptions{MaxTries: 3}.WithDefaults()
	assert.Equal(t, DefaultPollInterval, opts.PollInterval)
	assert.Equal(t, 3, opts.MaxTries)
	assert.NotNil(t, opts.Observer)
	assert.Zero(t, WaitOptions{InitialDelay: -time.Second}.WithDefaults().InitialDelay)
}

func TestAppStoreState_IsRenamable(t *testing.T) {
	assert.True(t, AppStoreStatePrepareForSubmission.IsRenamable())
	assert.False(t, AppStoreState("READY_FOR_SALE").IsRenamable())
	assert.Equal(t, ReleaseTypeAfterApproval, ReleaseTypeFor(true))
	assert.Equal(t, ReleaseTypeManual, ReleaseTypeFor(false))
}
