package domain

import (
	"fmt"
	"strings"
)

type Platform string

const (
	PlatformIOS   Platform = "IOS"
	PlatformMacOS Platform = "MAC_OS"
	PlatformTVOS  Platform = "TV_OS"
)

// Normalize uppercases the platform so it compares equal to the values stored by the API.
func (p Platform) Normalize() Platform {
	return Platform(strings.ToUpper(strings.TrimSpace(string(p))))
}

func (p Platform) Validate() error {
	switch p.Normalize() {
	case PlatformIOS, PlatformMacOS, PlatformTVOS:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPlatform, string(p))
}

// AppIdentity is the caller-facing key for an app release: app id, version string and platform.
type AppIdentity struct {
	AppID    int64
	Version  string
	Platform Platform
}

func (a AppIdentity) String() string {
	return fmt.Sprintf("app %d, version %s, platform %s", a.AppID, a.Version, a.Platform.Normalize())
}
