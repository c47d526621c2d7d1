package fakeasc

import "sort"

type Build struct {
	ID              string
	AppID           int64
	Number          string
	Version         string
	Platform        string
	ProcessingState string
	// States are handed out one per read before the build settles on the last one.
	States                  []string
	Expired                 bool
	UsesNonExemptEncryption *bool
	BetaGroups              []string
}

func (b *Build) observe() string {
	if len(b.States) > 0 {
		b.ProcessingState = b.States[0]
		b.States = b.States[1:]
	}
	return b.ProcessingState
}

type Version struct {
	ID            string
	AppID         int64
	VersionString string
	Platform      string
	AppStoreState string
	ReleaseType   string
	Copyright     string
	UsesIdfa      bool
	BuildID       string
}

type Localization struct {
	ID         string
	VersionID  string
	Locale     string
	Attributes map[string]any
}

type ReviewDetail struct {
	ID         string
	VersionID  string
	Attributes map[string]any
}

type BetaGroup struct {
	ID                string
	AppID             int64
	Name              string
	IsInternalGroup   bool
	PublicLinkEnabled bool
	FeedbackEnabled   bool
}

func (s *Server) AddBuild(b Build) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds[b.ID] = &b
}

func (s *Server) AddVersion(v Version) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[v.ID] = &v
}

func (s *Server) AddLocalization(l Localization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.Attributes == nil {
		l.Attributes = map[string]any{}
	}
	s.localizations[l.ID] = &l
}

func (s *Server) AddReviewDetail(r ReviewDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Attributes == nil {
		r.Attributes = map[string]any{}
	}
	s.reviewDetails[r.ID] = &r
}

func (s *Server) AddBetaGroup(g BetaGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.betaGroups[g.ID] = &g
}

func (s *Server) Build(id string) (Build, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builds[id]
	if !ok {
		return Build{}, false
	}
	return *b, true
}

// Versions returns the versions of an app sorted by id.
func (s *Server) Versions(appID int64) []Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Version
	for _, v := range s.versions {
		if v.AppID == appID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Localizations returns the localizations of a version sorted by locale.
func (s *Server) Localizations(versionID string) []Localization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localizationsOf(versionID)
}

func (s *Server) localizationsOf(versionID string) []Localization {
	var out []Localization
	for _, l := range s.localizations {
		if l.VersionID == versionID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locale < out[j].Locale })
	return out
}

func (s *Server) ReviewDetailOf(versionID string) (ReviewDetail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviewDetails {
		if r.VersionID == versionID {
			return *r, true
		}
	}
	return ReviewDetail{}, false
}

func (s *Server) BetaGroups(appID int64) []BetaGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []BetaGroup
	for _, g := range s.betaGroups {
		if g.AppID == appID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Submissions returns the submitted version ids in order.
func (s *Server) Submissions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.submissions...)
}

func (s *Server) Notified(buildID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified[buildID]
}
