package fakeasc

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"appstore-release-client/internal/core/domain"
)

type identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type document struct {
	Data struct {
		Type          string                               `json:"type"`
		ID            string                               `json:"id"`
		Attributes    map[string]any                       `json:"attributes"`
		Relationships map[string]struct{ Data identifier } `json:"relationships"`
	} `json:"data"`
}

func bind[T any](c *gin.Context) (T, bool) {
	var doc T
	if err := json.NewDecoder(c.Request.Body).Decode(&doc); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return doc, false
	}
	return doc, true
}

func related(doc document, name string) string {
	return doc.Data.Relationships[name].Data.ID
}

func matches(filter, value string) bool {
	if filter == "" {
		return true
	}
	for _, f := range strings.Split(filter, ",") {
		if f == value {
			return true
		}
	}
	return false
}

// ============================================================================
// Builds
// ============================================================================

func buildResource(b *Build, state string) gin.H {
	return gin.H{
		"type": "builds",
		"id":   b.ID,
		"attributes": gin.H{
			"version":                 b.Number,
			"processingState":         state,
			"expired":                 b.Expired,
			"usesNonExemptEncryption": b.UsesNonExemptEncryption,
		},
	}
}

func (s *Server) listBuilds(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.builds))
	for id := range s.builds {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var data []gin.H
	for _, id := range ids {
		b := s.builds[id]
		if !matches(c.Query("filter[id]"), b.ID) ||
			!matches(c.Query("filter[app]"), strconv.FormatInt(b.AppID, 10)) ||
			!matches(c.Query("filter[version]"), b.Number) ||
			!matches(c.Query("filter[preReleaseVersion.version]"), b.Version) ||
			!matches(c.Query("filter[preReleaseVersion.platform]"), b.Platform) {
			continue
		}
		data = append(data, buildResource(b, b.observe()))
	}

	items, links := page(s, c, data)
	c.JSON(http.StatusOK, gin.H{"data": emptyIfNil(items), "links": links})
}

func (s *Server) getBuild(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.builds[c.Param("id")]
	if !ok {
		writeError(c, http.StatusNotFound, "There is no resource of type 'builds' with id '"+c.Param("id")+"'")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": buildResource(b, b.observe())})
}

func (s *Server) updateBuild(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, found := s.builds[c.Param("id")]
	if !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'builds' with id '"+c.Param("id")+"'")
		return
	}
	if v, ok := doc.Data.Attributes["expired"].(bool); ok {
		b.Expired = v
	}
	if v, ok := doc.Data.Attributes["usesNonExemptEncryption"].(bool); ok {
		b.UsesNonExemptEncryption = &v
	}
	c.JSON(http.StatusOK, gin.H{"data": buildResource(b, b.ProcessingState)})
}

func (s *Server) addBuildToGroups(c *gin.Context) {
	doc, ok := bind[struct {
		Data []identifier `json:"data"`
	}](c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, found := s.builds[c.Param("id")]
	if !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'builds' with id '"+c.Param("id")+"'")
		return
	}
	for _, g := range doc.Data {
		if _, exists := s.betaGroups[g.ID]; !exists {
			writeError(c, http.StatusNotFound, "There is no resource of type 'betaGroups' with id '"+g.ID+"'")
			return
		}
	}
	for _, g := range doc.Data {
		b.BetaGroups = append(b.BetaGroups, g.ID)
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// App Store Versions
// ============================================================================

func versionResource(v *Version) gin.H {
	return gin.H{
		"type": "appStoreVersions",
		"id":   v.ID,
		"attributes": gin.H{
			"versionString": v.VersionString,
			"platform":      v.Platform,
			"appStoreState": v.AppStoreState,
			"releaseType":   v.ReleaseType,
			"copyright":     v.Copyright,
		},
	}
}

func (s *Server) sortedVersions() []*Version {
	out := make([]*Version, 0, len(s.versions))
	for _, v := range s.versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listVersions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appID := c.Param("id")
	var data []gin.H
	for _, v := range s.sortedVersions() {
		if strconv.FormatInt(v.AppID, 10) != appID ||
			!matches(c.Query("filter[versionString]"), v.VersionString) ||
			!matches(c.Query("filter[platform]"), v.Platform) ||
			!matches(c.Query("filter[appStoreState]"), v.AppStoreState) {
			continue
		}
		data = append(data, versionResource(v))
	}

	items, links := page(s, c, data)
	c.JSON(http.StatusOK, gin.H{"data": emptyIfNil(items), "links": links})
}

func (s *Server) createVersion(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}
	attrs := doc.Data.Attributes
	appID, err := strconv.ParseInt(related(doc, "app"), 10, 64)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, "relationships.app is required")
		return
	}
	versionString, _ := attrs["versionString"].(string)
	platform, _ := attrs["platform"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.versions {
		if v.AppID != appID || v.Platform != platform {
			continue
		}
		if v.VersionString == versionString {
			writeError(c, http.StatusConflict, "An attribute value has already been used. The version number has been previously used.")
			return
		}
		if domain.AppStoreState(v.AppStoreState).IsRenamable() {
			writeError(c, http.StatusConflict, "You cannot create a new version of the App in the current state.")
			return
		}
	}

	v := &Version{
		ID:            s.newID("ver"),
		AppID:         appID,
		VersionString: versionString,
		Platform:      platform,
		AppStoreState: string(domain.AppStoreStatePrepareForSubmission),
	}
	v.ReleaseType, _ = attrs["releaseType"].(string)
	v.Copyright, _ = attrs["copyright"].(string)
	v.UsesIdfa, _ = attrs["usesIdfa"].(bool)
	s.versions[v.ID] = v

	c.JSON(http.StatusCreated, gin.H{"data": versionResource(v)})
}

func (s *Server) updateVersion(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, found := s.versions[c.Param("id")]
	if !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreVersions' with id '"+c.Param("id")+"'")
		return
	}
	attrs := doc.Data.Attributes
	if vs, ok := attrs["versionString"].(string); ok {
		if !domain.AppStoreState(v.AppStoreState).IsRenamable() {
			writeError(c, http.StatusConflict, "The attribute 'versionString' can not be edited at this time")
			return
		}
		v.VersionString = vs
	}
	if rt, ok := attrs["releaseType"].(string); ok {
		v.ReleaseType = rt
	}
	if cr, ok := attrs["copyright"].(string); ok {
		v.Copyright = cr
	}
	if idfa, ok := attrs["usesIdfa"].(bool); ok {
		v.UsesIdfa = idfa
	}
	c.JSON(http.StatusOK, gin.H{"data": versionResource(v)})
}

func (s *Server) attachBuild(c *gin.Context) {
	doc, ok := bind[struct {
		Data identifier `json:"data"`
	}](c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, found := s.versions[c.Param("id")]
	if !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreVersions' with id '"+c.Param("id")+"'")
		return
	}
	if _, exists := s.builds[doc.Data.ID]; !exists {
		writeError(c, http.StatusUnprocessableEntity, "The specified build does not exist")
		return
	}
	v.BuildID = doc.Data.ID
	c.Status(http.StatusNoContent)
}

// ============================================================================
// Localizations
// ============================================================================

func localizationResource(l *Localization) gin.H {
	attrs := gin.H{"locale": l.Locale}
	for k, v := range l.Attributes {
		attrs[k] = v
	}
	return gin.H{"type": "appStoreVersionLocalizations", "id": l.ID, "attributes": attrs}
}

func (s *Server) listLocalizations(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.versions[c.Param("id")]; !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreVersions' with id '"+c.Param("id")+"'")
		return
	}
	var data []gin.H
	for _, l := range s.localizationsOf(c.Param("id")) {
		data = append(data, localizationResource(&l))
	}
	items, links := page(s, c, data)
	c.JSON(http.StatusOK, gin.H{"data": emptyIfNil(items), "links": links})
}

func (s *Server) createLocalization(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}
	versionID := related(doc, "appStoreVersion")
	attrs := doc.Data.Attributes
	locale, _ := attrs["locale"].(string)
	delete(attrs, "locale")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.versions[versionID]; !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreVersions' with id '"+versionID+"'")
		return
	}
	for _, l := range s.localizations {
		if l.VersionID == versionID && l.Locale == locale {
			writeError(c, http.StatusConflict, "The locale '"+locale+"' already exists for this version")
			return
		}
	}
	l := &Localization{ID: s.newID("loc"), VersionID: versionID, Locale: locale, Attributes: attrs}
	s.localizations[l.ID] = l
	c.JSON(http.StatusCreated, gin.H{"data": localizationResource(l)})
}

func (s *Server) updateLocalization(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, found := s.localizations[c.Param("id")]
	if !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreVersionLocalizations' with id '"+c.Param("id")+"'")
		return
	}
	if _, has := doc.Data.Attributes["whatsNew"]; has && s.RejectWhatsNew {
		writeError(c, http.StatusConflict, "An attribute value is not acceptable for the current resource state. The attribute 'whatsNew' can not be edited at this time")
		return
	}
	for k, v := range doc.Data.Attributes {
		l.Attributes[k] = v
	}
	c.JSON(http.StatusOK, gin.H{"data": localizationResource(l)})
}

// ============================================================================
// Review
// ============================================================================

func reviewResource(r *ReviewDetail) gin.H {
	return gin.H{"type": "appStoreReviewDetails", "id": r.ID, "attributes": r.Attributes}
}

func (s *Server) getReviewDetail(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reviewDetails {
		if r.VersionID == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"data": reviewResource(r)})
			return
		}
	}
	writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreReviewDetails' for this version")
}

func (s *Server) createReviewDetail(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}
	versionID := related(doc, "appStoreVersion")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reviewDetails {
		if r.VersionID == versionID {
			writeError(c, http.StatusConflict, "The version already has review details")
			return
		}
	}
	attrs := doc.Data.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	r := &ReviewDetail{ID: s.newID("rev"), VersionID: versionID, Attributes: attrs}
	s.reviewDetails[r.ID] = r
	c.JSON(http.StatusCreated, gin.H{"data": reviewResource(r)})
}

func (s *Server) updateReviewDetail(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.reviewDetails[c.Param("id")]
	if !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreReviewDetails' with id '"+c.Param("id")+"'")
		return
	}
	for k, v := range doc.Data.Attributes {
		r.Attributes[k] = v
	}
	c.JSON(http.StatusOK, gin.H{"data": reviewResource(r)})
}

func (s *Server) createSubmission(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}
	versionID := related(doc, "appStoreVersion")

	s.mu.Lock()
	defer s.mu.Unlock()

	v, found := s.versions[versionID]
	if !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'appStoreVersions' with id '"+versionID+"'")
		return
	}
	if v.BuildID == "" {
		writeError(c, http.StatusConflict, "You must choose a build before submitting for review")
		return
	}
	v.AppStoreState = string(domain.AppStoreStateWaitingForReview)
	s.submissions = append(s.submissions, versionID)
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"type": "appStoreVersionSubmissions", "id": s.newID("sub")}})
}

// ============================================================================
// TestFlight
// ============================================================================

func betaGroupResource(g *BetaGroup) gin.H {
	return gin.H{
		"type": "betaGroups",
		"id":   g.ID,
		"attributes": gin.H{
			"name":              g.Name,
			"isInternalGroup":   g.IsInternalGroup,
			"publicLinkEnabled": g.PublicLinkEnabled,
			"feedbackEnabled":   g.FeedbackEnabled,
		},
	}
}

func (s *Server) listBetaGroups(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.betaGroups))
	for id := range s.betaGroups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var data []gin.H
	for _, id := range ids {
		g := s.betaGroups[id]
		if !matches(c.Query("filter[app]"), strconv.FormatInt(g.AppID, 10)) ||
			!matches(c.Query("filter[name]"), g.Name) ||
			!matches(c.Query("filter[isInternalGroup]"), strconv.FormatBool(g.IsInternalGroup)) {
			continue
		}
		data = append(data, betaGroupResource(g))
	}
	items, links := page(s, c, data)
	c.JSON(http.StatusOK, gin.H{"data": emptyIfNil(items), "links": links})
}

func (s *Server) createBetaGroup(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}
	appID, err := strconv.ParseInt(related(doc, "app"), 10, 64)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, "relationships.app is required")
		return
	}
	attrs := doc.Data.Attributes

	s.mu.Lock()
	defer s.mu.Unlock()

	g := &BetaGroup{ID: s.newID("grp"), AppID: appID}
	g.Name, _ = attrs["name"].(string)
	g.PublicLinkEnabled, _ = attrs["publicLinkEnabled"].(bool)
	g.FeedbackEnabled, _ = attrs["feedbackEnabled"].(bool)
	s.betaGroups[g.ID] = g
	c.JSON(http.StatusCreated, gin.H{"data": betaGroupResource(g)})
}

func (s *Server) createBetaNotification(c *gin.Context) {
	doc, ok := bind[document](c)
	if !ok {
		return
	}
	buildID := related(doc, "build")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.builds[buildID]; !found {
		writeError(c, http.StatusNotFound, "There is no resource of type 'builds' with id '"+buildID+"'")
		return
	}
	if s.notified[buildID] {
		writeError(c, http.StatusConflict, "Testers have already been notified for this build")
		return
	}
	s.notified[buildID] = true
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"type": "buildBetaNotifications", "id": s.newID("ntf")}})
}

func emptyIfNil(items []gin.H) []gin.H {
	if items == nil {
		return []gin.H{}
	}
	return items
}
