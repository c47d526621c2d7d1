// Package fakeasc is an in-memory App Store Connect backend for tests.
package fakeasc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
)

// Call is one request received by the fake, in arrival order.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   json.RawMessage
}

type failure struct {
	status  int
	details []string
}

// Server holds the in-memory state behind the router.
type Server struct {
	mu sync.Mutex

	router   *gin.Engine
	pageSize int
	nextID   int

	builds        map[string]*Build
	versions      map[string]*Version
	localizations map[string]*Localization
	reviewDetails map[string]*ReviewDetail
	betaGroups    map[string]*BetaGroup
	submissions   []string
	notified      map[string]bool

	// RejectWhatsNew answers 409 to any localization update carrying whatsNew,
	// as the API does for an app's first version.
	RejectWhatsNew bool

	calls    []Call
	failures map[string][]failure
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		pageSize:      200,
		builds:        map[string]*Build{},
		versions:      map[string]*Version{},
		localizations: map[string]*Localization{},
		reviewDetails: map[string]*ReviewDetail{},
		betaGroups:    map[string]*BetaGroup{},
		notified:      map[string]bool{},
		failures:      map[string][]failure{},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logging())
	r.Use(s.recordCall())
	r.Use(requireBearer())
	r.Use(s.injectFailures())
	s.RegisterRoutes(r.Group("/v1"))
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) RegisterRoutes(r *gin.RouterGroup) {
	// Builds
	r.GET("/builds", s.listBuilds)
	r.GET("/builds/:id", s.getBuild)
	r.PATCH("/builds/:id", s.updateBuild)
	r.POST("/builds/:id/relationships/betaGroups", s.addBuildToGroups)

	// App Store Versions
	r.GET("/apps/:id/appStoreVersions", s.listVersions)
	r.POST("/appStoreVersions", s.createVersion)
	r.PATCH("/appStoreVersions/:id", s.updateVersion)
	r.PATCH("/appStoreVersions/:id/relationships/build", s.attachBuild)
	r.GET("/appStoreVersions/:id/appStoreVersionLocalizations", s.listLocalizations)
	r.GET("/appStoreVersions/:id/appStoreReviewDetail", s.getReviewDetail)

	// Localizations
	r.POST("/appStoreVersionLocalizations", s.createLocalization)
	r.PATCH("/appStoreVersionLocalizations/:id", s.updateLocalization)

	// Review
	r.POST("/appStoreReviewDetails", s.createReviewDetail)
	r.PATCH("/appStoreReviewDetails/:id", s.updateReviewDetail)
	r.POST("/appStoreVersionSubmissions", s.createSubmission)

	// TestFlight
	r.GET("/betaGroups", s.listBetaGroups)
	r.POST("/betaGroups", s.createBetaGroup)
	r.POST("/buildBetaNotifications", s.createBetaNotification)
}

// SetPageSize caps list pages so that clients have to follow links.next.
func (s *Server) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = n
}

// FailNext makes the next request matching method and path answer status with the
// given error details.
func (s *Server) FailNext(method, path string, status int, details ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, details: details})
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Mutations returns the non-GET calls as "METHOD path" strings.
func (s *Server) Mutations() []string {
	var out []string
	for _, c := range s.Calls() {
		if c.Method != http.MethodGet {
			out = append(out, c.Method+" "+c.Path)
		}
	}
	return out
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func writeError(c *gin.Context, status int, details ...string) {
	errs := make([]gin.H, 0, len(details))
	for _, d := range details {
		errs = append(errs, gin.H{
			"status": fmt.Sprintf("%d", status),
			"title":  http.StatusText(status),
			"detail": d,
		})
	}
	if len(errs) == 0 {
		errs = append(errs, gin.H{"status": fmt.Sprintf("%d", status), "title": http.StatusText(status)})
	}
	c.AbortWithStatusJSON(status, gin.H{"errors": errs})
}

// page slices items by the cursor query parameter and sets links.next when more remain.
func page[T any](s *Server, c *gin.Context, items []T) ([]T, gin.H) {
	size := s.pageSize
	offset := 0
	if cur := c.Query("cursor"); cur != "" {
		fmt.Sscanf(cur, "%d", &offset)
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + size
	if end > len(items) {
		end = len(items)
	}

	self := requestURL(c)
	links := gin.H{"self": self.String()}
	if end < len(items) {
		next := *self
		q := next.Query()
		q.Set("cursor", fmt.Sprintf("%d", end))
		next.RawQuery = q.Encode()
		links["next"] = next.String()
	}
	return items[offset:end], links
}

func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Scheme = "http"
	u.Host = c.Request.Host
	return &u
}
