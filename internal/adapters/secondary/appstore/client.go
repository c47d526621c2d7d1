package appstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"k8s.io/client-go/util/flowcontrol"

	"appstore-release-client/internal/config"
	"appstore-release-client/internal/core/domain"
	ports "appstore-release-client/internal/core/ports/output"
)

const (
	headerRequestID = "X-Request-ID"
	pageLimit       = "200"
)

type client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource
	limiter flowcontrol.RateLimiter
}

// NewClient creates the App Store Connect API adapter
func NewClient(cfg *config.APIConfig, tokens ports.TokenSource) ports.AppStoreAPI {
	return newClient(cfg, tokens, nil)
}

// NewClientWithHTTP is NewClient with a caller supplied *http.Client, e.g. for proxies or tests.
func NewClientWithHTTP(cfg *config.APIConfig, tokens ports.TokenSource, httpClient *http.Client) ports.AppStoreAPI {
	return newClient(cfg, tokens, httpClient)
}

func newClient(cfg *config.APIConfig, tokens ports.TokenSource, httpClient *http.Client) *client {
	baseURL := strings.TrimRight(cfg.URL, "/")
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter flowcontrol.RateLimiter
	if cfg.RateLimitQPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = flowcontrol.NewTokenBucketRateLimiter(cfg.RateLimitQPS, burst)
	} else {
		limiter = flowcontrol.NewFakeAlwaysRateLimiter()
	}

	return &client{
		baseURL: baseURL,
		http:    httpClient,
		tokens:  tokens,
		limiter: limiter,
	}
}

func (c *client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends one request. Responses with status >= 400 become *domain.APIError carrying
// the detail messages of the JSON:API error document.
func (c *client) do(ctx context.Context, op, method, rawURL string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit: %w", op, err)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"status":     resp.StatusCode,
		"method":     method,
		"path":       req.URL.Path,
		"latency_ms": time.Since(start).Milliseconds(),
		"request_id": requestID,
	}).Debug("app store connect request completed")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func decodeAPIError(op string, resp *http.Response) error {
	apiErr := &domain.APIError{Op: op, StatusCode: resp.StatusCode}
	var doc errorDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err == nil {
		apiErr.Details = doc.details()
	}
	return apiErr
}

// list follows the next links until every page has been read.
func list[A any](ctx context.Context, c *client, op, path string, query url.Values) ([]resource[A], error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("limit", pageLimit)

	var out []resource[A]
	next := c.url(path, query)
	for next != "" {
		var doc listDocument[A]
		if err := c.do(ctx, op, http.MethodGet, next, nil, &doc); err != nil {
			return nil, err
		}
		out = append(out, doc.Data...)
		if doc.Links.Next == next {
			break
		}
		next = doc.Links.Next
	}
	return out, nil
}
