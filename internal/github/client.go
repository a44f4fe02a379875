package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"triagetrack/internal/core"
	"triagetrack/internal/logging"
)

// ErrRateLimited is returned when the API responds with HTTP 403, which the
// GitHub API uses for rate limiting. It is never retried automatically.
var ErrRateLimited = errors.New("hit GitHub rate limiting")

// APIError is returned for any other error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// PageSource is the paged query surface the locator and triage loop consume.
// Page indexes are zero-based; implementations translate to whatever the
// underlying service expects.
type PageSource interface {
	// IssuePage returns one page of issues sorted by the given field/direction,
	// optionally restricted to issues carrying all of the given labels.
	IssuePage(page, perPage int, labels []string, sort SortField, dir Direction) ([]Issue, error)

	// EventPage returns one page of issue events, newest first.
	EventPage(page, perPage int) ([]Event, error)

	// CommentPage returns one page of comments on an issue, optionally
	// restricted to comments at or after since.
	CommentPage(issue, page, perPage int, since *time.Time) ([]Comment, error)
}

// Client is the HTTP implementation of PageSource for one repository.
type Client struct {
	repo       string
	token      string
	baseURL    string
	httpClient *http.Client
	log        *log.Logger
}

// NewClient creates a client for the given "owner/name" repository. The token
// is optional; unauthenticated requests hit much lower rate limits.
func NewClient(repo, token string) *Client {
	if repo == "" {
		repo = core.DefaultRepo
	}
	return &Client{
		repo:    repo,
		token:   token,
		baseURL: fmt.Sprintf("%s/repos/%s", core.APIBaseURL, repo),
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
		log: logging.For("github"),
	}
}

// IssuePage implements PageSource.
func (c *Client) IssuePage(page, perPage int, labels []string, sort SortField, dir Direction) ([]Issue, error) {
	params := url.Values{}
	params.Set("sort", string(sort))
	params.Set("direction", string(dir))
	if len(labels) > 0 {
		params.Set("labels", strings.Join(labels, ","))
	}
	var issues []Issue
	if err := c.get("issues", page, perPage, params, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// EventPage implements PageSource.
func (c *Client) EventPage(page, perPage int) ([]Event, error) {
	params := url.Values{}
	params.Set("sort", string(SortCreated))
	params.Set("direction", string(NewestFirst))
	var events []Event
	if err := c.get("issues/events", page, perPage, params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CommentPage implements PageSource.
func (c *Client) CommentPage(issue, page, perPage int, since *time.Time) ([]Comment, error) {
	params := url.Values{}
	if since != nil {
		params.Set("since", since.UTC().Format(core.DatetimeFmt))
	}
	var comments []Comment
	if err := c.get(fmt.Sprintf("issues/%d/comments", issue), page, perPage, params, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// get performs a GET request and decodes the JSON payload into out.
// Retries on HTTP 5xx and connection errors with exponential back-off; a 403
// is surfaced as ErrRateLimited immediately and never retried.
func (c *Client) get(path string, page, perPage int, params url.Values, out interface{}) error {
	if perPage > core.MaxPerPage {
		return fmt.Errorf("per_page %d exceeds the API maximum of %d", perPage, core.MaxPerPage)
	}
	// The API's page parameter is one-based.
	params.Set("page", strconv.Itoa(page+1))
	params.Set("per_page", strconv.Itoa(perPage))

	urlStr := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())
	c.log.Debug("GET", "url", urlStr)

	maxRetries := 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequest("GET", urlStr, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", core.AcceptHeader)
		req.Header.Set("User-Agent", core.UserAgent)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				wait := time.Duration(1<<(attempt-1)) * time.Second
				c.log.Debug("connection error, retrying", "attempt", attempt, "wait", wait)
				time.Sleep(wait)
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusForbidden {
			return ErrRateLimited
		}

		if resp.StatusCode >= 500 {
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: string(body)}
			if attempt < maxRetries {
				wait := time.Duration(1<<(attempt-1)) * time.Second
				c.log.Debug("server error, retrying", "status", resp.StatusCode, "attempt", attempt, "wait", wait)
				time.Sleep(wait)
				continue
			}
			return lastErr
		}

		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return nil
	}

	return lastErr
}
