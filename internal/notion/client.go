package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL    = "https://api.notion.com"
	defaultAPIVersion = "2022-06-28"
	queryPageSize     = 100
)

var (
	errMissingClientToken = errors.New("integration token must not be empty")
	errMissingDatabaseID  = errors.New("database id must not be empty")
	errMissingPageID      = errors.New("page id must not be empty")
	// ErrInvalidClientConfig indicates the client could not be constructed.
	ErrInvalidClientConfig = errors.New("notion: invalid client config")
	// ErrNotFound indicates the requested page does not exist upstream.
	ErrNotFound = errors.New("notion: page not found")
)

// APIError carries a non-2xx response from the workspace store.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// ClientConfig bundles configuration required to instantiate a Client.
type ClientConfig struct {
	Token      string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the workspace store's HTTP API. All calls honor the
// supplied context; retries are left to the caller.
type Client struct {
	token      string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a client with validated configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClientConfig, errMissingClientToken)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:      token,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// QueryResult is one page of a collection enumeration.
type QueryResult struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type queryRequest struct {
	StartCursor *string `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size"`
}

// QueryDatabase fetches one page of records from a collection, resuming
// from startCursor when non-nil.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, startCursor *string) (QueryResult, error) {
	if strings.TrimSpace(databaseID) == "" {
		return QueryResult{}, errMissingDatabaseID
	}

	body := queryRequest{StartCursor: startCursor, PageSize: queryPageSize}
	var result QueryResult
	path := fmt.Sprintf("/v1/databases/%s/query", databaseID)
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return QueryResult{}, err
	}
	return result, nil
}

// QueryAll enumerates an entire collection, following pagination until
// the store reports no further pages.
func (c *Client) QueryAll(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	var cursor *string
	for {
		result, err := c.QueryDatabase(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, result.Results...)
		if !result.HasMore || result.NextCursor == nil {
			return pages, nil
		}
		cursor = result.NextCursor
	}
}

// GetPage fetches a single record by identifier.
func (c *Client) GetPage(ctx context.Context, pageID string) (Page, error) {
	if strings.TrimSpace(pageID) == "" {
		return Page{}, errMissingPageID
	}
	var page Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+pageID, nil, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

type updateRequest struct {
	Properties map[string]PropertyValue `json:"properties"`
}

// UpdatePage writes the supplied properties to an existing record.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]PropertyValue) error {
	if strings.TrimSpace(pageID) == "" {
		return errMissingPageID
	}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, updateRequest{Properties: properties}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	request.Header.Set("Notion-Version", c.apiVersion)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("notion: %s %s: %w", method, path, err)
	}
	defer response.Body.Close() //nolint:errcheck

	if response.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: response.StatusCode}
		if decodeErr := json.NewDecoder(response.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = "unreadable error body"
		}
		c.logger.Warn("workspace store call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", response.StatusCode),
			zap.String("code", apiErr.Code))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}
