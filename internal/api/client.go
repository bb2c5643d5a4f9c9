// Package api provides a client for the group-management backend's activity
// feed and filter catalogs.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/normalize"
	"github.com/ssewanyana/groupcal/internal/service"
)

// Config holds backend API configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: api base URL is required", common.ErrMissingConfig)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("%w: invalid api base URL: %v", common.ErrInvalidConfig, err)
	}
	return nil
}

// Client implements the EventSource interface over the backend's REST API.
// The backend is treated as unreliable: any field may be missing and any
// server-side narrowing is advisory, so callers always re-filter the result.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	retryOpts  service.RetryOptions
	baseURL    string
	token      string
}

// NewClient creates a new backend API client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		logger:     common.ComponentLogger("api"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// eventsEnvelope tolerates the two response shapes the backend has been
// observed to return.
type eventsEnvelope struct {
	Events []normalize.RawRecord `json:"events"`
	Data   []normalize.RawRecord `json:"data"`
}

// FetchEvents retrieves the raw activity feed for a date range.
func (c *Client) FetchEvents(ctx context.Context, dateRange model.DateRange, hints service.FetchHints) ([]normalize.RawRecord, error) {
	params := url.Values{}
	params.Set("start", dateRange.Start.Format("2006-01-02"))
	params.Set("end", dateRange.End.Format("2006-01-02"))
	if len(hints.GroupIDs) > 0 {
		params.Set("groups", strings.Join(hints.GroupIDs, ","))
	}
	if len(hints.EventTypes) > 0 {
		types := make([]string, len(hints.EventTypes))
		for i, t := range hints.EventTypes {
			types[i] = string(t)
		}
		params.Set("types", strings.Join(types, ","))
	}

	var records []normalize.RawRecord
	err := common.WithRetry(ctx, func() error {
		body, err := c.get(ctx, "/api/v1/activity/events", params)
		if err != nil {
			return err
		}
		records, err = decodeEvents(body)
		return err
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Fetched activity feed",
		"start", dateRange.Start.Format("2006-01-02"),
		"end", dateRange.End.Format("2006-01-02"),
		"records", len(records))
	return records, nil
}

// decodeEvents accepts both an enveloped and a bare-array response body.
func decodeEvents(body []byte) ([]normalize.RawRecord, error) {
	var envelope eventsEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Events != nil {
			return envelope.Events, nil
		}
		if envelope.Data != nil {
			return envelope.Data, nil
		}
	}
	var records []normalize.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		// A body we cannot parse will not improve on retry.
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrBadResponse, err),
			Retryable: false,
		}
	}
	return records, nil
}

// filterOptionsResponse mirrors the catalog endpoint payload.
type filterOptionsResponse struct {
	Regions              []string `json:"regions"`
	Districts            []string `json:"districts"`
	Parishes             []string `json:"parishes"`
	Villages             []string `json:"villages"`
	Roles                []string `json:"roles"`
	Genders              []string `json:"genders"`
	FundTypes            []string `json:"fundTypes"`
	EventTypes           []string `json:"eventTypes"`
	VerificationStatuses []string `json:"verificationStatuses"`
	Groups               []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"groups"`
}

// FetchFilterOptions retrieves the selectable filter value catalog.
func (c *Client) FetchFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var resp filterOptionsResponse
	err := common.WithRetry(ctx, func() error {
		body, err := c.get(ctx, "/api/v1/activity/filter-options", nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %v", common.ErrBadResponse, err),
				Retryable: false,
			}
		}
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	options := &model.FilterOptions{
		Regions:   resp.Regions,
		Districts: resp.Districts,
		Parishes:  resp.Parishes,
		Villages:  resp.Villages,
		Roles:     resp.Roles,
	}
	for _, g := range resp.Genders {
		options.Genders = append(options.Genders, model.Gender(g))
	}
	for _, f := range resp.FundTypes {
		options.FundTypes = append(options.FundTypes, model.FundType(f))
	}
	for _, e := range resp.EventTypes {
		options.EventTypes = append(options.EventTypes, model.EventType(e))
	}
	for _, v := range resp.VerificationStatuses {
		options.VerificationStatuses = append(options.VerificationStatuses, model.VerificationStatus(v))
	}
	for _, g := range resp.Groups {
		options.Groups = append(options.Groups, model.GroupRef{ID: g.ID, Name: g.Name})
	}
	return options, nil
}

// get performs one authenticated GET and classifies transport and status
// failures for the retry helper.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrAPIConnection, err),
			Retryable: true,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("failed to read response: %w", err),
			Retryable: true,
		}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrAPIRateLimit
	case resp.StatusCode >= 500:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: status %d", common.ErrAPIConnection, resp.StatusCode),
			Retryable: true,
		}
	default:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: status %d: %s", common.ErrBadResponse, resp.StatusCode, errorMessage(body)),
			Retryable: false,
		}
	}
}

// errorMessage digs a human-readable message out of whichever error envelope
// the backend chose to send.
func errorMessage(body []byte) string {
	var shapes struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &shapes); err == nil {
		for _, msg := range []string{shapes.Error, shapes.Message, shapes.Detail} {
			if msg != "" {
				return msg
			}
		}
	}
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
