// Package vk is a small client for the parts of the VK API used to analyze
// group audiences.
package vk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/service"
)

const (
	// MembersPageSize is the largest page groups.getMembers returns.
	MembersPageSize = 1000
	// MaxSearchResults is the largest page groups.search returns.
	MaxSearchResults = 1000

	memberFields = "sex,bdate,city,country,interests,activities,last_seen"
	groupFields  = "members_count,description,activity"
)

// Config configures a Client.
type Config struct {
	HTTPClient   *http.Client
	Logger       *slog.Logger
	Token        string
	APIVersion   string
	BaseURL      string
	Retry        service.RetryOptions
	RequestDelay time.Duration
	MaxMembers   int
}

// Client talks to the VK API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	pacer      *pacer
	logger     *slog.Logger
	token      string
	version    string
	baseURL    string
	retry      service.RetryOptions
	maxMembers int
}

// New creates a client. The caller must Close it.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("%w: vk token is required", common.ErrMissingConfig)
	}

	c := &Client{
		httpClient: cfg.HTTPClient,
		pacer:      newPacer(cfg.RequestDelay),
		logger:     cfg.Logger,
		token:      cfg.Token,
		version:    cfg.APIVersion,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retry:      cfg.Retry,
		maxMembers: cfg.MaxMembers,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.version == "" {
		c.version = "5.199"
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.vk.com/method"
	}
	if c.maxMembers <= 0 {
		c.maxMembers = 10000
	}
	if c.retry.MaxAttempts == 0 {
		c.retry = service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     5 * time.Second,
			Multiplier:   2,
		}
	}
	return c, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetGroup resolves a group link and returns its metadata.
func (c *Client) GetGroup(ctx context.Context, link string) (*model.Group, error) {
	groupID, err := ExtractGroupID(link)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("group_id", groupID)
	params.Set("fields", groupFields)

	var raw json.RawMessage
	if err := c.call(ctx, "groups.getById", params, &raw); err != nil {
		return nil, err
	}

	groups, err := decodeGroups(raw)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("group %s: %w", groupID, common.ErrNotFound)
	}
	return &groups[0], nil
}

// decodeGroups accepts both the legacy array response of groups.getById and the
// {"groups": [...]} object returned since API 5.139.
func decodeGroups(raw json.RawMessage) ([]model.Group, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var groups []model.Group
		if err := json.Unmarshal(raw, &groups); err != nil {
			return nil, fmt.Errorf("failed to decode groups: %w", err)
		}
		return groups, nil
	}

	var wrapped struct {
		Groups []model.Group `json:"groups"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %w", err)
	}
	return wrapped.Groups, nil
}

type membersPage struct {
	Items []model.MemberProfile `json:"items"`
	Count int                   `json:"count"`
}

// GetMembers pages through groups.getMembers until limit members are fetched or
// the group runs out. A non-positive limit uses the configured maximum.
func (c *Client) GetMembers(ctx context.Context, groupID string, limit int, onPage service.PageFunc) ([]model.MemberProfile, error) {
	if limit <= 0 || limit > c.maxMembers {
		limit = c.maxMembers
	}

	var members []model.MemberProfile
	offset := 0
	for len(members) < limit {
		count := min(MembersPageSize, limit-len(members))

		params := url.Values{}
		params.Set("group_id", groupID)
		params.Set("offset", strconv.Itoa(offset))
		params.Set("count", strconv.Itoa(count))
		params.Set("fields", memberFields)

		var page membersPage
		if err := c.call(ctx, "groups.getMembers", params, &page); err != nil {
			return members, fmt.Errorf("failed to fetch members of %s at offset %d: %w", groupID, offset, err)
		}

		members = append(members, page.Items...)
		offset += len(page.Items)

		if onPage != nil {
			onPage(len(members), min(limit, page.Count))
		}
		c.logger.Debug("fetched members page",
			"group_id", groupID,
			"fetched", len(members),
			"total", page.Count)

		if len(page.Items) < count || offset >= page.Count {
			break
		}
	}

	if len(members) > limit {
		members = members[:limit]
	}
	return members, nil
}

type searchPage struct {
	Items []model.Group `json:"items"`
	Count int           `json:"count"`
}

// SearchGroups runs groups.search and keeps only open groups.
func (c *Client) SearchGroups(ctx context.Context, query string, limit int) ([]model.Group, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "group")
	params.Set("count", strconv.Itoa(limit))
	params.Set("fields", groupFields)

	var page searchPage
	if err := c.call(ctx, "groups.search", params, &page); err != nil {
		return nil, fmt.Errorf("failed to search groups for %q: %w", query, err)
	}

	open := make([]model.Group, 0, len(page.Items))
	for _, g := range page.Items {
		if g.IsOpen() {
			open = append(open, g)
		}
	}
	return open, nil
}

type envelope struct {
	Error    *APIError       `json:"error"`
	Response json.RawMessage `json:"response"`
}

// call performs one API method with pacing and retries, decoding the response
// payload into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	params.Set("access_token", c.token)
	params.Set("v", c.version)

	return common.WithRetry(ctx, func() error {
		if err := c.pacer.wait(ctx); err != nil {
			return err
		}

		payload, err := c.do(ctx, method, params)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return common.Permanent(fmt.Errorf("failed to decode %s response: %w", method, err))
		}
		return nil
	}, c.retry)
}

func (c *Client) do(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, common.Retryable(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.Retryable(fmt.Errorf("failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.Retryable(fmt.Errorf("vk %s: status %d: %w", method, resp.StatusCode, common.ErrRateLimit))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, common.Retryable(fmt.Errorf("vk %s: status %d", method, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, common.Permanent(fmt.Errorf("vk %s: status %d: %s", method, resp.StatusCode, string(body)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to parse %s response: %w", method, err))
	}
	if env.Error != nil {
		env.Error.Method = method
		c.logger.Warn("vk api error", "method", method, "code", env.Error.Code, "message", env.Error.Message)
		if env.Error.temporary() {
			return nil, common.Retryable(env.Error)
		}
		return nil, common.Permanent(env.Error)
	}
	return env.Response, nil
}
