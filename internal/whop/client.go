// Package whop talks to the host platform's REST API. The application never
// stores credentials of its own: identity, membership, and access levels all
// come from here.
package whop

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AccessLevel is the host platform's answer to "what may this user do in
// this experience".
type AccessLevel string

const (
	AccessAdmin  AccessLevel = "admin"
	AccessMember AccessLevel = "member"
	AccessNone   AccessLevel = "no_access"
)

// Membership is the subset of the host's membership object the app reads.
type Membership struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	User   struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type accessResponse struct {
	AccessLevel string `json:"access_level"`
}

// ClientInterface is the surface the rest of the application depends on, so
// handlers and middleware can be exercised against a stub.
type ClientInterface interface {
	CheckAccess(ctx context.Context, userID, experienceID string) (AccessLevel, error)
	GetMembership(ctx context.Context, membershipID string) (*Membership, error)
	CancelMembership(ctx context.Context, membershipID string) error
}

// Config holds the client settings.
type Config struct {
	BaseURL        string
	APIKey         string
	DemoMode       bool
	RateLimit      float64
	RateLimitBurst int
}

// Client is a rate-limited REST client for the host platform API.
type Client struct {
	client   *resty.Client
	logger   *zap.Logger
	limiter  *rate.Limiter
	demoMode bool
}

var _ ClientInterface = (*Client)(nil)

// NewClient creates a host platform API client. In demo mode (or when no API
// key is configured) no network calls are made: every user is treated as an
// admin and memberships resolve to canned values, mirroring the hosted demo
// environment.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	demo := cfg.DemoMode || cfg.APIKey == ""
	if demo {
		logger.Warn("whop client running in demo mode, all users are admins")
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		client:   client,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		demoMode: demo,
	}
}

// CheckAccess resolves a user's access level for an experience.
func (c *Client) CheckAccess(ctx context.Context, userID, experienceID string) (AccessLevel, error) {
	if c.demoMode {
		return AccessAdmin, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return AccessNone, err
	}

	var body accessResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/users/%s/access/%s", userID, experienceID))
	if err != nil {
		return AccessNone, fmt.Errorf("access check request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return AccessNone, nil
	}
	if resp.IsError() {
		return AccessNone, fmt.Errorf("access check failed with status %d", resp.StatusCode())
	}

	switch AccessLevel(body.AccessLevel) {
	case AccessAdmin, AccessMember:
		return AccessLevel(body.AccessLevel), nil
	default:
		return AccessNone, nil
	}
}

// GetMembership fetches a membership by id. Returns nil when the host does
// not know the membership.
func (c *Client) GetMembership(ctx context.Context, membershipID string) (*Membership, error) {
	if c.demoMode {
		m := &Membership{ID: membershipID, Status: "active"}
		m.User.ID = "demo-user"
		m.User.Username = "demo"
		return m, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var membership Membership
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&membership).
		Get("/memberships/" + membershipID)
	if err != nil {
		return nil, fmt.Errorf("membership request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("membership lookup failed with status %d", resp.StatusCode())
	}
	return &membership, nil
}

// CancelMembership cancels a membership with the host platform. Feedback is
// persisted before this is called, so a failure here never loses the
// member's reason for leaving.
func (c *Client) CancelMembership(ctx context.Context, membershipID string) error {
	if c.demoMode {
		c.logger.Info("demo mode, skipping membership cancellation",
			zap.String("membership_id", membershipID))
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/memberships/" + membershipID)
	if err != nil {
		return fmt.Errorf("cancel request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("cancellation failed with status %d", resp.StatusCode())
	}
	return nil
}
