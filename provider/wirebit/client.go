package wirebit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	headerAPIKey   = "API-KEY"
	headerAPILogin = "API-LOGIN"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

const DefaultTimeout = time.Second * 30

// Config holds the provider endpoint and credential configuration
type Config struct {
	BaseURL  string // userapi base, with trailing slash
	FeedURL  string // XML rate export endpoint
	APIKey   string
	APILogin string
	Timeout  time.Duration
}

// Client is the Wirebit userapi HTTP client.
// It parses the loose provider envelope once, at this boundary, so callers
// only ever see decoded data or a typed *APIError
type Client struct {
	client   *http.Client
	baseURL  string
	feedURL  string
	apiKey   string
	apiLogin string
}

// NewClient creates a new Wirebit API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:  cfg.BaseURL,
		feedURL:  cfg.FeedURL,
		apiKey:   cfg.APIKey,
		apiLogin: cfg.APILogin,
	}
}

// Directions fetches the provider's direction listing
func (c *Client) Directions(ctx context.Context) ([]Direction, error) {
	data, err := c.call(ctx, http.MethodGet, "get_directions", "", nil)
	if err != nil {
		return nil, err
	}

	var directions []Direction
	if err := json.Unmarshal(data, &directions); err != nil {
		return nil, fmt.Errorf("%w: unable to decode directions: %s", ErrMalformed, err)
	}

	return directions, nil
}

// CreateBid submits the form-encoded bid payload to the provider
func (c *Client) CreateBid(ctx context.Context, form url.Values) (*BidInfo, error) {
	body := strings.NewReader(form.Encode())

	data, err := c.call(ctx, http.MethodPost, "create_bid", contentTypeForm, body)
	if err != nil {
		return nil, err
	}

	var info BidInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: unable to decode bid info: %s", ErrMalformed, err)
	}

	return &info, nil
}

// BidStatus fetches the provider-reported status of an existing bid
func (c *Client) BidStatus(ctx context.Context, bidID string) (*StatusInfo, error) {
	endpoint := "get_status?" + url.Values{"bid_id": {bidID}}.Encode()

	data, err := c.call(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}

	var info StatusInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: unable to decode bid status: %s", ErrMalformed, err)
	}

	return &info, nil
}

// call executes a provider API call and unwraps the response envelope
func (c *Client) call(
	ctx context.Context,
	method string,
	endpoint string,
	contentType string,
	body io.Reader,
) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s request: %w", method, err)
	}

	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerAPILogin, c.apiLogin)

	if contentType == "" {
		contentType = contentTypeJSON
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to execute %s request: %s", ErrNetwork, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: invalid status code received: %d", ErrNetwork, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: unable to decode envelope: %s", ErrMalformed, err)
	}

	if !env.ok() {
		return nil, env.err()
	}

	return env.Data, nil
}
