package shopware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/channel"
)

// maxResponseSize is the maximum allowed response size from the remote API (10MB).
const maxResponseSize = 10 * 1024 * 1024

// tokenExpirySkew is subtracted from the advertised token lifetime so a token
// near expiry is never used for a request.
const tokenExpirySkew = 30 * time.Second

type accessToken struct {
	value     string
	expiresAt time.Time
}

func (t accessToken) valid() bool {
	return t.value != "" && time.Now().Before(t.expiresAt)
}

// Connector performs authenticated requests against the admin API of a
// channel's remote shop. Tokens are obtained through the client-credentials
// grant and cached per channel until shortly before expiry.
type Connector struct {
	httpClient *http.Client
	logger     *zap.Logger

	mu     sync.Mutex
	tokens map[uuid.UUID]accessToken
}

// NewConnector creates a connector with the given request timeout.
func NewConnector(timeout time.Duration, logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tokens:     make(map[uuid.UUID]accessToken),
	}
}

// request is one admin API call. Body of nil means no payload; a []byte body
// is sent as-is (uploads), everything else is JSON encoded.
type request struct {
	method      string
	path        string
	query       url.Values
	headers     map[string]string
	body        any
	contentType string
}

// do executes the request against the channel's host and returns the raw
// response body. Non-2xx responses are returned as *APIError.
func (c *Connector) do(ctx context.Context, ch *channel.Channel, req request) ([]byte, error) {
	token, err := c.token(ctx, ch)
	if err != nil {
		return nil, err
	}

	body, err := c.execute(ctx, ch, req, token)
	if err == nil {
		return body, nil
	}

	// A 401 means the cached token was revoked remotely. Re-authenticate
	// once and retry.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		c.invalidateToken(ch.ID)
		token, err = c.token(ctx, ch)
		if err != nil {
			return nil, err
		}
		return c.execute(ctx, ch, req, token)
	}

	return nil, err
}

func (c *Connector) execute(ctx context.Context, ch *channel.Channel, req request, token string) ([]byte, error) {
	endpoint, err := buildURL(ch.Host, req.path, req.query)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	contentType := req.contentType
	if req.body != nil {
		switch payload := req.body.(type) {
		case []byte:
			reader = bytes.NewReader(payload)
		default:
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("shopware: failed to encode request body: %w", err)
			}
			reader = bytes.NewReader(encoded)
			if contentType == "" {
				contentType = "application/json"
			}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("shopware: failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, value := range req.headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("shopware: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopware: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Debug("remote API error",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", resp.StatusCode))
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

func (c *Connector) token(ctx context.Context, ch *channel.Channel) (string, error) {
	c.mu.Lock()
	cached, ok := c.tokens[ch.ID]
	c.mu.Unlock()
	if ok && cached.valid() {
		return cached.value, nil
	}

	token, err := c.authenticate(ctx, ch)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.tokens[ch.ID] = token
	c.mu.Unlock()

	return token.value, nil
}

func (c *Connector) invalidateToken(channelID uuid.UUID) {
	c.mu.Lock()
	delete(c.tokens, channelID)
	c.mu.Unlock()
}

func (c *Connector) authenticate(ctx context.Context, ch *channel.Channel) (accessToken, error) {
	endpoint, err := buildURL(ch.Host, "/api/oauth/token", nil)
	if err != nil {
		return accessToken{}, err
	}

	payload, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     ch.ClientID,
		"client_secret": ch.ClientSecret,
	})
	if err != nil {
		return accessToken{}, fmt.Errorf("shopware: failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return accessToken{}, fmt.Errorf("shopware: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return accessToken{}, fmt.Errorf("shopware: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return accessToken{}, fmt.Errorf("shopware: failed to read token response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return accessToken{}, newAPIError(resp.StatusCode, body)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return accessToken{}, fmt.Errorf("shopware: failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return accessToken{}, fmt.Errorf("shopware: token response without access token")
	}

	lifetime := time.Duration(tokenResp.ExpiresIn) * time.Second
	if lifetime > tokenExpirySkew {
		lifetime -= tokenExpirySkew
	}

	return accessToken{
		value:     tokenResp.AccessToken,
		expiresAt: time.Now().Add(lifetime),
	}, nil
}

func buildURL(host, path string, query url.Values) (string, error) {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("shopware: invalid host %q: %w", host, err)
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + path
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return base.String(), nil
}
