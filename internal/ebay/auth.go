package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/logging"
)

var (
	// ErrNotConfigured means client credentials are missing; sampling is
	// unavailable for the lifetime of the process.
	ErrNotConfigured = errors.New("ebay client credentials not configured")
	// ErrTokenUnavailable means the token endpoint could not be reached or
	// refused the exchange. Callers skip the operation.
	ErrTokenUnavailable = errors.New("ebay access token unavailable")
)

// expiryMargin is subtracted from the server-reported lifetime.
const expiryMargin = 60 * time.Second

// Credentials holds the application keys for the client-credentials grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scope        string
}

// Configured reports whether both halves of the key pair are present.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// OAuthToken is the token endpoint response.
type OAuthToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
}

// valid reports whether the token can still be used at now.
func (t *OAuthToken) valid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.ExpiresAt.Add(-expiryMargin))
}

// TokenCache lazily exchanges client credentials for an application access
// token and keeps it until shortly before expiry. Concurrent refreshes are
// allowed; the last one to finish wins.
type TokenCache struct {
	creds      Credentials
	httpClient *http.Client
	logger     *logrus.Entry
	now        func() time.Time

	mu    sync.RWMutex
	token *OAuthToken

	warnOnce sync.Once
}

// NewTokenCache creates a token cache. A nil httpClient gets a 15s timeout.
func NewTokenCache(creds Credentials, httpClient *http.Client, logger *logrus.Entry) *TokenCache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &TokenCache{
		creds:      creds,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns a valid access token, refreshing it if necessary.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if !c.creds.Configured() {
		c.warnOnce.Do(func() {
			c.logger.Warn("ebay credentials missing; marketplace sampling disabled")
		})
		return "", ErrNotConfigured
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token.valid(c.now()) {
		return token.AccessToken, nil
	}

	fresh, err := c.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return fresh.AccessToken, nil
}

// Refresh unconditionally performs the client-credentials exchange and
// stores the result.
func (c *TokenCache) Refresh(ctx context.Context) (*OAuthToken, error) {
	if !c.creds.Configured() {
		return nil, ErrNotConfigured
	}

	token, err := c.exchange(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("token refresh failed")
		return nil, fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.logger.WithField("expires_at", token.ExpiresAt).Debug("access token refreshed")
	return token, nil
}

func (c *TokenCache) exchange(ctx context.Context) (*OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("scope", c.creds.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.creds.ClientID + ":" + c.creds.ClientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var token OAuthToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	token.ExpiresAt = c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return &token, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
