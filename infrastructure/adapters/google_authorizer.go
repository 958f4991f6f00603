package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/config"
)

type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// googleAuthorizer exchanges a long-lived refresh token for access tokens and
// caches the result until shortly before expiry.
type googleAuthorizer struct {
	logger outbound.LoggerPort
	conf   *config.GoogleConfig

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewGoogleAuthorizer(logger outbound.LoggerPort, conf *config.GoogleConfig) Authorizer {
	return &googleAuthorizer{
		logger: logger,
		conf:   conf,
	}
}

func (a *googleAuthorizer) Authorize(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.expires) {
		return a.token, nil
	}

	form := url.Values{}
	form.Set("client_id", a.conf.ClientID)
	form.Set("client_secret", a.conf.ClientSecret)
	form.Set("refresh_token", a.conf.RefreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.conf.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		a.logger.Error(err, "Failed to create the token request")
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		a.logger.Error(err, "Failed to send the token request")
		return "", err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			a.logger.Error(err, "Failed to close the token response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error(err, "Failed to read the token response body")
		return "", err
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		a.logger.Error(err, "Failed to unmarshal the token response")
		return "", err
	}

	a.token = token.AccessToken
	// Refresh a minute early so in-flight requests never race expiry.
	a.expires = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)
	a.logger.Debug("refreshed Google access token")

	return a.token, nil
}
