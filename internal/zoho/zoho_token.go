package zoho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const tokenType = "Zoho-oauthtoken"

// refreshTokenSource exchanges the preconfigured refresh URL for a fresh
// access token. It is wrapped in oauth2.ReuseTokenSource, which caches the
// token until shortly before it expires.
type refreshTokenSource struct {
	url     string
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Error       string `json:"error"`
}

func NewTokenSource(url string, client *http.Client, timeout time.Duration, logger *zap.Logger) oauth2.TokenSource {
	if client == nil {
		client = http.DefaultClient
	}
	src := &refreshTokenSource{
		url:     url,
		client:  client,
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
	return oauth2.ReuseTokenSource(nil, src)
}

func (s *refreshTokenSource) Token() (*oauth2.Token, error) {
	if s.url == "" {
		return nil, &TokenError{Err: errors.New("TOKEN_URL is not configured")}
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, nil)
	if err != nil {
		return nil, &TokenError{Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TokenError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &TokenError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TokenError{Err: &APIError{Status: resp.StatusCode, Body: string(body)}}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &TokenError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	if tr.AccessToken == "" || tr.ExpiresIn <= 0 {
		reason := "access_token or expires_in missing"
		if tr.Error != "" {
			reason = tr.Error
		}
		return nil, &TokenError{Err: errors.New(reason)}
	}

	expiry := s.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	s.logger.Info("zoho access token refreshed", zap.Time("expires_at", expiry))
	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tokenType,
		Expiry:      expiry,
	}, nil
}
