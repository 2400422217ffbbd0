package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
)

// refreshLeeway is how close to expiry an access token may get before it is
// refreshed ahead of the next request.
const refreshLeeway = 30 * time.Second

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// tokenSource holds the bearer tokens shared by every request of the adapter.
type tokenSource struct {
	client *utils.HTTPClient
	now    func() time.Time

	mu      sync.Mutex
	access  string
	refresh string

	logger *logger.Logger
}

func newTokenSource(client *utils.HTTPClient, access, refresh string, log *logger.Logger) *tokenSource {
	return &tokenSource{
		client:  client,
		now:     time.Now,
		access:  strings.TrimSpace(access),
		refresh: strings.TrimSpace(refresh),
		logger:  log,
	}
}

// AccessToken returns the token to attach to the next request. A token that
// expires within refreshLeeway is refreshed first; a failed proactive refresh
// is logged and the old token is returned, the 401 path handles the rest.
func (t *tokenSource) AccessToken(ctx context.Context) string {
	t.mu.Lock()
	access, refresh := t.access, t.refresh
	t.mu.Unlock()

	if access == "" || refresh == "" {
		return access
	}

	exp, err := utils.TokenExpiry(access)
	if err != nil || exp.Sub(t.now()) > refreshLeeway {
		return access
	}

	fresh, err := t.Refresh(ctx, access)
	if err != nil {
		t.logger.Warn().Str("func", "tokenSource.AccessToken").Err(err).Msg("proactive token refresh failed")
		return access
	}
	return fresh
}

// Refresh exchanges the refresh token for a new access token. stale is the
// token the caller saw rejected; when another goroutine already replaced it,
// the current token is returned without a second round trip.
func (t *tokenSource) Refresh(ctx context.Context, stale string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.access != stale && t.access != "" {
		return t.access, nil
	}
	if t.refresh == "" {
		return "", ErrNoRefreshToken
	}

	var result refreshResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetAuthToken(t.refresh).
		SetResult(&result).
		Post("/auth/refresh")
	if err != nil {
		return "", transportError("refresh token request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("refresh token: %w: empty access token", ErrUnexpectedStatus)
	}

	t.access = result.AccessToken
	if result.RefreshToken != "" {
		t.refresh = result.RefreshToken
	}

	t.logger.Debug().Str("func", "tokenSource.Refresh").Msg("access token refreshed")
	return t.access, nil
}

// Tokens returns the current token pair.
func (t *tokenSource) Tokens() (access, refresh string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.access, t.refresh
}
