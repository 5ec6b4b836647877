package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Tokens are refreshed once they are within this window of expiring.
const RefreshSkew = 60 * time.Second

// TokenProvider caches a token for one resource. EnsureToken must be called
// before every outbound call that needs the token.
type TokenProvider struct {
	mu       sync.Mutex
	cred     Credential
	resource string
	token    Token
	now      func() time.Time
}

func NewTokenProvider(cred Credential, resource string) *TokenProvider {
	return &TokenProvider{cred: cred, resource: resource, now: time.Now}
}

func (p *TokenProvider) IsKey() bool {
	return p.cred.IsKey()
}

func (p *TokenProvider) EnsureToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Value != "" && !p.expiring() {
		return p.token.Value, nil
	}

	token, err := p.cred.GetToken(ctx, p.resource)
	if err != nil {
		return "", fmt.Errorf("error refreshing token for %s: %w", p.resource, err)
	}

	if !p.cred.IsKey() {
		slog.Info("refreshed access token", "resource", p.resource, "expires_on", token.ExpiresOn)
	}

	p.token = token
	return token.Value, nil
}

func (p *TokenProvider) expiring() bool {
	if p.token.ExpiresOn.IsZero() {
		return false
	}
	return !p.now().Add(RefreshSkew).Before(p.token.ExpiresOn)
}
