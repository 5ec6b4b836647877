package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	CognitiveServicesResource = "https://cognitiveservices.azure.com"
	SearchResource            = "https://search.azure.com"

	DefaultIdentityEndpoint = "http://169.254.169.254/metadata/identity/oauth2/token"
	imdsAPIVersion          = "2018-02-01"
)

type Token struct {
	Value     string
	ExpiresOn time.Time
}

// Credential acquires access tokens for a resource.
type Credential interface {
	GetToken(ctx context.Context, resource string) (Token, error)

	// IsKey reports whether tokens from this credential are static api keys
	// rather than bearer tokens.
	IsKey() bool
}

type KeyCredential struct {
	key string
}

var _ Credential = (*KeyCredential)(nil)

func NewKeyCredential(key string) *KeyCredential {
	return &KeyCredential{key: key}
}

func (c *KeyCredential) GetToken(ctx context.Context, resource string) (Token, error) {
	return Token{Value: c.key}, nil
}

func (c *KeyCredential) IsKey() bool {
	return true
}

// ManagedIdentityCredential fetches tokens for the ambient managed identity
// from the instance metadata service.
type ManagedIdentityCredential struct {
	client   *resty.Client
	endpoint string
	clientID string
}

var _ Credential = (*ManagedIdentityCredential)(nil)

func NewManagedIdentityCredential(endpoint, clientID string) *ManagedIdentityCredential {
	if endpoint == "" {
		endpoint = DefaultIdentityEndpoint
	}

	client := resty.New().
		SetHeader("Metadata", "true").
		SetTimeout(10 * time.Second)

	return &ManagedIdentityCredential{client: client, endpoint: endpoint, clientID: clientID}
}

type imdsTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresOn   string `json:"expires_on"`
	ExpiresIn   string `json:"expires_in"`
}

func (c *ManagedIdentityCredential) GetToken(ctx context.Context, resource string) (Token, error) {
	params := map[string]string{
		"api-version": imdsAPIVersion,
		"resource":    resource,
	}
	if c.clientID != "" {
		params["client_id"] = c.clientID
	}

	var body imdsTokenResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&body).
		Get(c.endpoint)
	if err != nil {
		return Token{}, fmt.Errorf("error requesting managed identity token for %s: %w", resource, err)
	}
	if res.IsError() {
		return Token{}, fmt.Errorf("managed identity endpoint returned status %d for %s: %s", res.StatusCode(), resource, res.String())
	}

	if body.AccessToken == "" {
		return Token{}, fmt.Errorf("managed identity endpoint returned an empty token for %s", resource)
	}

	expiresOn, err := parseExpiry(body)
	if err != nil {
		return Token{}, err
	}

	slog.Debug("acquired managed identity token", "resource", resource, "expires_on", expiresOn)

	return Token{Value: body.AccessToken, ExpiresOn: expiresOn}, nil
}

func (c *ManagedIdentityCredential) IsKey() bool {
	return false
}

func parseExpiry(body imdsTokenResponse) (time.Time, error) {
	if body.ExpiresOn != "" {
		secs, err := strconv.ParseInt(body.ExpiresOn, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid expires_on '%s' in token response: %w", body.ExpiresOn, err)
		}
		return time.Unix(secs, 0), nil
	}

	if body.ExpiresIn != "" {
		secs, err := strconv.ParseInt(body.ExpiresIn, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid expires_in '%s' in token response: %w", body.ExpiresIn, err)
		}
		return time.Now().Add(time.Duration(secs) * time.Second), nil
	}

	return time.Time{}, fmt.Errorf("token response is missing an expiry")
}
