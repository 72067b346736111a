// Package identity implements the IdentityProvider port over the identity
// service's REST API.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MeiJie12/siwesession/core"
	"github.com/MeiJie12/siwesession/ports"
)

const defaultTimeout = 10 * time.Second

// HTTPProvider talks to the identity service over HTTP. Each environment
// maps to its own service root and the three login endpoints hang off it.
type HTTPProvider struct {
	baseURLs map[core.Environment]string
	client   *http.Client
}

var _ ports.IdentityProvider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a provider. baseURLs maps each environment to
// the service root, e.g. "https://id.meijie.app". client may be nil, in
// which case a client with a 10 second timeout is used.
func NewHTTPProvider(baseURLs map[core.Environment]string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &HTTPProvider{
		baseURLs: baseURLs,
		client:   client,
	}
}

// GetNonce requests a fresh single-use challenge nonce for the address
func (p *HTTPProvider) GetNonce(ctx context.Context, address string, env core.Environment) (string, error) {
	body := struct {
		Address string `json:"address"`
	}{address}

	var resp struct {
		Nonce string `json:"nonce"`
	}
	if err := p.post(ctx, env, "/auth/challenge", body, &resp); err != nil {
		return "", err
	}

	return resp.Nonce, nil
}

// Authenticate submits the signed message and returns the user profile
// together with an intermediate token
func (p *HTTPProvider) Authenticate(ctx context.Context, req ports.AuthenticateRequest) (ports.AuthenticateResult, error) {
	body := struct {
		Message   string `json:"message"`
		Signature string `json:"signature"`
		AuthType  string `json:"auth_type"`
	}{req.Message, req.Signature, string(req.AuthType)}

	var resp struct {
		User  core.UserProfile `json:"user"`
		Token string           `json:"token"`
	}
	if err := p.post(ctx, req.Environment, "/auth/login", body, &resp); err != nil {
		return ports.AuthenticateResult{}, err
	}

	return ports.AuthenticateResult{
		Profile: resp.User,
		Token:   core.IntermediateToken(resp.Token),
	}, nil
}

// AuthorizeOIDC exchanges the intermediate token for the final access
// token, stamped with the moment it was obtained
func (p *HTTPProvider) AuthorizeOIDC(ctx context.Context, token core.IntermediateToken, env core.Environment) (core.Token, error) {
	body := struct {
		Token string `json:"token"`
	}{string(token)}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
		Scope       string `json:"scope"`
	}
	if err := p.post(ctx, env, "/auth/authorize", body, &resp); err != nil {
		return core.Token{}, err
	}

	return core.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
		Scope:       resp.Scope,
		ObtainedAt:  time.Now(),
	}, nil
}

func (p *HTTPProvider) post(ctx context.Context, env core.Environment, path string, body, out interface{}) error {
	base, ok := p.baseURLs[env]
	if !ok {
		return fmt.Errorf("no identity endpoint for environment %q", env)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", path, serviceError(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// serviceError extracts the service's error message from a non-200 reply
func serviceError(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Error != "" {
		return fmt.Sprintf("%s (%s)", body.Error, resp.Status)
	}
	return resp.Status
}
