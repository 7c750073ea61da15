/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-logr/logr"
	"github.com/onsi/ginkgo/v2"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

var (
	// ErrMissingAccessToken is returned when a successful login carries no token.
	ErrMissingAccessToken = errors.New("no access_token found in login response")
)

// LoginError is returned when login answers with anything but 200.
type LoginError struct {
	StatusCode int
	TraceID    string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed with status: %d", e.StatusCode)
}

// AuthToken is a bearer token issued by login.
type AuthToken = openapi.TokenResponse

// AuthClient is the subset of the API client used to acquire tokens.
type AuthClient interface {
	Signup(ctx context.Context, payload any, opts ...RequestOption) (*Response, error)
	Login(ctx context.Context, payload any, opts ...RequestOption) (*Response, error)
}

// TokenProvider registers a credential and logs in with it, optionally
// keeping the token for the life of the provider.  Create one per run and
// share it, there is no package level cache.
type TokenProvider struct {
	client     AuthClient
	credential Credential
	caching    bool
	log        logr.Logger

	lock  sync.Mutex
	token *AuthToken
}

// TokenProviderOption configures a TokenProvider.
type TokenProviderOption func(*TokenProvider)

// WithoutCaching makes every Token call register and log in again.
func WithoutCaching() TokenProviderOption {
	return func(p *TokenProvider) {
		p.caching = false
	}
}

// WithTokenLogger sets where signup warnings go, by default the Ginkgo writer.
func WithTokenLogger(log logr.Logger) TokenProviderOption {
	return func(p *TokenProvider) {
		p.log = log
	}
}

func NewTokenProvider(client AuthClient, credential Credential, opts ...TokenProviderOption) *TokenProvider {
	p := &TokenProvider{
		client:     client,
		credential: credential,
		caching:    true,
		log:        ginkgo.GinkgoLogr,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Credential returns the identity tokens are issued for.
func (p *TokenProvider) Credential() Credential {
	return p.credential
}

func (p *TokenProvider) cached() *AuthToken {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.token
}

func (p *TokenProvider) store(token *AuthToken) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.token = token
}

// Invalidate drops any cached token.
func (p *TokenProvider) Invalidate() {
	p.store(nil)
}

// Token returns a bearer token for the credential.  The lock is never held
// while talking to the service, so racing first callers may both log in,
// in which case the last one to finish is cached.
func (p *TokenProvider) Token(ctx context.Context) (*AuthToken, error) {
	if p.caching {
		if token := p.cached(); token != nil {
			return token, nil
		}
	}

	p.signup(ctx)

	token, err := p.login(ctx)
	if err != nil {
		return nil, err
	}

	if p.caching {
		p.store(token)
	}

	return token, nil
}

// signup registers the credential.  Failure is expected when the account
// already exists, so it is only logged and login decides the outcome.
func (p *TokenProvider) signup(ctx context.Context) {
	response, err := p.client.Signup(ctx, p.credential)
	if err != nil {
		p.log.Info("signup failed, proceeding to login anyway", "email", p.credential.Email, "error", err.Error())
		return
	}

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		p.log.Info("signup failed, proceeding to login anyway", "email", p.credential.Email, "status", response.StatusCode, "traceID", response.TraceID)
	}
}

func (p *TokenProvider) login(ctx context.Context) (*AuthToken, error) {
	response, err := p.client.Login(ctx, p.credential)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, &LoginError{
			StatusCode: response.StatusCode,
			TraceID:    response.TraceID,
		}
	}

	token := &AuthToken{}

	if err := response.DecodeJSON(token); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingAccessToken, err)
	}

	if token.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	return token, nil
}
