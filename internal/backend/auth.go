// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"

	"github.com/hanbit-church/website/internal/model"
)

// Credentials is the sign-up / sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is a successful password sign-in response.
type Token struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"`
	User        model.Identity `json:"user"`
}

// SignUp creates a new authenticated identity at the auth provider.
// The identity is created unconfirmed or confirmed per the provider's
// own settings; this client only relays the call.
func (c *Client) SignUp(ctx context.Context, email, password string) (model.Identity, error) {
	var identity model.Identity
	err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/v1/signup", "",
		Credentials{Email: email, Password: password}, &identity)
	if err != nil {
		return model.Identity{}, err
	}
	return identity, nil
}

// SignInWithPassword verifies credentials with the auth provider and
// returns an access token plus the signed-in identity. Invalid
// credentials map to model.ErrInvalidCredentials.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Token, error) {
	var token Token
	err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/v1/token?grant_type=password", "",
		Credentials{Email: email, Password: password}, &token)
	if err != nil {
		return Token{}, err
	}
	return token, nil
}

// SignOut revokes the given access token at the auth provider.
// Best-effort: the caller destroys the local session regardless of the
// outcome, so sign-out stays idempotent even when the token is already
// expired or the backend is unreachable.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", token, nil, nil)
}

// GetUser returns the identity the access token belongs to.
func (c *Client) GetUser(ctx context.Context, token string) (model.Identity, error) {
	var identity model.Identity
	err := c.do(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", token, nil, &identity)
	if err != nil {
		return model.Identity{}, err
	}
	return identity, nil
}
