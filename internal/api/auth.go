package api

import (
	"context"
	"net/http"

	"github.com/libilabs/console/internal/model"
)

// LoginResult is the response of a successful login.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a bearer token and installs it on the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(res.Token)
	return res, nil
}

// Me returns the profile behind the current token.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u)
	return u, err
}
