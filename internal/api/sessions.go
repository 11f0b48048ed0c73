package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/libilabs/console/internal/model"
)

// Sessions lists a merchant's chat sessions.
func (c *Client) Sessions(ctx context.Context, merchantID string) ([]model.Session, error) {
	var sessions []model.Session
	path := fmt.Sprintf("/merchants/%s/sessions", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodGet, path, nil, &sessions)
	return sessions, err
}

// Session fetches one session with its full message history.
func (c *Client) Session(ctx context.Context, merchantID, sessionID string) (model.Session, error) {
	var s model.Session
	path := fmt.Sprintf("/merchants/%s/sessions/%s",
		url.PathEscape(merchantID), url.PathEscape(sessionID))
	err := c.do(ctx, http.MethodGet, path, nil, &s)
	return s, err
}

// PauseSession puts a session into manual mode: the AI stops replying and a
// human agent takes over the conversation.
func (c *Client) PauseSession(ctx context.Context, merchantID, sessionID string) (model.Session, error) {
	var s model.Session
	path := fmt.Sprintf("/merchants/%s/sessions/%s/pause",
		url.PathEscape(merchantID), url.PathEscape(sessionID))
	err := c.do(ctx, http.MethodPost, path, nil, &s)
	return s, err
}

// ResumeSession hands a paused session back to the AI.
func (c *Client) ResumeSession(ctx context.Context, merchantID, sessionID string) (model.Session, error) {
	var s model.Session
	path := fmt.Sprintf("/merchants/%s/sessions/%s/resume",
		url.PathEscape(merchantID), url.PathEscape(sessionID))
	err := c.do(ctx, http.MethodPost, path, nil, &s)
	return s, err
}
