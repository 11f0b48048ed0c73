package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/libilabs/console/internal/model"
)

// WhatsAppLines lists every WhatsApp line on the platform.
func (c *Client) WhatsAppLines(ctx context.Context) ([]model.WhatsAppLine, error) {
	var lines []model.WhatsAppLine
	err := c.do(ctx, http.MethodGet, "/whatsapp-lines", nil, &lines)
	return lines, err
}

// CreateWhatsAppLine registers a new line for a merchant.
func (c *Client) CreateWhatsAppLine(ctx context.Context, line model.WhatsAppLine) (model.WhatsAppLine, error) {
	var created model.WhatsAppLine
	err := c.do(ctx, http.MethodPost, "/whatsapp-lines", line, &created)
	return created, err
}

// CompleteLineSignup finishes the embedded-signup flow for a line, binding
// the Meta phone number and WABA ids obtained from the signup exchange.
func (c *Client) CompleteLineSignup(ctx context.Context, lineID, phoneNumberID, wabaID string) (model.WhatsAppLine, error) {
	body := struct {
		PhoneNumberID string `json:"phoneNumberId"`
		WabaID        string `json:"wabaId"`
	}{PhoneNumberID: phoneNumberID, WabaID: wabaID}

	var line model.WhatsAppLine
	path := fmt.Sprintf("/whatsapp-lines/%s/complete-signup", url.PathEscape(lineID))
	err := c.do(ctx, http.MethodPost, path, body, &line)
	return line, err
}

// DeleteWhatsAppLine removes a line.
func (c *Client) DeleteWhatsAppLine(ctx context.Context, lineID string) error {
	path := fmt.Sprintf("/whatsapp-lines/%s", url.PathEscape(lineID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Users lists platform operator accounts.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

// CreateUser provisions an operator account.
func (c *Client) CreateUser(ctx context.Context, user model.User, password string) (model.User, error) {
	body := struct {
		model.User
		Password string `json:"password"`
	}{User: user, Password: password}

	var created model.User
	err := c.do(ctx, http.MethodPost, "/users", body, &created)
	return created, err
}

// DemoRequests lists inbound demo requests for triage.
func (c *Client) DemoRequests(ctx context.Context) ([]model.DemoRequest, error) {
	var reqs []model.DemoRequest
	err := c.do(ctx, http.MethodGet, "/demo-requests", nil, &reqs)
	return reqs, err
}

// SetDemoRequestStatus moves a demo request through triage.
func (c *Client) SetDemoRequestStatus(ctx context.Context, requestID string, status model.DemoRequestStatus) (model.DemoRequest, error) {
	body := struct {
		Status model.DemoRequestStatus `json:"status"`
	}{Status: status}

	var dr model.DemoRequest
	path := fmt.Sprintf("/demo-requests/%s", url.PathEscape(requestID))
	err := c.do(ctx, http.MethodPatch, path, body, &dr)
	return dr, err
}

// Stats fetches the dashboard aggregate counters.
func (c *Client) Stats(ctx context.Context) (model.StatsSummary, error) {
	var s model.StatsSummary
	err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &s)
	return s, err
}
