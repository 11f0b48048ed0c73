package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/libilabs/console/internal/model"
)

// Orders lists a merchant's orders, newest first.
func (c *Client) Orders(ctx context.Context, merchantID string) ([]model.Order, error) {
	var orders []model.Order
	path := fmt.Sprintf("/merchants/%s/orders", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodGet, path, nil, &orders)
	return orders, err
}

// Order fetches one order by id.
func (c *Client) Order(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	path := fmt.Sprintf("/orders/%s", url.PathEscape(orderID))
	err := c.do(ctx, http.MethodGet, path, nil, &o)
	return o, err
}

// SetOrderStatus moves an order to the given status. The server validates the
// transition; no optimistic update happens here, callers wait for the
// returned order or the next stream event.
func (c *Client) SetOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return model.Order{}, fmt.Errorf("api: invalid order status %q", status)
	}
	body := struct {
		Status model.OrderStatus `json:"status"`
	}{Status: status}

	var o model.Order
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(orderID))
	err := c.do(ctx, http.MethodPatch, path, body, &o)
	return o, err
}

// VerifyPayment approves or rejects an order's uploaded payment proof.
func (c *Client) VerifyPayment(ctx context.Context, merchantID, orderID string, verified bool) (model.Order, error) {
	body := struct {
		Verified bool `json:"verified"`
	}{Verified: verified}

	var o model.Order
	path := fmt.Sprintf("/merchants/%s/orders/%s/verify-payment",
		url.PathEscape(merchantID), url.PathEscape(orderID))
	err := c.do(ctx, http.MethodPatch, path, body, &o)
	return o, err
}
