package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/libilabs/console/internal/model"
)

// Merchants lists all merchants. Requires a SUPER_ADMIN token.
func (c *Client) Merchants(ctx context.Context) ([]model.Merchant, error) {
	var merchants []model.Merchant
	err := c.do(ctx, http.MethodGet, "/merchants", nil, &merchants)
	return merchants, err
}

// Merchant fetches one merchant profile.
func (c *Client) Merchant(ctx context.Context, merchantID string) (model.Merchant, error) {
	var m model.Merchant
	path := fmt.Sprintf("/merchants/%s", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodGet, path, nil, &m)
	return m, err
}

// MerchantUpdate is a partial merchant profile update. Nil fields are
// left untouched by the server.
type MerchantUpdate struct {
	Name                     *string  `json:"name,omitempty"`
	Address                  *string  `json:"address,omitempty"`
	Status                   *string  `json:"status,omitempty"`
	NotificationSoundEnabled *bool    `json:"notificationSoundEnabled,omitempty"`
	NotificationSoundVolume  *float64 `json:"notificationSoundVolume,omitempty"`
}

// UpdateMerchant applies a partial update to a merchant profile.
func (c *Client) UpdateMerchant(ctx context.Context, merchantID string, update MerchantUpdate) (model.Merchant, error) {
	var m model.Merchant
	path := fmt.Sprintf("/merchants/%s", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodPatch, path, update, &m)
	return m, err
}

// BusinessHours fetches a merchant's weekly opening windows.
func (c *Client) BusinessHours(ctx context.Context, merchantID string) ([]model.BusinessHours, error) {
	var hours []model.BusinessHours
	path := fmt.Sprintf("/merchants/%s/business-hours", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodGet, path, nil, &hours)
	return hours, err
}

// SetBusinessHours replaces a merchant's weekly opening windows.
func (c *Client) SetBusinessHours(ctx context.Context, merchantID string, hours []model.BusinessHours) ([]model.BusinessHours, error) {
	var saved []model.BusinessHours
	path := fmt.Sprintf("/merchants/%s/business-hours", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodPut, path, hours, &saved)
	return saved, err
}

// PaymentAccounts lists a merchant's payment accounts.
func (c *Client) PaymentAccounts(ctx context.Context, merchantID string) ([]model.PaymentAccount, error) {
	var accounts []model.PaymentAccount
	path := fmt.Sprintf("/merchants/%s/payment-accounts", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodGet, path, nil, &accounts)
	return accounts, err
}

// CreatePaymentAccount adds a payment account to a merchant.
func (c *Client) CreatePaymentAccount(ctx context.Context, merchantID string, account model.PaymentAccount) (model.PaymentAccount, error) {
	var created model.PaymentAccount
	path := fmt.Sprintf("/merchants/%s/payment-accounts", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodPost, path, account, &created)
	return created, err
}

// DeletePaymentAccount removes a payment account.
func (c *Client) DeletePaymentAccount(ctx context.Context, merchantID, accountID string) error {
	path := fmt.Sprintf("/merchants/%s/payment-accounts/%s",
		url.PathEscape(merchantID), url.PathEscape(accountID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
