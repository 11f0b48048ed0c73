package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/libilabs/console/internal/model"
)

// Menu fetches the merchant's currently published menu.
func (c *Client) Menu(ctx context.Context, merchantID string) (model.Menu, error) {
	var m model.Menu
	path := fmt.Sprintf("/merchants/%s/menu/current", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodGet, path, nil, &m)
	return m, err
}

// ToggleItemAvailability flips whether a menu item can currently be ordered.
func (c *Client) ToggleItemAvailability(ctx context.Context, merchantID, itemID string) (model.MenuItem, error) {
	var item model.MenuItem
	path := fmt.Sprintf("/merchants/%s/menu/items/%s/toggle-availability",
		url.PathEscape(merchantID), url.PathEscape(itemID))
	err := c.do(ctx, http.MethodPatch, path, nil, &item)
	return item, err
}

// PublishMenu replaces the merchant's menu with the given one, returning the
// published version with server-assigned ids.
func (c *Client) PublishMenu(ctx context.Context, merchantID string, menu model.Menu) (model.Menu, error) {
	var m model.Menu
	path := fmt.Sprintf("/merchants/%s/menu", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodPut, path, menu, &m)
	return m, err
}

// UploadMenuSource uploads one source file (a photo or document of the
// merchant's menu) for later processing. name is used for the multipart
// filename only.
func (c *Client) UploadMenuSource(ctx context.Context, merchantID, name string, src io.Reader) (model.Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return model.Upload{}, fmt.Errorf("api: build upload: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return model.Upload{}, fmt.Errorf("api: read upload source: %w", err)
	}
	if err := mw.Close(); err != nil {
		return model.Upload{}, fmt.Errorf("api: build upload: %w", err)
	}

	path := fmt.Sprintf("/merchants/%s/menu-import/uploads", url.PathEscape(merchantID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return model.Upload{}, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var up model.Upload
	err = c.send(req, &up)
	return up, err
}

// ProcessMenuImport asks the platform to extract a menu from the uploaded
// sources. The result carries a preview the operator confirms before publish.
func (c *Client) ProcessMenuImport(ctx context.Context, merchantID string, uploadIDs []string) (model.MenuImportResult, error) {
	body := struct {
		UploadIDs []string `json:"uploadIds"`
	}{UploadIDs: uploadIDs}

	var res model.MenuImportResult
	path := fmt.Sprintf("/merchants/%s/menu-import/process", url.PathEscape(merchantID))
	err := c.do(ctx, http.MethodPost, path, body, &res)
	return res, err
}
