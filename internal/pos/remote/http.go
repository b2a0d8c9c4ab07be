package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merchpoint/pos/internal/pos/models"
	"resty.dev/v3"
)

// apiError is the error body every backend returns on non-2xx responses:
// {"error": "..."}. A message containing "not found" marks a configuration
// problem the engine treats as permanent.
type apiError struct {
	Error string `json:"error"`
}

// HTTPClient implements Client over plain JSON POSTs. There is no retry at
// this layer: the sync queue owns retries, and doubling them here would
// break its transient/permanent classification.
type HTTPClient struct {
	rc          *resty.Client
	pingTimeout time.Duration
}

// NewHTTPClient returns a client rooted at baseURL. pingTimeout bounds only
// the connectivity probe; sync calls run without their own deadline and rely
// on the caller's context.
func NewHTTPClient(baseURL string, pingTimeout time.Duration) *HTTPClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	return &HTTPClient{rc: rc, pingTimeout: pingTimeout}
}

// Ping issues a GET /health with a short per-probe timeout.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.pingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pingTimeout)
		defer cancel()
	}
	res, err := c.rc.R().SetContext(ctx).Get("/health")
	if err != nil {
		return err
	}
	if !res.IsSuccess() {
		return fmt.Errorf("health check returned %s", res.Status())
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body any) error {
	var apiErr apiError
	res, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return err
	}
	if !res.IsSuccess() {
		if apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("remote returned %s", res.Status())
	}
	return nil
}

// AppendSales submits all given sales in one batch append.
func (c *HTTPClient) AppendSales(ctx context.Context, ledgerID string, sales []models.Sale) error {
	body := struct {
		Sales    []models.Sale `json:"sales"`
		LedgerID string        `json:"ledgerId"`
	}{Sales: sales, LedgerID: ledgerID}

	if err := c.post(ctx, "/sales", body); err != nil {
		return fmt.Errorf("ledger append failed: %w", err)
	}
	return nil
}

// OverwriteProducts replaces the remote catalog with the local collection.
func (c *HTTPClient) OverwriteProducts(ctx context.Context, catalogID string, products []models.Product) error {
	body := struct {
		Products  []models.Product `json:"products"`
		CatalogID string           `json:"catalogId"`
	}{Products: products, CatalogID: catalogID}

	if err := c.post(ctx, "/products", body); err != nil {
		return fmt.Errorf("catalog overwrite failed: %w", err)
	}
	return nil
}

// UpsertSettings pushes the full settings record.
func (c *HTTPClient) UpsertSettings(ctx context.Context, settings *models.UserSettings) error {
	if err := c.post(ctx, "/settings", settings); err != nil {
		return fmt.Errorf("settings upsert failed: %w", err)
	}
	return nil
}

// Close releases the underlying transport.
func (c *HTTPClient) Close() error {
	return c.rc.Close()
}
