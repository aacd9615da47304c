// Package backend is the client of the marketplace REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/session"
)

type tokenSource interface {
	Token() string
}

// Client calls the backend with JSON bodies and bearer auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      tokenSource
}

// NewClient creates a backend client. creds may be nil.
func NewClient(baseURL string, timeout time.Duration, creds tokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
	}
}

// GetTracking fetches both parties' positions of an order.
func (c *Client) GetTracking(ctx context.Context, orderID string) (domain.TrackingSnapshot, error) {
	var dto trackingDTO
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/tracking", nil, &dto); err != nil {
		return domain.TrackingSnapshot{}, fmt.Errorf("backend: get tracking %s: %w", orderID, err)
	}
	return dto.toDomain(), nil
}

// UpdateDeliveryStatus is the agent's status change. A nil order means the
// backend acknowledged without returning a body.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	path := "/orders/" + url.PathEscape(orderID) + "/delivery-status"
	ord, err := c.putStatus(ctx, path, status)
	if err != nil {
		return nil, fmt.Errorf("backend: update delivery status %s: %w", orderID, err)
	}
	return ord, nil
}

// UpdateShopOrderStatus is the shop's status change.
func (c *Client) UpdateShopOrderStatus(ctx context.Context, shopID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	path := "/shops/" + url.PathEscape(shopID) + "/orders/" + url.PathEscape(orderID) + "/status"
	ord, err := c.putStatus(ctx, path, status)
	if err != nil {
		return nil, fmt.Errorf("backend: update shop order status %s: %w", orderID, err)
	}
	return ord, nil
}

// CreateOrder places an order with the computed total.
func (c *Client) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	var dto orderDTO
	if err := c.do(ctx, http.MethodPost, "/orders", newCreateOrderDTO(in), &dto); err != nil {
		return domain.Order{}, fmt.Errorf("backend: create order: %w", err)
	}
	return dto.toDomain(), nil
}

// ListAgentOrders returns the orders assigned to an agent.
func (c *Client) ListAgentOrders(ctx context.Context, agentID string) ([]domain.Order, error) {
	return c.list(ctx, "/agents/"+url.PathEscape(agentID)+"/orders")
}

// ListShopOrders returns the orders of a shop.
func (c *Client) ListShopOrders(ctx context.Context, shopID string) ([]domain.Order, error) {
	return c.list(ctx, "/shops/"+url.PathEscape(shopID)+"/orders")
}

// ListUserOrders returns the orders a customer placed.
func (c *Client) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return c.list(ctx, "/users/"+url.PathEscape(userID)+"/orders")
}

// ListAllOrders returns every order, admin only.
func (c *Client) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return c.list(ctx, "/admin/orders")
}

func (c *Client) putStatus(ctx context.Context, path string, status domain.OrderStatus) (*domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, path, statusDTO{Status: string(status)}, &raw); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var envelope struct {
		Order *orderDTO `json:"order"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Order != nil {
		ord := envelope.Order.toDomain()
		return &ord, nil
	}
	var dto orderDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	if dto.ID == "" {
		return nil, nil
	}
	ord := dto.toDomain()
	return &ord, nil
}

func (c *Client) list(ctx context.Context, path string) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("backend: list %s: %w", path, err)
	}

	var dtos []orderDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		var envelope struct {
			Orders []orderDTO `json:"orders"`
		}
		if err2 := json.Unmarshal(raw, &envelope); err2 != nil {
			return nil, fmt.Errorf("backend: list %s: decode: %w", path, err)
		}
		dtos = envelope.Orders
	}

	out := make([]domain.Order, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp.StatusCode, respBody)
	}
	if target == nil || len(respBody) == 0 {
		return nil
	}
	if raw, ok := target.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) token(ctx context.Context) string {
	if tok, ok := session.TokenFrom(ctx); ok {
		return tok
	}
	if c.creds == nil {
		return ""
	}
	return c.creds.Token()
}

func newHTTPError(code int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: code}
	var dto errorDTO
	if err := json.Unmarshal(body, &dto); err == nil {
		switch {
		case dto.Error != "":
			e.Message = dto.Error
		case dto.Message != "":
			e.Message = dto.Message
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}

// AsHTTPError extracts a backend HTTP error from err.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
