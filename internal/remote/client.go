package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rentgear-storefront/internal/domain"
	"rentgear-storefront/internal/logger"
)

// Store is the remote collection store surface the synchronization
// coordinator depends on. DeleteDocument serves both cart line-item removal
// and order cancellation; the store exposes a single delete for the shared
// collection.
type Store interface {
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	ListEquipmentByCategory(ctx context.Context, category string) ([]domain.Equipment, error)
	GetEquipment(ctx context.Context, id string) (*domain.Equipment, error)

	ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error)
	CreateCartItem(ctx context.Context, userID string, item domain.CartItem) (*domain.CartItem, error)
	DeleteDocument(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, userID string, draft domain.OrderDraft) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// Client talks HTTP to the remote collection store.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	raw, err := c.do(ctx, "ListEquipment", http.MethodGet, "/equipment", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeEquipmentList(raw)
}

func (c *Client) ListEquipmentByCategory(ctx context.Context, category string) ([]domain.Equipment, error) {
	query := url.Values{"category": {category}}
	raw, err := c.do(ctx, "ListEquipmentByCategory", http.MethodGet, "/equipment", query, nil)
	if err != nil {
		return nil, err
	}
	return decodeEquipmentList(raw)
}

func (c *Client) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	raw, err := c.do(ctx, "GetEquipment", http.MethodGet, "/equipment/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	eq, err := flattenEquipment(raw)
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

func (c *Client) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	query := url.Values{"type": {docTypeCart}, "userId": {userID}}
	raw, err := c.do(ctx, "ListCartItems", http.MethodGet, "/cart", query, nil)
	if err != nil {
		return nil, err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode cart list: %w", err)
	}
	items := make([]domain.CartItem, 0, len(docs))
	for _, doc := range docs {
		item, err := flattenCartItem(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) CreateCartItem(ctx context.Context, userID string, item domain.CartItem) (*domain.CartItem, error) {
	doc := newCartDocument(userID, item)
	raw, err := c.do(ctx, "CreateCartItem", http.MethodPost, "/cart", nil, doc)
	if err != nil {
		return nil, err
	}
	created, err := flattenCartItem(raw)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DeleteDocument", http.MethodDelete, "/cart/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) CreateOrder(ctx context.Context, userID string, draft domain.OrderDraft) (*domain.Order, error) {
	doc := newOrderDocument(userID, draft)
	raw, err := c.do(ctx, "CreateOrder", http.MethodPost, "/cart", nil, doc)
	if err != nil {
		return nil, err
	}
	order, err := flattenOrder(raw)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	query := url.Values{"type": {docTypeOrder}, "userId": {userID}}
	raw, err := c.do(ctx, "ListOrders", http.MethodGet, "/cart", query, nil)
	if err != nil {
		return nil, err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}
	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := flattenOrder(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	raw, err := c.do(ctx, "GetOrder", http.MethodGet, "/cart/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	order, err := flattenOrder(raw)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	body := map[string]any{
		"payload": map[string]any{
			"orderStatus": string(status),
		},
	}
	_, err := c.do(ctx, "UpdateOrderStatus", http.MethodPut, "/cart/"+url.PathEscape(id), nil, body)
	return err
}

// do performs one HTTP exchange and returns the response body. Non-2xx
// responses become errors carrying the status and trimmed body; the domain
// layer treats timeouts the same as any other failure.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body any) (json.RawMessage, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.RemoteCall(operation, method, fullURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.RemoteResult(operation, 0, err)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.RemoteResult(operation, resp.StatusCode, err)
		return nil, fmt.Errorf("%s: read response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%s: remote store returned %d: %s", operation, resp.StatusCode, trimBody(data))
		logger.RemoteResult(operation, resp.StatusCode, err)
		return nil, err
	}

	logger.RemoteResult(operation, resp.StatusCode, nil)
	return data, nil
}

func decodeEquipmentList(raw json.RawMessage) ([]domain.Equipment, error) {
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode equipment list: %w", err)
	}
	items := make([]domain.Equipment, 0, len(docs))
	for _, doc := range docs {
		eq, err := flattenEquipment(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, eq)
	}
	return items, nil
}

func trimBody(data []byte) string {
	const max = 200
	if len(data) > max {
		data = data[:max]
	}
	return string(data)
}
