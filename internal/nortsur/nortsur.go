// Package nortsur wraps the Nortsur commerce backend HTTP API for the bot.
//
// It provides order creation (probing the historical endpoint aliases),
// client lookup, product search, order summaries and order state changes.
package nortsur

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/nortsur/orderbot/internal/models"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 10 * time.Second

// orderPathAliases are the historically valid paths for order creation, in
// preference order. The first 200 wins; 404/405 mean "try the next alias".
var orderPathAliases = []string{
	"/bot/pedidos/from-whatsapp",
	"/bot/pedidos/from-whatsapp/",
	"/pedidos/from-whatsapp",
	"/pedidos/from-whatsapp/",
}

// ErrNotConfigured is returned by every call when no base URL is set. The
// orchestrator converts it into the generic failure reply.
var ErrNotConfigured = errors.New("nortsur base URL is not configured")

// ErrNoEndpoint is returned when every order-creation alias was probed
// without a single 200 response.
var ErrNoEndpoint = errors.New("no order endpoint alias accepted the request")

// OrderResult is the backend's answer to an order creation.
type OrderResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"mensaje_respuesta"`
}

// StateResult is the backend's answer to an order state change.
type StateResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Backend defines the commerce capabilities the bot consumes.
type Backend interface {
	CreateOrder(ctx context.Context, sender, note string, items []models.OrderItem) (OrderResult, error)
	FindClientByPhone(ctx context.Context, phone string) (*models.ClientInfo, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	GetOrderSummary(ctx context.Context, orderID int) (string, error)
	ChangeOrderState(ctx context.Context, orderID int, verb models.AdminVerb, reason string) (StateResult, error)
}

// Opts holds configuration options for the backend client.
type Opts struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Option defines a configuration option for the backend client.
type Option func(*Opts)

// WithBaseURL sets the backend base URL (trailing slash is trimmed).
func WithBaseURL(u string) Option {
	return func(o *Opts) { o.BaseURL = u }
}

// WithHTTPClient injects a custom HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.HTTPClient = c }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// Client talks to the Nortsur backend over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client, falling back to $NORTSUR_API_BASE_URL
// when no base URL option is given. A missing base URL is not fatal here:
// calls fail with ErrNotConfigured and the sender gets the generic failure
// text instead.
func NewClient(opts ...Option) *Client {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("NORTSUR_API_BASE_URL")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	slog.Debug("Nortsur client config loaded", "base_url_set", cfg.BaseURL != "", "timeout", cfg.Timeout)
	if cfg.BaseURL == "" {
		slog.Warn("Nortsur base URL not configured; backend calls will fail until NORTSUR_API_BASE_URL is set")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  cfg.HTTPClient,
	}
}

// CreateOrder posts a new order, probing each endpoint alias in order. A
// network error or a 404/405 moves to the next alias; any other non-200
// status is fatal for the whole attempt. Only one alias ever actually
// creates the order; the backend's own idempotency covers the ambiguity of a
// 404 meaning "wrong path" versus "already created".
func (c *Client) CreateOrder(ctx context.Context, sender, note string, items []models.OrderItem) (OrderResult, error) {
	if c.baseURL == "" {
		return OrderResult{}, ErrNotConfigured
	}

	payload := map[string]any{
		"wa_phone":      sender,
		"observaciones": note,
		"items":         items,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return OrderResult{}, fmt.Errorf("failed to encode order payload: %w", err)
	}

	for _, path := range orderPathAliases {
		endpoint := c.baseURL + path
		resp, err := c.postJSON(ctx, endpoint, body)
		if err != nil {
			slog.Warn("Nortsur CreateOrder network error, trying next alias", "endpoint", endpoint, "error", err)
			continue
		}

		slog.Debug("Nortsur CreateOrder attempt", "endpoint", endpoint, "status", resp.StatusCode)
		switch {
		case resp.StatusCode == http.StatusOK:
			var result OrderResult
			err := json.NewDecoder(resp.Body).Decode(&result)
			resp.Body.Close()
			if err != nil {
				return OrderResult{}, fmt.Errorf("failed to decode order response from %s: %w", endpoint, err)
			}
			slog.Info("Nortsur order created", "endpoint", endpoint, "ok", result.OK)
			return result, nil
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed:
			resp.Body.Close()
			continue
		default:
			resp.Body.Close()
			return OrderResult{}, fmt.Errorf("order endpoint %s returned status %d", endpoint, resp.StatusCode)
		}
	}
	return OrderResult{}, ErrNoEndpoint
}

// FindClientByPhone looks up a registered client. The phone is normalized to
// its last 10 digits before the lookup. A 404 means "no such client" and is
// not an error.
func (c *Client) FindClientByPhone(ctx context.Context, phone string) (*models.ClientInfo, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	digits := NormalizePhone(phone)
	if digits == "" {
		return nil, nil
	}

	resp, err := c.getJSON(ctx, c.baseURL+"/bot/clientes/"+digits)
	if err != nil {
		return nil, fmt.Errorf("client lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var info models.ClientInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return nil, fmt.Errorf("failed to decode client lookup response: %w", err)
		}
		return &info, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("client lookup returned status %d", resp.StatusCode)
	}
}

// SearchProducts queries the catalog with free text.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	resp, err := c.getJSON(ctx, c.baseURL+"/bot/productos/buscar?q="+url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product search returned status %d", resp.StatusCode)
	}
	var result struct {
		Products []models.Product `json:"productos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode product search response: %w", err)
	}
	return result.Products, nil
}

// GetOrderSummary fetches the operator-facing summary text of an order.
func (c *Client) GetOrderSummary(ctx context.Context, orderID int) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	resp, err := c.getJSON(ctx, fmt.Sprintf("%s/bot/pedidos/%d/resumen", c.baseURL, orderID))
	if err != nil {
		return "", fmt.Errorf("order summary fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("order summary returned status %d", resp.StatusCode)
	}
	var result struct {
		Summary string `json:"resumen"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode order summary response: %w", err)
	}
	return result.Summary, nil
}

// stateActions maps lifecycle verbs onto the backend's Spanish action names.
var stateActions = map[models.AdminVerb]string{
	models.AdminVerbConfirm: "confirmar",
	models.AdminVerbDeliver: "entregar",
	models.AdminVerbCancel:  "cancelar",
	models.AdminVerbReopen:  "reabrir",
}

// ChangeOrderState applies a lifecycle action to an order.
func (c *Client) ChangeOrderState(ctx context.Context, orderID int, verb models.AdminVerb, reason string) (StateResult, error) {
	if c.baseURL == "" {
		return StateResult{}, ErrNotConfigured
	}
	action, ok := stateActions[verb]
	if !ok {
		return StateResult{}, fmt.Errorf("verb %q does not change order state", verb)
	}

	body, err := json.Marshal(map[string]string{"accion": action, "motivo": reason})
	if err != nil {
		return StateResult{}, fmt.Errorf("failed to encode state change payload: %w", err)
	}
	resp, err := c.postJSON(ctx, fmt.Sprintf("%s/bot/pedidos/%d/estado", c.baseURL, orderID), body)
	if err != nil {
		return StateResult{}, fmt.Errorf("state change failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StateResult{}, fmt.Errorf("state change returned status %d", resp.StatusCode)
	}
	var result StateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return StateResult{}, fmt.Errorf("failed to decode state change response: %w", err)
	}
	return result, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func (c *Client) getJSON(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

// NormalizePhone reduces a phone-like identifier to its last 10 digits, the
// form the backend indexes clients by.
func NormalizePhone(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return string(digits)
}
