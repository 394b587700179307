package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dnsby/storefront/internal/domain"
	"golang.org/x/time/rate"
)

const csrfHeader = "X-CSRFToken"

// Client handles communication with the remote catalog/cart/order/auth
// service. It keeps the Django session cookie jar and replays the CSRF token
// on every mutating call.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool

	mu        sync.Mutex
	csrfToken string
}

// NewClient creates a new storefront service client. rps bounds the request
// rate against the service; the burst allows a bootstrap (products + cart)
// to go out together.
func NewClient(baseURL string, timeout time.Duration, rps int) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if rps <= 0 {
		rps = 10
	}
	jar, _ := cookiejar.New(nil)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(rps), rps*2),
	}
}

// SetDebug enables verbose request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// doRequest executes one HTTP request with JSON body handling and the CSRF
// header on mutating methods.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "dnsby-storefront/1.0")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		if token := c.currentCSRFToken(); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}

	if c.debug {
		log.Printf("[STORE] %s %s", method, path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return resp, nil
}

// exponentialBackoff returns the pause before retry n (1-based): 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// getList fetches a list endpoint with bounded retries on transient failures
// and returns the raw rows. A malformed body is reported once, not retried:
// the service answered, it just answered the wrong shape.
func (c *Client) getList(ctx context.Context, path string) ([]json.RawMessage, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			log.Printf("[STORE] GET %s failed (attempt %d): %v", path, attempt, err)
			lastErr = err
			sleepBackoff(ctx, attempt)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[STORE] GET %s status %d (attempt %d)", path, resp.StatusCode, attempt)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
			sleepBackoff(ctx, attempt)
			continue
		}

		rows, err := unwrapRows(body)
		if err != nil {
			log.Printf("[STORE] GET %s returned unexpected payload shape", path)
			return nil, err
		}
		return rows, nil
	}
	return nil, lastErr
}

func sleepBackoff(ctx context.Context, attempt int) {
	select {
	case <-ctx.Done():
	case <-time.After(exponentialBackoff(attempt)):
	}
}

// FetchProducts retrieves the full catalog snapshot.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := c.getList(ctx, "/products/")
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		var w wireProduct
		if err := json.Unmarshal(row, &w); err != nil {
			log.Printf("[STORE] skipping malformed product row: %v", err)
			continue
		}
		products = append(products, mapProduct(w))
	}
	log.Printf("[STORE] fetched %d products", len(products))
	return products, nil
}

// FetchCart retrieves the server's cart for the current session, mapped to
// server-backed cart lines.
func (c *Client) FetchCart(ctx context.Context) ([]domain.CartLine, error) {
	rows, err := c.getList(ctx, "/cart/")
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		var w wireCartRow
		if err := json.Unmarshal(row, &w); err != nil {
			log.Printf("[STORE] skipping malformed cart row: %v", err)
			continue
		}
		lines = append(lines, mapCartRow(w))
	}
	return lines, nil
}

// AddCartItem adds a product to the server cart. The caller refetches the
// cart on success; the resulting state is never computed optimistically.
func (c *Client) AddCartItem(ctx context.Context, productID, quantity int) error {
	payload := map[string]int{
		"product_id": productID,
		"quantity":   quantity,
	}
	return c.mutate(ctx, http.MethodPost, "/cart/", payload)
}

// DeleteCartItem deletes a server-backed cart line by its remote identity.
func (c *Client) DeleteCartItem(ctx context.Context, remoteID int) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d/", remoteID), nil)
}

// mutate performs one POST/DELETE round trip and maps non-2xx to
// ErrStoreUnavailable. Mutations are not retried; the cart refetch after a
// success is the reconciliation point.
func (c *Client) mutate(ctx context.Context, method, path string, payload any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	c.ensureCSRFToken(ctx)

	resp, err := c.doRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", domain.ErrStoreUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// CreateOrder submits an order. Anything but {status: "success"} is a
// rejection.
func (c *Client) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	c.ensureCSRFToken(ctx)

	resp, err := c.doRequest(ctx, http.MethodPost, "/orders/create/", order)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", domain.ErrStoreUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Status != "success" {
		return fmt.Errorf("%w: %s", domain.ErrOrderRejected, strings.TrimSpace(string(body)))
	}
	return nil
}

// TriggerCatalogUpdate asks the service to re-scrape its catalog. A success
// response does not carry new data; the caller schedules its own /products/
// refetch afterwards.
func (c *Client) TriggerCatalogUpdate(ctx context.Context) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}
	c.ensureCSRFToken(ctx)

	resp, err := c.doRequest(ctx, http.MethodPost, "/update-products/", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", domain.ErrUnexpectedPayload
	}
	if result.Status != "success" {
		return "", fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, result.Message)
	}
	return result.Message, nil
}

// ensureCSRFToken lazily primes the CSRF token and session cookie from
// /auth/csrf/. Failure is non-fatal: the service rejects the mutation itself
// if it insists on the token.
func (c *Client) ensureCSRFToken(ctx context.Context) {
	if c.currentCSRFToken() != "" {
		return
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/csrf/", nil)
	if err != nil {
		log.Printf("[STORE] CSRF priming failed: %v", err)
		return
	}
	defer resp.Body.Close()

	var result struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.CSRFToken != "" {
		c.setCSRFToken(result.CSRFToken)
		return
	}
	// Some deployments only set the cookie.
	if token := c.csrfCookie(); token != "" {
		c.setCSRFToken(token)
	}
}

func (c *Client) csrfCookie() string {
	base, err := url.Parse(c.baseURL)
	if err != nil || c.httpClient.Jar == nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(base) {
		if cookie.Name == "csrftoken" {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) currentCSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrfToken
}

func (c *Client) setCSRFToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.csrfToken = token
}

// Me returns the authenticated user for the current session, or
// ErrNotAuthenticated.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/me/", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &user, nil
}

// Login authenticates the session. A success re-keys the server cart to the
// authenticated identity; the caller should resync the cart afterwards.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	return c.authPost(ctx, "/auth/login/", map[string]string{
		"username": username,
		"password": password,
	})
}

// Register creates an account and authenticates the session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return c.authPost(ctx, "/auth/register/", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *Client) authPost(ctx context.Context, path string, payload map[string]string) (*domain.User, error) {
	c.ensureCSRFToken(ctx)

	resp, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusBadRequest {
		return nil, domain.ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	// The session was re-keyed; the old token belongs to the previous session.
	c.setCSRFToken("")
	return &user, nil
}

// Logout drops the authenticated session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.mutate(ctx, http.MethodPost, "/auth/logout/", nil); err != nil {
		return err
	}
	c.setCSRFToken("")
	return nil
}
