// Package client is the device-side HTTP client for the backend API.
// All calls go through a circuit breaker so a flapping backend does
// not hammer the network.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"tiffinbox/internal/domain"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrNotFound     = errors.New("resource not found")
)

// APIError carries the problem body the backend returned.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Type, e.Detail)
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]

	token string
}

func New(baseURL string) *Client {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "tiffinbox-api",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// 4xx responses are the caller's problem, not the backend's.
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil
		},
	})
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: cb,
	}
}

// SetToken stores the bearer token used for authenticated requests.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			_ = json.Unmarshal(data, apiErr)
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Detail)
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrNotFound, apiErr.Detail)
			}
			return nil, apiErr
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type authResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// Register creates an account and keeps the returned token for
// subsequent calls.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var res authResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &res)
	if err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var res authResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

func (c *Client) Menu(ctx context.Context, category string) ([]domain.MenuItem, error) {
	path := "/api/v1/menu"
	if category != "" {
		path += "?category=" + category
	}
	var res struct {
		Items []domain.MenuItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	var res domain.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", req, &res); err != nil {
		return domain.Order{}, err
	}
	return res.Order, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var res struct {
		Order domain.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+orderID, nil, &res); err != nil {
		return domain.Order{}, err
	}
	return res.Order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var res struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/my", nil, &res); err != nil {
		return nil, err
	}
	return res.Orders, nil
}
