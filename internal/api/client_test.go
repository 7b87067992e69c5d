package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com/v1", "test-key")

		if c.baseURL != "https://api.example.com/v1" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com/v1")
		}
		if c.apiKey != "test-key" {
			t.Errorf("apiKey = %q, want %q", c.apiKey, "test-key")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 2 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 2)
		}
		if c.limiter != nil {
			t.Error("limiter should be nil by default")
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", "key",
			WithTimeout(15*time.Second),
			WithRetries(10, 500*time.Millisecond),
			WithLogger(logger),
			WithRateLimit(5, 0),
		)
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 15*time.Second)
		}
		if c.maxRetries != 10 || c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retries = %d/%v, want 10/500ms", c.maxRetries, c.retryBackoff)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
		if c.limiter == nil || c.limiter.Burst() != 1 {
			t.Error("limiter should be set with burst clamped to 1")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", "", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})

	t.Run("zero rate disables limiter", func(t *testing.T) {
		c := NewClient("https://api.example.com", "", WithRateLimit(0, 10))
		if c.limiter != nil {
			t.Error("limiter should be nil for zero rate")
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Market not found"}
		expected := "upstream api error 404: Market not found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{429, true},
			{400, false},
			{401, false},
			{404, false},
			{200, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.expected {
				t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"success":false,"message":"Invalid price"}`, "Invalid price"},
		{"error string", 400, `{"success":false,"error":"Insufficient balance"}`, "Insufficient balance"},
		{"error object", 400, `{"error":{"message":"Order not found"}}`, "Order not found"},
		{"plain text body", 502, `bad gateway`, "Bad Gateway"},
		{"empty json", 401, `{}`, "Unauthorized"},
		{"unknown status", 599, ``, "status 599"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage(tt.status, []byte(tt.body)); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestDoRequest tests the HTTP request functionality.
func TestDoRequest(t *testing.T) {
	t.Run("sets headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if r.Header.Get("x-api-key") != "test-key" {
				t.Errorf("x-api-key header = %q, want %q", r.Header.Get("x-api-key"), "test-key")
			}
			if r.Header.Get("Authorization") != "Bearer user-jwt" {
				t.Errorf("Authorization header = %q, want %q", r.Header.Get("Authorization"), "Bearer user-jwt")
			}
			if !strings.HasPrefix(r.Header.Get("User-Agent"), "predict-relay/") {
				t.Errorf("User-Agent = %q, want predict-relay/ prefix", r.Header.Get("User-Agent"))
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"success": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key")
		resp, err := c.doRequest(context.Background(), Request{
			Method:        http.MethodGet,
			Path:          "/test",
			Authorization: "Bearer user-jwt",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Body) != `{"success": true}` {
			t.Errorf("body = %q", string(resp.Body))
		}
		if resp.ContentType != "application/json" {
			t.Errorf("ContentType = %q, want application/json", resp.ContentType)
		}
	})

	t.Run("no api key and no bearer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-api-key") != "" {
				t.Errorf("x-api-key should be empty, got %q", r.Header.Get("x-api-key"))
			}
			if r.Header.Get("Authorization") != "" {
				t.Errorf("Authorization should be empty, got %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "")
		if _, err := c.doRequest(context.Background(), Request{Method: http.MethodGet, Path: "/test"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("forwards query and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "first=10&status=OPEN" {
				t.Errorf("RawQuery = %q, want %q", r.URL.RawQuery, "first=10&status=OPEN")
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"a":1}` {
				t.Errorf("body = %q, want %q", body, `{"a":1}`)
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "")
		_, err := c.doRequest(context.Background(), Request{
			Method:   http.MethodPost,
			Path:     "/test",
			RawQuery: "first=10&status=OPEN",
			Body:     []byte(`{"a":1}`),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("error status is a response, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"Market not found"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		resp, err := c.doRequest(context.Background(), Request{Method: http.MethodGet, Path: "/test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.OK() {
			t.Error("OK() = true for 404")
		}

		var apiErr *APIError
		if !errors.As(resp.Err(), &apiErr) {
			t.Fatalf("expected *APIError, got %T", resp.Err())
		}
		if apiErr.StatusCode != 404 || apiErr.Message != "Market not found" {
			t.Errorf("apiErr = %d %q", apiErr.StatusCode, apiErr.Message)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := c.doRequest(ctx, Request{Method: http.MethodGet, Path: "/test"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "context canceled") {
			t.Errorf("error should contain 'context canceled', got %v", err)
		}
	})
}

// TestForward tests retry behaviour per method.
func TestForward(t *testing.T) {
	t.Run("GET retries on 5xx and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&attempts, 1)
			if n < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"success": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(3, 5*time.Millisecond))
		resp, err := c.Forward(context.Background(), Request{Path: "/test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("GET retries on 429", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(3, 5*time.Millisecond))
		if _, err := c.Forward(context.Background(), Request{Method: http.MethodGet, Path: "/test"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	})

	t.Run("GET does not retry 4xx", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(3, 5*time.Millisecond))
		resp, err := c.Forward(context.Background(), Request{Method: http.MethodGet, Path: "/test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want 400", resp.StatusCode)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("GET exhausted retries returns last response", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"success":false,"message":"Service Unavailable"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(2, 5*time.Millisecond))
		resp, err := c.Forward(context.Background(), Request{Method: http.MethodGet, Path: "/test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("StatusCode = %d, want 503", resp.StatusCode)
		}
		// 1 initial + 2 retries = 3 attempts
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("POST is never retried", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(5, 5*time.Millisecond))
		resp, err := c.Forward(context.Background(), Request{Method: http.MethodPost, Path: "/orders", Body: []byte(`{}`)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("context cancellation during retry", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(10, 50*time.Millisecond))
		ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
		defer cancel()

		_, err := c.Forward(ctx, Request{Method: http.MethodGet, Path: "/test"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "context") {
			t.Errorf("error should be context-related, got %v", err)
		}
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c := NewClient(url, "key", WithRetries(0, time.Millisecond))
		if _, err := c.Forward(context.Background(), Request{Method: http.MethodGet, Path: "/test"}); err == nil {
			t.Fatal("expected error for closed server")
		}
	})
}

// TestGetCategories tests envelope decoding of catalog calls.
func TestGetCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/categories")
		}
		if r.URL.Query().Get("status") != "OPEN" {
			t.Errorf("status = %q, want OPEN", r.URL.Query().Get("status"))
		}
		w.Write([]byte(`{"success":true,"data":[
			{"id":1,"slug":"a","markets":[{"id":11,"conditionId":"0x1","outcomes":[{"name":"Yes"},{"name":"No"}]}]},
			{"id":2,"slug":"b","markets":[]}
		]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "key")
	cats, err := c.GetCategories(context.Background(), map[string][]string{"status": {"OPEN"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(cats))
	}
	if cats[0].Markets[0].ConditionID != "0x1" {
		t.Errorf("ConditionID = %q, want 0x1", cats[0].Markets[0].ConditionID)
	}
}

func TestGetCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories/fed-rates" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/categories/fed-rates")
		}
		w.Write([]byte(`{"success":true,"data":{"id":4,"slug":"fed-rates","markets":[]}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "key")
	cat, err := c.GetCategory(context.Background(), "fed-rates")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.ID != 4 {
		t.Errorf("ID = %d, want 4", cat.ID)
	}
}

// TestGetMarket tests fetching a single market.
func TestGetMarket(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/markets/42" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/markets/42")
			}
			w.Write([]byte(`{"success":true,"data":{"id":42,"title":"Test","conditionId":"0xabc","decimalPrecision":3}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		market, err := c.GetMarket(context.Background(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if market.ID != 42 || market.DecimalPrecision != 3 {
			t.Errorf("market = %+v", market)
		}
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Market not found"})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(0, time.Millisecond))
		_, err := c.GetMarket(context.Background(), 999)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError in wrapped error, got %T: %v", err, err)
		}
		if apiErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
		}
	})

	t.Run("success false with 200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"Market is closed"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		_, err := c.GetMarket(context.Background(), 1)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "Market is closed" {
			t.Fatalf("err = %v, want APIError with upstream message", err)
		}
	})
}

// TestGetOrderbook tests fetching orderbook data.
func TestGetOrderbook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/7/orderbook" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/markets/7/orderbook")
		}
		w.Write([]byte(`{"success":true,"data":{"updateTimestampMs":1,"bids":[[0.52,100],[0.51,200]],"asks":[[0.55,10]]}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "key")
	ob, err := c.GetOrderbook(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ob.Bids) != 2 || len(ob.Asks) != 1 {
		t.Errorf("levels = %d bids, %d asks, want 2/1", len(ob.Bids), len(ob.Asks))
	}
	// Market id is filled in when the upstream omits it.
	if ob.MarketID != 7 {
		t.Errorf("MarketID = %d, want 7", ob.MarketID)
	}
}

// TestAccountCalls tests bearer handling of account endpoints.
func TestAccountCalls(t *testing.T) {
	t.Run("missing authorization", func(t *testing.T) {
		c := NewClient("http://unused.invalid", "key")
		if _, err := c.GetOrders(context.Background(), "", ListOptions{}); !errors.Is(err, ErrNoAuthorization) {
			t.Errorf("GetOrders err = %v, want ErrNoAuthorization", err)
		}
		if _, err := c.GetPositions(context.Background(), "", ListOptions{}); !errors.Is(err, ErrNoAuthorization) {
			t.Errorf("GetPositions err = %v, want ErrNoAuthorization", err)
		}
		if err := c.RemoveOrders(context.Background(), "", []string{"1"}); !errors.Is(err, ErrNoAuthorization) {
			t.Errorf("RemoveOrders err = %v, want ErrNoAuthorization", err)
		}
	})

	t.Run("get orders with options", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("first") != "50" || q.Get("status") != "OPEN" || q.Get("after") != "cur" {
				t.Errorf("query = %q", r.URL.RawQuery)
			}
			if r.Header.Get("Authorization") != "Bearer jwt" {
				t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"success":true,"data":[{"id":"o1","marketId":3,"order":{"makerAmount":"1","takerAmount":"2","side":0}}]}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		orders, err := c.GetOrders(context.Background(), "Bearer jwt", ListOptions{First: 50, After: "cur", Status: "OPEN"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 1 || orders[0].MarketID != 3 {
			t.Errorf("orders = %+v", orders)
		}
	})

	t.Run("create order wraps payload in data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/orders" {
				t.Errorf("%s %s, want POST /orders", r.Method, r.URL.Path)
			}
			var body map[string]map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["data"]["strategy"] != "LIMIT" {
				t.Errorf("data.strategy = %v, want LIMIT", body["data"]["strategy"])
			}
			w.Write([]byte(`{"success":true,"data":{"orderId":"99","orderHash":"0xhash"}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		resp, err := c.CreateOrder(context.Background(), "Bearer jwt", map[string]string{"strategy": "LIMIT"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.OrderID != "99" || resp.OrderHash != "0xhash" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("remove orders", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body RemoveOrdersRequest
			json.NewDecoder(r.Body).Decode(&body)
			if len(body.Data.IDs) != 2 || body.Data.IDs[1] != "b" {
				t.Errorf("ids = %v, want [a b]", body.Data.IDs)
			}
			w.Write([]byte(`{"success":true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		if err := c.RemoveOrders(context.Background(), "Bearer jwt", []string{"a", "b"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := c.RemoveOrders(context.Background(), "Bearer jwt", nil); err == nil {
			t.Error("expected error for empty id list")
		}
	})

	t.Run("get account", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/account" {
				t.Errorf("%s %s, want GET /account", r.Method, r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer jwt" {
				t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"success":true,"data":{"name":"alice","address":"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266","referral":{"code":"ABC"}}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		if _, err := c.GetAccount(context.Background(), ""); !errors.Is(err, ErrNoAuthorization) {
			t.Errorf("GetAccount without token err = %v, want ErrNoAuthorization", err)
		}
		account, err := c.GetAccount(context.Background(), "Bearer jwt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Name != "alice" || account.Address != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
			t.Errorf("account = %+v", account)
		}
		if string(account.Referral) != `{"code":"ABC"}` {
			t.Errorf("referral = %s", account.Referral)
		}
	})
}

// TestAuth tests the login calls.
func TestAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/message":
			w.Write([]byte(`{"success":true,"data":{"message":"Sign in nonce 123"}}`))
		case "/auth":
			var req AuthRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Signer != "0xabc" || req.Message != "Sign in nonce 123" || req.Signature != "0xsig" {
				t.Errorf("auth request = %+v", req)
			}
			w.Write([]byte(`{"success":true,"data":{"token":"jwt-token"}}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "key")
	msg, err := c.GetAuthMessage(context.Background())
	if err != nil {
		t.Fatalf("GetAuthMessage: %v", err)
	}
	token, err := c.Authenticate(context.Background(), "0xabc", msg, "0xsig")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "jwt-token" {
		t.Errorf("token = %q, want jwt-token", token)
	}
}
