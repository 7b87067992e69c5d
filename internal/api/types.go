package api

import "encoding/json"

// Envelope is the upstream response wrapper.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Cursor  string `json:"cursor,omitempty"`
	Message string `json:"message,omitempty"`
}

// AuthMessage from GET /auth/message
type AuthMessage struct {
	Message string `json:"message"`
}

// AuthRequest for POST /auth
type AuthRequest struct {
	Signer    string `json:"signer"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// AuthResponse from POST /auth
type AuthResponse struct {
	Token string `json:"token"`
}

// CreateOrderRequest for POST /orders. Data is the signed order payload.
type CreateOrderRequest struct {
	Data json.RawMessage `json:"data"`
}

// CreateOrderResponse from POST /orders
type CreateOrderResponse struct {
	Code      string `json:"code,omitempty"`
	OrderID   string `json:"orderId"`
	OrderHash string `json:"orderHash"`
}

// RemoveOrdersRequest for POST /orders/remove
type RemoveOrdersRequest struct {
	Data RemoveOrdersData `json:"data"`
}

// RemoveOrdersData lists the order ids to cancel.
type RemoveOrdersData struct {
	IDs []string `json:"ids"`
}

// Account from GET /account
type Account struct {
	Name     string          `json:"name,omitempty"`
	Address  string          `json:"address"`
	Referral json.RawMessage `json:"referral,omitempty"`
}

// ListOptions configures paginated account listings.
type ListOptions struct {
	First  int
	After  string
	Status string
}
