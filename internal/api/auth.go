package api

import (
	"context"
	"fmt"
)

// GetAuthMessage fetches the message a wallet must sign to log in.
func (c *Client) GetAuthMessage(ctx context.Context) (string, error) {
	var msg AuthMessage
	if err := c.get(ctx, "/auth/message", nil, "", &msg); err != nil {
		return "", fmt.Errorf("get auth message: %w", err)
	}
	return msg.Message, nil
}

// Authenticate exchanges a signed auth message for a JWT.
func (c *Client) Authenticate(ctx context.Context, signer, message, signature string) (string, error) {
	req := AuthRequest{Signer: signer, Message: message, Signature: signature}

	var resp AuthResponse
	if err := c.post(ctx, "/auth", req, "", &resp); err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("authenticate: empty token in response")
	}
	return resp.Token, nil
}
