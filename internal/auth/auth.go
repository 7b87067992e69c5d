// Package auth provides wallet login for the prediction-market API using
// EIP-191 personal_sign signatures over the upstream auth message.
package auth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet holds the private key used to log in and sign orders.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewWallet wraps an existing key.
func NewWallet(key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// LoadWallet loads a key from a hex string or from a file holding one.
// A "0x" prefix and surrounding whitespace are accepted.
func LoadWallet(keyOrPath string) (*Wallet, error) {
	keyOrPath = strings.TrimSpace(keyOrPath)
	if keyOrPath == "" {
		return nil, errors.New("private key is required")
	}

	hexKey := keyOrPath
	if data, err := os.ReadFile(keyOrPath); err == nil {
		hexKey = strings.TrimSpace(string(data))
	} else if !errors.Is(err, os.ErrNotExist) && !looksLikeHex(keyOrPath) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return NewWallet(key), nil
}

// Address returns the wallet address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// PrivateKey returns the signing key.
func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.key
}

// SignPersonal signs message with the EIP-191 prefix and returns the
// 65-byte signature as 0x-hex with v in {27, 28}.
func (w *Wallet) SignPersonal(message []byte) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), w.key)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// RecoverPersonal returns the address that produced a SignPersonal signature.
func RecoverPersonal(message []byte, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature length %d, want %d", len(sig), crypto.SignatureLength)
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Authenticator is the subset of the API client used to log in.
type Authenticator interface {
	GetAuthMessage(ctx context.Context) (string, error)
	Authenticate(ctx context.Context, signer, message, signature string) (string, error)
}

// Login fetches the auth message, signs it and exchanges it for a JWT.
func Login(ctx context.Context, client Authenticator, w *Wallet) (string, error) {
	message, err := client.GetAuthMessage(ctx)
	if err != nil {
		return "", err
	}

	signature, err := w.SignPersonal([]byte(message))
	if err != nil {
		return "", err
	}

	token, err := client.Authenticate(ctx, w.Address().Hex(), message, signature)
	if err != nil {
		return "", err
	}
	return token, nil
}

// BearerHeader formats a JWT as an Authorization header value.
func BearerHeader(token string) string {
	if token == "" || strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

func looksLikeHex(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
