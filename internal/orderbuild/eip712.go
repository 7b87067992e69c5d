package orderbuild

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Domain identifiers of the exchange contracts.
const (
	DomainName    = "predict.fun CTF Exchange"
	DomainVersion = "1"
)

var orderTypes = apitypes.Types{
	"EIP712Domain": []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": []apitypes.Type{
		{Name: "salt", Type: "uint256"},
		{Name: "maker", Type: "address"},
		{Name: "signer", Type: "address"},
		{Name: "taker", Type: "address"},
		{Name: "tokenId", Type: "uint256"},
		{Name: "makerAmount", Type: "uint256"},
		{Name: "takerAmount", Type: "uint256"},
		{Name: "expiration", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "feeRateBps", Type: "uint256"},
		{Name: "side", Type: "uint8"},
		{Name: "signatureType", Type: "uint8"},
	},
}

// Exchanges are the verifying contracts orders are signed against.
type Exchanges struct {
	Standard common.Address
	NegRisk  common.Address
}

// For returns the exchange for a market.
func (e Exchanges) For(negRisk bool) common.Address {
	if negRisk {
		return e.NegRisk
	}
	return e.Standard
}

// TypedData returns the EIP-712 representation of o.
func TypedData(o Order, chainID int64, verifyingContract common.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              DomainName,
			Version:           DomainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: verifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"salt":          o.Salt,
			"maker":         o.Maker,
			"signer":        o.Signer,
			"taker":         o.Taker,
			"tokenId":       o.TokenID,
			"makerAmount":   o.MakerAmount,
			"takerAmount":   o.TakerAmount,
			"expiration":    o.Expiration,
			"nonce":         o.Nonce,
			"feeRateBps":    o.FeeRateBps,
			"side":          fmt.Sprintf("%d", int(o.Side)),
			"signatureType": fmt.Sprintf("%d", o.SignatureType),
		},
	}
}

// Hash returns the EIP-712 digest of o.
func Hash(o Order, chainID int64, verifyingContract common.Address) (common.Hash, error) {
	digest, _, err := apitypes.TypedDataAndHash(TypedData(o, chainID, verifyingContract))
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash typed data: %w", err)
	}
	return common.BytesToHash(digest), nil
}

// Signer signs orders with an ECDSA key.
type Signer struct {
	key       *ecdsa.PrivateKey
	chainID   int64
	exchanges Exchanges
}

// NewSigner creates a Signer for one chain.
func NewSigner(key *ecdsa.PrivateKey, chainID int64, exchanges Exchanges) *Signer {
	return &Signer{key: key, chainID: chainID, exchanges: exchanges}
}

// Address returns the signing address.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Sign fills in b.Order's hash and signature (v in {27, 28}).
func (s *Signer) Sign(b *Built) error {
	exchange := s.exchanges.For(b.NegRisk)
	if exchange == (common.Address{}) {
		return fmt.Errorf("no exchange address configured (neg risk: %t)", b.NegRisk)
	}

	hash, err := Hash(b.Order, s.chainID, exchange)
	if err != nil {
		return err
	}

	sig, err := crypto.Sign(hash.Bytes(), s.key)
	if err != nil {
		return fmt.Errorf("sign order: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	b.Order.Hash = hash.Hex()
	b.Order.Signature = hexutil.Encode(sig)
	return nil
}
