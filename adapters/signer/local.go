// Package signer provides an in-process implementation of the Signer
// capability backed by a raw ECDSA key. Production deployments usually
// bind a wallet instead; this one serves tests, tooling and headless
// environments.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/MeiJie12/siwesession/internal/eth"
	"github.com/MeiJie12/siwesession/ports"
)

// LocalSigner signs with a private key held in memory
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address string
	chainID int64
	domain  string
}

var _ ports.Signer = (*LocalSigner)(nil)

// NewLocalSigner creates a signer around an existing private key
func NewLocalSigner(key *ecdsa.PrivateKey, chainID int64, domain string) *LocalSigner {
	return &LocalSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
		chainID: chainID,
		domain:  domain,
	}
}

// NewLocalSignerFromHex creates a signer from a hex-encoded private key
func NewLocalSignerFromHex(hexKey string, chainID int64, domain string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return NewLocalSigner(key, chainID, domain), nil
}

// Address returns the signer's Ethereum address
func (s *LocalSigner) Address() string {
	return s.address
}

// ChainID returns the chain the signer operates on
func (s *LocalSigner) ChainID() int64 {
	return s.chainID
}

// Domain returns the authority sign-in messages are bound to
func (s *LocalSigner) Domain() string {
	return s.domain
}

// SignMessage signs the message under personal_sign rules and returns the
// signature as 0x-prefixed hex
func (s *LocalSigner) SignMessage(ctx context.Context, message string) (string, error) {
	sig, err := eth.SignPersonal(s.key, []byte(message))
	if err != nil {
		return "", err
	}
	return hexutil.Encode(sig), nil
}
