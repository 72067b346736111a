// Package eth wraps the EIP-191 personal_sign scheme used for wallet
// sign-in messages.
package eth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidSignatureLength is returned when a signature is not 65 bytes
var ErrInvalidSignatureLength = errors.New("signature must be 65 bytes")

// SignPersonal signs the message with the key under personal_sign rules
// and returns a 65-byte [R || S || V] signature.
func SignPersonal(key *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	digest := accounts.TextHash(message)

	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}

	// Wallets emit V as 27/28, crypto.Sign emits 0/1
	sig[64] += 27

	return sig, nil
}

// RecoverPersonal returns the address that produced the signature over
// the message. Both 0/1 and 27/28 recovery id conventions are accepted.
func RecoverPersonal(message, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, ErrInvalidSignatureLength
	}

	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	digest := accounts.TextHash(message)

	pubKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// VerifyPersonal reports whether the signature over the message was
// produced by the expected address.
func VerifyPersonal(message, signature []byte, expected common.Address) (bool, error) {
	recovered, err := RecoverPersonal(message, signature)
	if err != nil {
		return false, err
	}
	return recovered == expected, nil
}
