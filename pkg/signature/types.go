// Package signature wraps sr25519 signing and verification for subnet
// wallet hotkeys.
package signature

import "github.com/ChainSafe/gossamer/lib/crypto/sr25519"

const (
	SubstrateNetworkID = 42

	DefaultBittensorDir = "~/.bittensor"
)

// SignatureProvider signs messages with a wallet hotkey.
type SignatureProvider interface {
	Sign(message string) (string, error)
}

// SignatureVerifier checks a signature against a message and SS58 address.
type SignatureVerifier interface {
	Verify(message, signature, ss58Address string) (bool, error)
}

// Provider is a concrete implementation of SignatureProvider.
type Provider struct {
	keypair *sr25519.Keypair
}

// Verifier is a concrete implementation of SignatureVerifier.
type Verifier struct{}
