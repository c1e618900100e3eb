package keys

import (
	"crypto/ed25519"
	"fmt"
)

// ProverKeyFromPublicKey encodes an Ed25519 public key into the zkcat
// prover-key string.
func ProverKeyFromPublicKey(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return FormatProverKey(AlgEd25519, pub), nil
}
