package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

// Signature algorithm names as they appear in prover-key strings.
const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

// DigestFor hashes message with the named algorithm.
// hashAlg must be one of: sha256, sha512, sha3-256.
func DigestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// SignDigestEd25519 signs a precomputed digest.
func SignDigestEd25519(digest []byte, privateKey ed25519.PrivateKey) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519 private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.Sign(privateKey, digest), nil
}

// SignDigestDilithium3 signs a precomputed digest.
func SignDigestDilithium3(digest []byte, privateKey *mode3.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("missing private key")
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, digest, sig)
	return sig, nil
}

// VerifyDigest verifies a signature over a precomputed digest against raw
// public key bytes for the given algorithm.
func VerifyDigest(alg string, pub, digest, sig []byte) (bool, error) {
	switch alg {
	case AlgEd25519:
		if len(pub) != ed25519.PublicKeySize {
			return false, fmt.Errorf("invalid ed25519 public key length %d", len(pub))
		}
		if len(sig) != ed25519.SignatureSize {
			return false, fmt.Errorf("invalid ed25519 signature length %d", len(sig))
		}
		return ed25519.Verify(ed25519.PublicKey(pub), digest, sig), nil
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return false, fmt.Errorf("invalid dilithium3 public key: %w", err)
		}
		if len(sig) != mode3.SignatureSize {
			return false, fmt.Errorf("invalid dilithium3 signature length %d", len(sig))
		}
		return mode3.Verify(&pk, digest, sig), nil
	default:
		return false, fmt.Errorf("unsupported signature algorithm: %q", alg)
	}
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

// Dilithium3KeypairFromSeed deterministically derives a Dilithium3 keypair
// from a 32-byte seed, so the same stored seed backs either algorithm.
func Dilithium3KeypairFromSeed(seed []byte) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	if len(seed) != mode3.SeedSize {
		return nil, nil, fmt.Errorf("dilithium3 seed must be %d bytes, got %d", mode3.SeedSize, len(seed))
	}
	var s [mode3.SeedSize]byte
	copy(s[:], seed)
	pk, sk := mode3.NewKeyFromSeed(&s)
	return pk, sk, nil
}

// ParseProverKey splits a prover-key string ("ed25519:<base64>" or
// "dilithium3:<base64>") into its algorithm and raw public key bytes.
func ParseProverKey(key string) (alg string, pub []byte, err error) {
	alg, enc, ok := strings.Cut(key, ":")
	if !ok {
		return "", nil, fmt.Errorf("invalid prover key encoding")
	}
	pub, err = base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", nil, fmt.Errorf("invalid prover key base64: %w", err)
	}
	switch alg {
	case AlgEd25519:
		if len(pub) != ed25519.PublicKeySize {
			return "", nil, fmt.Errorf("invalid ed25519 public key length %d", len(pub))
		}
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return "", nil, fmt.Errorf("invalid dilithium3 public key: %w", err)
		}
	default:
		return "", nil, fmt.Errorf("unsupported prover key algorithm %q", alg)
	}
	return alg, pub, nil
}

// FormatProverKey encodes raw public key bytes into the prover-key string form.
func FormatProverKey(alg string, pub []byte) string {
	return alg + ":" + base64.StdEncoding.EncodeToString(pub)
}

// Fingerprint returns a short hex identifier for raw public key bytes:
// the first 16 bytes of sha3-256(pub). Display-only.
func Fingerprint(pub []byte) string {
	sum := sha3.Sum256(pub)
	return hex.EncodeToString(sum[:16])
}
