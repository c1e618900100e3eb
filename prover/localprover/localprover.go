// Package localprover is the in-process proving backend. It executes the
// line-redaction program inside the trust boundary and signs the committed
// journal with the prover's key, so the receipt is checkable offline against
// a pinned program identity and a trusted key set.
//
// Receipts here are verifiable by signature rather than by succinct proof;
// a proving backend with stronger guarantees slots in behind the same
// two-operation contract. The original content never leaves the boundary.
package localprover

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"github.com/tanctl/zkcat/keys"
	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
	"github.com/tanctl/zkcat/redaction"
)

// Backend implements prover.Prover with an in-process execution of the
// redaction program.
type Backend struct {
	alg     string
	edPriv  ed25519.PrivateKey
	dilPriv *mode3.PrivateKey
	pub     []byte
}

// NewEd25519 constructs a backend signing receipts with an Ed25519 key.
func NewEd25519(priv ed25519.PrivateKey) (*Backend, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("localprover: ed25519 private key must be %d bytes", ed25519.PrivateKeySize)
	}
	pub := priv.Public().(ed25519.PublicKey)
	return &Backend{alg: keys.AlgEd25519, edPriv: priv, pub: append([]byte(nil), pub...)}, nil
}

// NewDilithium3 constructs a backend signing receipts with a Dilithium3 key.
func NewDilithium3(pub *mode3.PublicKey, priv *mode3.PrivateKey) (*Backend, error) {
	if pub == nil || priv == nil {
		return nil, fmt.Errorf("localprover: missing dilithium3 keypair")
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("localprover: marshal dilithium3 public key: %w", err)
	}
	return &Backend{alg: keys.AlgDilithium3, dilPriv: priv, pub: pubBytes}, nil
}

// NewFromSeed derives the signing key for alg from a 32-byte seed.
func NewFromSeed(alg string, seed []byte) (*Backend, error) {
	switch alg {
	case keys.AlgEd25519:
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("localprover: ed25519 seed must be %d bytes", ed25519.SeedSize)
		}
		return NewEd25519(ed25519.NewKeyFromSeed(seed))
	case keys.AlgDilithium3:
		pub, priv, err := keys.Dilithium3KeypairFromSeed(seed)
		if err != nil {
			return nil, err
		}
		return NewDilithium3(pub, priv)
	default:
		return nil, fmt.Errorf("localprover: unsupported signature algorithm %q", alg)
	}
}

// ProverKey returns this backend's public key in prover-key string form,
// suitable for a verifier's trusted key set.
func (b *Backend) ProverKey() string {
	return keys.FormatProverKey(b.alg, b.pub)
}

// Prove runs the redaction program over input and returns a signed receipt
// committing to the resulting journal.
//
// Index validation errors from the program propagate unchanged; everything
// else that prevents a receipt is a Proving error.
func (b *Backend) Prove(ctx context.Context, programID [prover.ProgramIDSize]byte, input prover.ProgramInput) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, proof.WrapError(proof.KindProving, "proving canceled", err)
	}
	if programID != prover.RedactionProgramID() {
		return nil, proof.NewError(proof.KindProving,
			"unknown program identity: this backend only proves the line-redaction program")
	}

	res, err := redaction.Redact(input.Content, input.Indices)
	if err != nil {
		return nil, err
	}
	journalBytes, err := proof.EncodeJournal(res.Journal())
	if err != nil {
		return nil, proof.WrapError(proof.KindProving, "encoding committed journal", err)
	}

	digest := prover.SigningDigest(programID, journalBytes)
	var sig []byte
	switch b.alg {
	case keys.AlgEd25519:
		sig, err = keys.SignDigestEd25519(digest[:], b.edPriv)
	case keys.AlgDilithium3:
		sig, err = keys.SignDigestDilithium3(digest[:], b.dilPriv)
	default:
		err = fmt.Errorf("unsupported signature algorithm %q", b.alg)
	}
	if err != nil {
		return nil, proof.WrapError(proof.KindProving, "signing receipt", err)
	}

	return prover.EncodeReceipt(&prover.Receipt{
		ProgramID:    programID,
		JournalBytes: journalBytes,
		Alg:          b.alg,
		PublicKey:    b.pub,
		Signature:    sig,
	})
}
