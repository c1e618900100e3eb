package localprover

import (
	"crypto/subtle"
	"fmt"

	"github.com/tanctl/zkcat/keys"
	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
)

// Verifier implements prover.ReceiptVerifier against a pinned set of trusted
// prover keys. A receipt signed by any key outside the set is rejected as
// tampered, the same as a bad signature: trust comes from the set, never
// from the receipt.
type Verifier struct {
	trusted map[string][]byte // prover-key string -> raw public key bytes
}

// NewVerifier builds a verifier trusting exactly the given prover-key
// strings. At least one key is required.
func NewVerifier(trustedKeys ...string) (*Verifier, error) {
	if len(trustedKeys) == 0 {
		return nil, fmt.Errorf("localprover: at least one trusted prover key is required")
	}
	trusted := make(map[string][]byte, len(trustedKeys))
	for _, k := range trustedKeys {
		alg, pub, err := keys.ParseProverKey(k)
		if err != nil {
			return nil, fmt.Errorf("localprover: trusted key %q: %w", k, err)
		}
		trusted[keys.FormatProverKey(alg, pub)] = pub
	}
	return &Verifier{trusted: trusted}, nil
}

// VerifyReceipt checks the receipt against expectedProgramID and the trusted
// key set, returning the committed journal bytes on success.
func (v *Verifier) VerifyReceipt(receipt []byte, expectedProgramID [prover.ProgramIDSize]byte) ([]byte, error) {
	r, err := prover.ParseReceipt(receipt)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare(r.ProgramID[:], expectedProgramID[:]) != 1 {
		return nil, proof.NewError(proof.KindTamperedReceipt,
			"receipt program identity does not match the expected program")
	}

	keyString := keys.FormatProverKey(r.Alg, r.PublicKey)
	if _, ok := v.trusted[keyString]; !ok {
		return nil, proof.NewError(proof.KindTamperedReceipt,
			fmt.Sprintf("receipt signed by untrusted prover key (fingerprint %s)", keys.Fingerprint(r.PublicKey)))
	}

	digest := prover.SigningDigest(r.ProgramID, r.JournalBytes)
	ok, err := keys.VerifyDigest(r.Alg, r.PublicKey, digest[:], r.Signature)
	if err != nil {
		return nil, proof.WrapError(proof.KindMalformedArtifact, "receipt signature fields", err)
	}
	if !ok {
		return nil, proof.NewError(proof.KindTamperedReceipt, "receipt signature verification failed")
	}

	return append([]byte(nil), r.JournalBytes...), nil
}
