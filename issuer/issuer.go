// Package issuer drives proof generation: it runs the redaction transform,
// obtains a receipt from the proving service, and packages the portable
// proof artifact.
package issuer

import (
	"context"
	"time"

	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
	"github.com/tanctl/zkcat/redaction"
)

// Issuer assembles proof artifacts.
//
// Prover is required. Checker, when set, enables the host cross-check: the
// freshly produced receipt is verified once and its committed journal is
// compared against the host-computed one before the artifact is assembled,
// so a faulty proving backend is caught at issue time rather than at first
// verification.
type Issuer struct {
	Prover  prover.Prover
	Checker prover.ReceiptVerifier
}

// Stats carries observational timing only; it never influences the journal
// or the receipt.
type Stats struct {
	ProveDuration time.Duration
}

// Issue proves that redacting content at indices yields the committed
// journal, and returns the artifact together with the redaction result (for
// display or writing the redacted file) and timing stats.
//
// Invalid indices fail with an InvalidIndex error before any proving work;
// prover failures surface as Proving errors. No partial artifact is ever
// returned.
func (is *Issuer) Issue(ctx context.Context, content []byte, indices []int) (*proof.Artifact, *redaction.Result, *Stats, error) {
	res, err := redaction.Redact(content, indices)
	if err != nil {
		return nil, nil, nil, err
	}
	journal := res.Journal()

	programID := prover.RedactionProgramID()
	start := time.Now()
	receipt, err := is.Prover.Prove(ctx, programID, prover.ProgramInput{
		Content: content,
		Indices: indices,
	})
	stats := &Stats{ProveDuration: time.Since(start)}
	if err != nil {
		if proof.IsKind(err, proof.KindInvalidIndex) {
			return nil, nil, nil, err
		}
		return nil, nil, nil, proof.WrapError(proof.KindProving, "proving service failed to produce a receipt", err)
	}
	if len(receipt) == 0 {
		return nil, nil, nil, proof.NewError(proof.KindProving, "proving service returned an empty receipt")
	}

	if is.Checker != nil {
		if err := is.crossCheck(receipt, programID, journal); err != nil {
			return nil, nil, nil, err
		}
	}

	artifact := &proof.Artifact{
		Receipt:   receipt,
		Journal:   journal,
		ProgramID: programID,
	}
	return artifact, res, stats, nil
}

// crossCheck verifies the receipt once and compares the committed journal
// against the host-computed one.
func (is *Issuer) crossCheck(receipt []byte, programID [prover.ProgramIDSize]byte, hostJournal proof.Journal) error {
	journalBytes, err := is.Checker.VerifyReceipt(receipt, programID)
	if err != nil {
		return proof.WrapError(proof.KindProving, "fresh receipt failed verification", err)
	}
	committed, err := proof.DecodeJournal(journalBytes)
	if err != nil {
		return proof.WrapError(proof.KindProving, "fresh receipt committed an undecodable journal", err)
	}
	if !committed.Equal(hostJournal) {
		return proof.NewError(proof.KindProving, "journal mismatch between host and prover")
	}
	return nil
}
