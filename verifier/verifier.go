// Package verifier checks proof artifacts without access to the original
// content.
//
// The journal returned by Verify is always the one extracted from the
// receipt; the artifact's plain companion journal is unauthenticated and is
// only cross-checked to flag adversarially constructed artifacts.
package verifier

import (
	"crypto/subtle"
	"time"

	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
)

// Verifier checks artifacts against a pinned program identity.
type Verifier struct {
	Receipts prover.ReceiptVerifier

	// expectedProgramID is fixed at construction. Comparing against the
	// artifact's own claim instead would make verification meaningless.
	expectedProgramID [prover.ProgramIDSize]byte
}

// New returns a verifier pinned to the line-redaction program identity.
func New(receipts prover.ReceiptVerifier) *Verifier {
	return &Verifier{
		Receipts:          receipts,
		expectedProgramID: prover.RedactionProgramID(),
	}
}

// Report is the outcome of a successful verification.
type Report struct {
	// Journal is the authoritative record extracted from the receipt.
	Journal proof.Journal

	// Warnings flags inconsistencies that do not invalidate the receipt,
	// such as a companion journal differing from the committed one.
	Warnings []string

	VerifyDuration time.Duration
}

// Verify checks the artifact's receipt against the pinned program identity
// and returns the committed journal.
//
// A program identity substituted in the artifact, a flipped receipt byte, or
// an untrusted signing key all fail with a TamperedReceipt error; an
// undecodable receipt fails as MalformedArtifact. Verification never needs
// the original content.
func (v *Verifier) Verify(artifact *proof.Artifact) (*Report, error) {
	if artifact == nil {
		return nil, proof.NewError(proof.KindMalformedArtifact, "nil artifact")
	}
	start := time.Now()

	if subtle.ConstantTimeCompare(artifact.ProgramID[:], v.expectedProgramID[:]) != 1 {
		return nil, proof.NewError(proof.KindTamperedReceipt,
			"artifact program identity does not match the expected program")
	}

	journalBytes, err := v.Receipts.VerifyReceipt(artifact.Receipt, v.expectedProgramID)
	if err != nil {
		return nil, err
	}
	journal, err := proof.DecodeJournal(journalBytes)
	if err != nil {
		return nil, err
	}

	report := &Report{Journal: journal}
	if !journal.Equal(artifact.Journal) {
		report.Warnings = append(report.Warnings,
			"companion journal differs from the receipt-committed journal; trusting the receipt")
	}
	report.VerifyDuration = time.Since(start)
	return report, nil
}
