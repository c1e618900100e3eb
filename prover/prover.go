// Package prover defines the contract to the proving service: the two
// operations the protocol consumes (Prove, VerifyReceipt), the fixed
// identity of the redaction program, and the receipt wire structure shared
// by the in-process and remote backends.
//
// Everything outside this package and its backends treats receipts as
// opaque byte blobs.
package prover

import "context"

// ProgramInput carries the undisclosed witness into the trust boundary: the
// original content and the requested redaction indices. It never appears in
// a receipt or artifact.
type ProgramInput struct {
	Content []byte
	Indices []int
}

// Prover produces a receipt committing to the journal computed by the
// program identified by programID, run over input.
//
// Proving is the expensive path: a call may block for a duration
// proportional to content size. Cancellation via ctx is abandon-and-discard;
// there are no partial receipts.
type Prover interface {
	Prove(ctx context.Context, programID [ProgramIDSize]byte, input ProgramInput) ([]byte, error)
}

// ReceiptVerifier checks a receipt against an expected program identity and,
// on success, returns the journal bytes committed inside the receipt.
//
// The expected identity must come from the verifier's own trusted constant,
// never from the artifact under examination.
type ReceiptVerifier interface {
	VerifyReceipt(receipt []byte, expectedProgramID [ProgramIDSize]byte) ([]byte, error)
}
