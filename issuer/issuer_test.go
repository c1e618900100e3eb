package issuer

import (
	"context"
	"errors"
	"testing"

	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
	"github.com/tanctl/zkcat/prover/localprover"
)

var testSeed = func() []byte {
	s := make([]byte, 32)
	for i := range s {
		s[i] = byte(i + 40)
	}
	return s
}()

func testBackend(t *testing.T) (*localprover.Backend, *localprover.Verifier) {
	t.Helper()
	backend, err := localprover.NewFromSeed("ed25519", testSeed)
	if err != nil {
		t.Fatalf("NewFromSeed failed: %v", err)
	}
	checker, err := localprover.NewVerifier(backend.ProverKey())
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	return backend, checker
}

func TestIssueProducesConsistentArtifact(t *testing.T) {
	backend, checker := testBackend(t)
	is := &Issuer{Prover: backend, Checker: checker}

	content := []byte("keep\ndrop\nkeep")
	artifact, res, stats, err := is.Issue(context.Background(), content, []int{1})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if artifact.ProgramID != prover.RedactionProgramID() {
		t.Fatalf("artifact carries the wrong program identity")
	}
	if !artifact.Journal.Equal(res.Journal()) {
		t.Fatalf("companion journal does not match the redaction result")
	}
	if len(artifact.Receipt) == 0 {
		t.Fatalf("artifact has no receipt")
	}
	if stats == nil || stats.ProveDuration < 0 {
		t.Fatalf("missing timing stats")
	}
}

// proveFunc adapts a function to prover.Prover for fault injection.
type proveFunc func(ctx context.Context, programID [prover.ProgramIDSize]byte, input prover.ProgramInput) ([]byte, error)

func (f proveFunc) Prove(ctx context.Context, programID [prover.ProgramIDSize]byte, input prover.ProgramInput) ([]byte, error) {
	return f(ctx, programID, input)
}

func TestIssueWrapsProverFailure(t *testing.T) {
	is := &Issuer{Prover: proveFunc(func(context.Context, [prover.ProgramIDSize]byte, prover.ProgramInput) ([]byte, error) {
		return nil, errors.New("backend exploded")
	})}
	_, _, _, err := is.Issue(context.Background(), []byte("a\nb"), []int{0})
	if !proof.IsKind(err, proof.KindProving) {
		t.Fatalf("prover failure = %v, want Proving", err)
	}
}

func TestIssueRejectsEmptyReceipt(t *testing.T) {
	is := &Issuer{Prover: proveFunc(func(context.Context, [prover.ProgramIDSize]byte, prover.ProgramInput) ([]byte, error) {
		return nil, nil
	})}
	_, _, _, err := is.Issue(context.Background(), []byte("a\nb"), []int{0})
	if !proof.IsKind(err, proof.KindProving) {
		t.Fatalf("empty receipt = %v, want Proving", err)
	}
}

func TestIssueCrossCheckCatchesJournalMismatch(t *testing.T) {
	backend, checker := testBackend(t)

	// The backend proves different content than the host redacted, so the
	// committed journal cannot match the host-computed one.
	lying := proveFunc(func(ctx context.Context, programID [prover.ProgramIDSize]byte, input prover.ProgramInput) ([]byte, error) {
		return backend.Prove(ctx, programID, prover.ProgramInput{
			Content: append([]byte("poisoned\n"), input.Content...),
			Indices: input.Indices,
		})
	})
	is := &Issuer{Prover: lying, Checker: checker}
	_, _, _, err := is.Issue(context.Background(), []byte("a\nb"), []int{0})
	if !proof.IsKind(err, proof.KindProving) {
		t.Fatalf("journal mismatch = %v, want Proving", err)
	}
}

func TestIssueWithoutCheckerSkipsCrossCheck(t *testing.T) {
	backend, _ := testBackend(t)
	is := &Issuer{Prover: backend}
	artifact, _, _, err := is.Issue(context.Background(), []byte("a\nb"), []int{0})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if artifact == nil {
		t.Fatalf("no artifact returned")
	}
}
