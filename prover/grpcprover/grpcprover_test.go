package grpcprover

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
	"github.com/tanctl/zkcat/prover/localprover"
)

func startServer(t *testing.T) *Client {
	t.Helper()

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 77)
	}
	backend, err := localprover.NewFromSeed("ed25519", seed)
	if err != nil {
		t.Fatalf("NewFromSeed: %v", err)
	}
	receipts, err := localprover.NewVerifier(backend.ProverKey())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterProverServer(srv, &Server{Backend: backend, Receipts: receipts})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewProverClient(cc), Timeout: 2 * time.Second}
}

func TestGRPCProver_RoundTrip(t *testing.T) {
	client := startServer(t)

	content := []byte("public\nsecret\npublic")
	receipt, err := client.Prove(context.Background(), prover.RedactionProgramID(), prover.ProgramInput{
		Content: content,
		Indices: []int{1},
	})
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if len(receipt) == 0 {
		t.Fatalf("expected a receipt")
	}

	journalBytes, err := client.VerifyReceipt(receipt, prover.RedactionProgramID())
	if err != nil {
		t.Fatalf("VerifyReceipt: %v", err)
	}
	journal, err := proof.DecodeJournal(journalBytes)
	if err != nil {
		t.Fatalf("DecodeJournal: %v", err)
	}
	if len(journal.RedactedIndices) != 1 || journal.RedactedIndices[0] != 1 {
		t.Fatalf("committed indices = %v, want [1]", journal.RedactedIndices)
	}
}

func TestGRPCProver_InvalidIndexCrossesTheWire(t *testing.T) {
	client := startServer(t)

	_, err := client.Prove(context.Background(), prover.RedactionProgramID(), prover.ProgramInput{
		Content: []byte("a\nb\nc\nd\ne"),
		Indices: []int{10},
	})
	if !proof.IsKind(err, proof.KindInvalidIndex) {
		t.Fatalf("remote out-of-range index = %v, want InvalidIndex", err)
	}
}

func TestGRPCProver_TamperedreceiptCrossesTheWire(t *testing.T) {
	client := startServer(t)

	receipt, err := client.Prove(context.Background(), prover.RedactionProgramID(), prover.ProgramInput{
		Content: []byte("a\nb"),
		Indices: []int{0},
	})
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	receipt[len(receipt)-1] ^= 0x01

	_, err = client.VerifyReceipt(receipt, prover.RedactionProgramID())
	if !proof.IsKind(err, proof.KindTamperedReceipt) {
		t.Fatalf("tampered receipt = %v, want TamperedReceipt", err)
	}
}

func TestGRPCProver_NegativeIndexRejectedClientSide(t *testing.T) {
	client := startServer(t)

	_, err := client.Prove(context.Background(), prover.RedactionProgramID(), prover.ProgramInput{
		Content: []byte("a\nb"),
		Indices: []int{-1},
	})
	if !proof.IsKind(err, proof.KindInvalidIndex) {
		t.Fatalf("negative index = %v, want InvalidIndex", err)
	}
}

func TestProveRequestRoundTrip(t *testing.T) {
	var pid [prover.ProgramIDSize]byte
	for i := range pid {
		pid[i] = byte(i * 5)
	}
	input := prover.ProgramInput{Content: []byte("line a\nline b"), Indices: []int{0, 1}}

	req, err := encodeProveRequest(pid, input)
	if err != nil {
		t.Fatalf("encodeProveRequest: %v", err)
	}
	gotPID, gotInput, err := decodeProveRequest(req)
	if err != nil {
		t.Fatalf("decodeProveRequest: %v", err)
	}
	if gotPID != pid {
		t.Fatalf("program identity mismatch")
	}
	if string(gotInput.Content) != string(input.Content) {
		t.Fatalf("content mismatch")
	}
	if len(gotInput.Indices) != 2 || gotInput.Indices[0] != 0 || gotInput.Indices[1] != 1 {
		t.Fatalf("indices = %v, want [0 1]", gotInput.Indices)
	}
}

func TestDecodeProveRequestRejectsTruncation(t *testing.T) {
	var pid [prover.ProgramIDSize]byte
	req, err := encodeProveRequest(pid, prover.ProgramInput{Content: []byte("x")})
	if err != nil {
		t.Fatalf("encodeProveRequest: %v", err)
	}
	for i := 0; i < len(req); i++ {
		if _, _, err := decodeProveRequest(req[:i]); err == nil {
			t.Fatalf("decodeProveRequest accepted a %d-byte truncation", i)
		}
	}
}
