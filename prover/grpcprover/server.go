package grpcprover

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tanctl/zkcat/prover"
)

// Server exposes a proving backend over the Prover gRPC service. Backend
// handles Prove; Receipts handles VerifyReceipt.
type Server struct {
	UnimplementedProverServer
	Backend  prover.Prover
	Receipts prover.ReceiptVerifier
}

func (s *Server) Prove(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing proving backend")
	}
	programID, input, err := decodeProveRequest(in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	receipt, err := s.Backend.Prove(ctx, programID, input)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(receipt), nil
}

func (s *Server) VerifyReceipt(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Receipts == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing receipt verifier")
	}
	expected, receipt, err := decodeVerifyRequest(in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	journalBytes, err := s.Receipts.VerifyReceipt(receipt, expected)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(journalBytes), nil
}
