package grpcprover

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tanctl/zkcat/proof"
)

// toStatus maps structured protocol errors onto gRPC status codes so the
// client can reconstruct the error kind.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case proof.IsKind(err, proof.KindInvalidIndex):
		return status.Error(codes.OutOfRange, err.Error())
	case proof.IsKind(err, proof.KindMalformedArtifact):
		return status.Error(codes.InvalidArgument, err.Error())
	case proof.IsKind(err, proof.KindTamperedReceipt):
		// DataLoss marks integrity failures, distinct from malformed input.
		return status.Error(codes.DataLoss, err.Error())
	case proof.IsKind(err, proof.KindRedaction):
		return status.Error(codes.Internal, err.Error())
	case proof.IsKind(err, proof.KindProving):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Unknown, err.Error())
	}
}

// mapRPC reconstructs structured errors from gRPC statuses on the client side.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return proof.WrapError(proof.KindProving, "prover rpc failed", err)
	}
	switch st.Code() {
	case codes.OutOfRange:
		return proof.NewError(proof.KindInvalidIndex, st.Message())
	case codes.InvalidArgument:
		return proof.NewError(proof.KindMalformedArtifact, st.Message())
	case codes.DataLoss:
		return proof.NewError(proof.KindTamperedReceipt, st.Message())
	case codes.Internal:
		return proof.NewError(proof.KindProving, st.Message())
	default:
		return proof.WrapError(proof.KindProving, "prover rpc failed", err)
	}
}
