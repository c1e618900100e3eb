// Package grpcprover exposes a prover.Prover and prover.ReceiptVerifier over
// a gRPC service, so proof generation can run on a separate machine from the
// CLI. The original content crosses only the client/daemon channel; it is
// never part of a receipt or artifact.
package grpcprover

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
)

// maxContentLen bounds the witness content a daemon will accept.
const maxContentLen = 1 << 30

// Prove request framing:
//
//	program_id[32] || be32(len(content)) || content || be32(count) || be32(index)...
func encodeProveRequest(programID [prover.ProgramIDSize]byte, input prover.ProgramInput) ([]byte, error) {
	for _, idx := range input.Indices {
		if idx < 0 {
			return nil, proof.NewError(proof.KindInvalidIndex,
				fmt.Sprintf("redaction index %d is negative", idx))
		}
		if idx > math.MaxUint32 {
			return nil, proof.NewError(proof.KindInvalidIndex,
				fmt.Sprintf("redaction index %d exceeds the wire limit", idx))
		}
	}
	out := make([]byte, 0, prover.ProgramIDSize+8+len(input.Content)+4*len(input.Indices))
	out = append(out, programID[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(input.Content)))
	out = append(out, input.Content...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(input.Indices)))
	for _, idx := range input.Indices {
		out = binary.BigEndian.AppendUint32(out, uint32(idx))
	}
	return out, nil
}

func decodeProveRequest(data []byte) (programID [prover.ProgramIDSize]byte, input prover.ProgramInput, err error) {
	fail := func(msg string) ([prover.ProgramIDSize]byte, prover.ProgramInput, error) {
		return [prover.ProgramIDSize]byte{}, prover.ProgramInput{},
			proof.NewError(proof.KindMalformedArtifact, msg)
	}

	if len(data) < prover.ProgramIDSize+4 {
		return fail("prove request too short")
	}
	copy(programID[:], data[:prover.ProgramIDSize])
	rest := data[prover.ProgramIDSize:]

	contentLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if contentLen > maxContentLen {
		return fail(fmt.Sprintf("prove request content length %d exceeds limit", contentLen))
	}
	if uint64(len(rest)) < uint64(contentLen)+4 {
		return fail("prove request truncated in content")
	}
	input.Content = append([]byte(nil), rest[:contentLen]...)
	rest = rest[contentLen:]

	count := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint64(len(rest)) != 4*uint64(count) {
		return fail(fmt.Sprintf("prove request index section: want %d bytes, have %d", 4*count, len(rest)))
	}
	input.Indices = make([]int, count)
	for i := range input.Indices {
		input.Indices[i] = int(binary.BigEndian.Uint32(rest[4*i:]))
	}
	return programID, input, nil
}

// VerifyReceipt request framing:
//
//	expected_program_id[32] || receipt
func encodeVerifyRequest(expectedProgramID [prover.ProgramIDSize]byte, receipt []byte) []byte {
	out := make([]byte, 0, prover.ProgramIDSize+len(receipt))
	out = append(out, expectedProgramID[:]...)
	return append(out, receipt...)
}

func decodeVerifyRequest(data []byte) (expectedProgramID [prover.ProgramIDSize]byte, receipt []byte, err error) {
	if len(data) < prover.ProgramIDSize+1 {
		return [prover.ProgramIDSize]byte{}, nil,
			proof.NewError(proof.KindMalformedArtifact, "verify request too short")
	}
	copy(expectedProgramID[:], data[:prover.ProgramIDSize])
	receipt = append([]byte(nil), data[prover.ProgramIDSize:]...)
	return expectedProgramID, receipt, nil
}
