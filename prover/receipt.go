package prover

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/tanctl/zkcat/proof"
)

// Signature algorithms a receipt can carry.
const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

var receiptMagic = []byte("zkrcpt")

const receiptVersion byte = 1

// Wire tags for signature algorithms.
const (
	tagEd25519    byte = 1
	tagDilithium3 byte = 2
)

// Bounds on untrusted receipt fields. Dilithium3 keys and signatures are the
// largest supported, both under 8 KiB.
const maxReceiptField = 1 << 14

// Receipt is the parsed form of a receipt blob. The journal bytes are the
// authoritative committed record; the signature binds them to the program
// identity under the prover's key.
type Receipt struct {
	ProgramID    [ProgramIDSize]byte
	JournalBytes []byte
	Alg          string
	PublicKey    []byte
	Signature    []byte
}

// SigningDigest returns the digest a receipt signature covers:
// sha256(program_id || journal_bytes). Binding the program identity into the
// signed message prevents replaying a journal under a different program.
func SigningDigest(programID [ProgramIDSize]byte, journalBytes []byte) [32]byte {
	h := sha256.New()
	h.Write(programID[:])
	h.Write(journalBytes)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// EncodeReceipt serializes a receipt:
//
//	"zkrcpt" || version(1) || program_id[32] ||
//	be32(len(journal)) || journal || alg_tag(1) ||
//	be32(len(pubkey)) || pubkey || be32(len(sig)) || sig
func EncodeReceipt(r *Receipt) ([]byte, error) {
	if r == nil {
		return nil, proof.NewError(proof.KindProving, "nil receipt")
	}
	var tag byte
	switch r.Alg {
	case AlgEd25519:
		tag = tagEd25519
	case AlgDilithium3:
		tag = tagDilithium3
	default:
		return nil, proof.NewError(proof.KindProving,
			fmt.Sprintf("unsupported receipt signature algorithm %q", r.Alg))
	}

	out := make([]byte, 0, len(receiptMagic)+2+ProgramIDSize+12+len(r.JournalBytes)+len(r.PublicKey)+len(r.Signature))
	out = append(out, receiptMagic...)
	out = append(out, receiptVersion)
	out = append(out, r.ProgramID[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(r.JournalBytes)))
	out = append(out, r.JournalBytes...)
	out = append(out, tag)
	out = binary.BigEndian.AppendUint32(out, uint32(len(r.PublicKey)))
	out = append(out, r.PublicKey...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(r.Signature)))
	out = append(out, r.Signature...)
	return out, nil
}

// ParseReceipt decodes a receipt blob. Structural failures are
// MalformedArtifact errors; ParseReceipt performs no signature or program
// identity checks.
func ParseReceipt(data []byte) (*Receipt, error) {
	r := receiptReader{data: data}

	head, err := r.take(len(receiptMagic) + 1)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(head[:len(receiptMagic)], receiptMagic) {
		return nil, proof.NewError(proof.KindMalformedArtifact, "not a zkcat receipt")
	}
	if v := head[len(receiptMagic)]; v != receiptVersion {
		return nil, proof.NewError(proof.KindMalformedArtifact,
			fmt.Sprintf("unsupported receipt version %d", v))
	}

	out := &Receipt{}
	pid, err := r.take(ProgramIDSize)
	if err != nil {
		return nil, err
	}
	copy(out.ProgramID[:], pid)

	if out.JournalBytes, err = r.takeBlob("journal"); err != nil {
		return nil, err
	}

	tagByte, err := r.take(1)
	if err != nil {
		return nil, err
	}
	switch tagByte[0] {
	case tagEd25519:
		out.Alg = AlgEd25519
	case tagDilithium3:
		out.Alg = AlgDilithium3
	default:
		return nil, proof.NewError(proof.KindMalformedArtifact,
			fmt.Sprintf("unknown receipt signature algorithm tag %d", tagByte[0]))
	}

	if out.PublicKey, err = r.takeBlob("public key"); err != nil {
		return nil, err
	}
	if out.Signature, err = r.takeBlob("signature"); err != nil {
		return nil, err
	}
	if r.remaining() != 0 {
		return nil, proof.NewError(proof.KindMalformedArtifact,
			fmt.Sprintf("%d trailing bytes after receipt", r.remaining()))
	}
	return out, nil
}

type receiptReader struct {
	data []byte
	off  int
}

func (r *receiptReader) remaining() int { return len(r.data) - r.off }

func (r *receiptReader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, proof.NewError(proof.KindMalformedArtifact,
			fmt.Sprintf("truncated receipt: need %d bytes at offset %d, have %d", n, r.off, r.remaining()))
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return append([]byte(nil), b...), nil
}

func (r *receiptReader) takeBlob(field string) ([]byte, error) {
	lenBytes, err := r.take(4)
	if err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBytes)
	if n > maxReceiptField {
		return nil, proof.NewError(proof.KindMalformedArtifact,
			fmt.Sprintf("receipt %s length %d exceeds limit", field, n))
	}
	return r.take(int(n))
}
