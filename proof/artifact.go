package proof

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// magic and version identify the .zkproof container format. Version bumps
// only on incompatible layout changes; decoders reject unknown versions.
var magic = []byte("zkproof")

const formatVersion byte = 1

// ProgramIDSize is the fixed size of a program identity.
const ProgramIDSize = 32

// maxReceiptLen bounds the receipt blob a decoder will allocate for. Receipts
// from real proving backends are well under this.
const maxReceiptLen = 1 << 28

// Artifact is the portable proof unit: an opaque receipt, a plain companion
// copy of the committed journal for fast inspection, and the identity of the
// program that produced the receipt.
//
// The companion journal is unauthenticated. Verifiers must re-extract the
// journal from the receipt and treat that copy as the source of truth.
// Artifacts are immutable once created; re-proving produces a new artifact.
type Artifact struct {
	Receipt   []byte
	Journal   Journal
	ProgramID [ProgramIDSize]byte
}

// Equal reports whether two artifacts are byte-for-byte the same unit.
func (a *Artifact) Equal(other *Artifact) bool {
	if a == nil || other == nil {
		return a == other
	}
	return bytes.Equal(a.Receipt, other.Receipt) &&
		a.Journal.Equal(other.Journal) &&
		a.ProgramID == other.ProgramID
}

// Encode serializes an artifact to the .zkproof wire form:
//
//	"zkproof" || version(1) || be32(len(receipt)) || receipt ||
//	program_id[32] || be32(len(journal)) || journal
//
// The receipt is carried as an opaque length-prefixed blob and never
// re-interpreted here.
func Encode(a *Artifact) ([]byte, error) {
	if a == nil {
		return nil, NewError(KindMalformedArtifact, "nil artifact")
	}
	if len(a.Receipt) == 0 {
		return nil, NewError(KindMalformedArtifact, "artifact has empty receipt")
	}
	journalBytes, err := EncodeJournal(a.Journal)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(magic)+1+4+len(a.Receipt)+ProgramIDSize+4+len(journalBytes))
	out = append(out, magic...)
	out = append(out, formatVersion)
	out = binary.BigEndian.AppendUint32(out, uint32(len(a.Receipt)))
	out = append(out, a.Receipt...)
	out = append(out, a.ProgramID[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(journalBytes)))
	out = append(out, journalBytes...)
	return out, nil
}

// Decode parses .zkproof bytes. Every structural check runs before any field
// is trusted; truncated, oversized, or trailing-garbage input fails with a
// MalformedArtifact error and never panics.
func Decode(data []byte) (*Artifact, error) {
	r := reader{data: data}

	head, err := r.take(len(magic) + 1)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(head[:len(magic)], magic) {
		return nil, NewError(KindMalformedArtifact, "not a zkproof file")
	}
	if v := head[len(magic)]; v != formatVersion {
		return nil, NewError(KindMalformedArtifact,
			fmt.Sprintf("unsupported zkproof format version %d", v))
	}

	receipt, err := r.takeBlob("receipt")
	if err != nil {
		return nil, err
	}
	if len(receipt) == 0 {
		return nil, NewError(KindMalformedArtifact, "empty receipt blob")
	}

	pid, err := r.take(ProgramIDSize)
	if err != nil {
		return nil, err
	}

	journalBytes, err := r.takeBlob("journal")
	if err != nil {
		return nil, err
	}
	journal, err := DecodeJournal(journalBytes)
	if err != nil {
		return nil, err
	}

	if r.remaining() != 0 {
		return nil, NewError(KindMalformedArtifact,
			fmt.Sprintf("%d trailing bytes after artifact", r.remaining()))
	}

	a := &Artifact{
		Receipt: append([]byte(nil), receipt...),
		Journal: journal,
	}
	copy(a.ProgramID[:], pid)
	return a, nil
}

// reader is a bounds-checked cursor over untrusted decode input.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, NewError(KindMalformedArtifact,
			fmt.Sprintf("truncated input: need %d bytes at offset %d, have %d", n, r.off, r.remaining()))
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) takeBlob(field string) ([]byte, error) {
	lenBytes, err := r.take(4)
	if err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBytes)
	if n > maxReceiptLen {
		return nil, NewError(KindMalformedArtifact,
			fmt.Sprintf("%s length %d exceeds limit", field, n))
	}
	return r.take(int(n))
}
