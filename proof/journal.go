// Package proof defines the public committed record (Journal), the portable
// proof artifact, and the versioned binary encoding used for .zkproof files.
package proof

import (
	"encoding/binary"
	"fmt"
)

// HashSize is the size in bytes of the content digests committed in a Journal.
const HashSize = 32

// Journal is the public record a redaction proof attests to: the digest of
// the undisclosed original content, the digest of the released redacted
// content, and the exact set of blanked line indices.
//
// RedactedIndices is canonical: strictly ascending, no duplicates. The
// Journal is the only data that crosses the trust boundary in the clear.
type Journal struct {
	OriginalHash    [HashSize]byte
	RedactedHash    [HashSize]byte
	RedactedIndices []uint32
}

// Equal reports whether two journals commit to identical records.
func (j Journal) Equal(other Journal) bool {
	if j.OriginalHash != other.OriginalHash || j.RedactedHash != other.RedactedHash {
		return false
	}
	if len(j.RedactedIndices) != len(other.RedactedIndices) {
		return false
	}
	for i := range j.RedactedIndices {
		if j.RedactedIndices[i] != other.RedactedIndices[i] {
			return false
		}
	}
	return true
}

// EncodeJournal serializes a journal to its canonical byte form:
//
//	original_hash[32] || redacted_hash[32] || be32(count) || be32(index)...
//
// Indices must already be strictly ascending; non-canonical journals are
// rejected so that two equal journals always have equal encodings.
func EncodeJournal(j Journal) ([]byte, error) {
	if err := checkIndices(j.RedactedIndices); err != nil {
		return nil, err
	}
	out := make([]byte, 0, 2*HashSize+4+4*len(j.RedactedIndices))
	out = append(out, j.OriginalHash[:]...)
	out = append(out, j.RedactedHash[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(j.RedactedIndices)))
	for _, idx := range j.RedactedIndices {
		out = binary.BigEndian.AppendUint32(out, idx)
	}
	return out, nil
}

// DecodeJournal parses canonical journal bytes. Truncated input, trailing
// bytes, and out-of-order or duplicate indices are all malformed.
func DecodeJournal(data []byte) (Journal, error) {
	var j Journal
	if len(data) < 2*HashSize+4 {
		return Journal{}, NewError(KindMalformedArtifact,
			fmt.Sprintf("journal too short: %d bytes", len(data)))
	}
	copy(j.OriginalHash[:], data[:HashSize])
	copy(j.RedactedHash[:], data[HashSize:2*HashSize])
	count := binary.BigEndian.Uint32(data[2*HashSize : 2*HashSize+4])
	rest := data[2*HashSize+4:]
	if uint64(len(rest)) != 4*uint64(count) {
		return Journal{}, NewError(KindMalformedArtifact,
			fmt.Sprintf("journal index section: want %d bytes, have %d", 4*count, len(rest)))
	}
	if count > 0 {
		j.RedactedIndices = make([]uint32, count)
		for i := range j.RedactedIndices {
			j.RedactedIndices[i] = binary.BigEndian.Uint32(rest[4*i:])
		}
		if err := checkIndices(j.RedactedIndices); err != nil {
			return Journal{}, err
		}
	}
	return j, nil
}

func checkIndices(indices []uint32) error {
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			return NewError(KindMalformedArtifact,
				fmt.Sprintf("journal indices not strictly ascending at position %d", i))
		}
	}
	return nil
}
