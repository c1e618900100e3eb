package proof

import (
	"bytes"
	"testing"
)

func sampleJournal() Journal {
	var j Journal
	for i := range j.OriginalHash {
		j.OriginalHash[i] = byte(i)
	}
	for i := range j.RedactedHash {
		j.RedactedHash[i] = byte(0xff - i)
	}
	j.RedactedIndices = []uint32{1, 3, 7}
	return j
}

func TestJournalRoundTrip(t *testing.T) {
	for _, indices := range [][]uint32{
		nil,
		{0},
		{1, 3},
		{0, 1, 2, 3, 4, 5},
	} {
		j := sampleJournal()
		j.RedactedIndices = indices
		enc, err := EncodeJournal(j)
		if err != nil {
			t.Fatalf("EncodeJournal(%v) failed: %v", indices, err)
		}
		dec, err := DecodeJournal(enc)
		if err != nil {
			t.Fatalf("DecodeJournal(%v) failed: %v", indices, err)
		}
		if !dec.Equal(j) {
			t.Fatalf("journal round trip mismatch for indices %v", indices)
		}
	}
}

func TestEncodeJournalIsDeterministic(t *testing.T) {
	a, err := EncodeJournal(sampleJournal())
	if err != nil {
		t.Fatalf("EncodeJournal failed: %v", err)
	}
	b, err := EncodeJournal(sampleJournal())
	if err != nil {
		t.Fatalf("EncodeJournal failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("journal encoding is not deterministic")
	}
}

func TestDecodeJournalRejectsNonCanonical(t *testing.T) {
	good, err := EncodeJournal(sampleJournal())
	if err != nil {
		t.Fatalf("EncodeJournal failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":     {},
		"truncated": good[:len(good)-2],
		"trailing":  append(append([]byte(nil), good...), 0x00),
	}
	// Unsorted indices: swap the first two be32 index values.
	unsorted := append([]byte(nil), good...)
	idxOff := len(good) - 3*4
	copy(unsorted[idxOff:idxOff+4], good[idxOff+4:idxOff+8])
	copy(unsorted[idxOff+4:idxOff+8], good[idxOff:idxOff+4])
	cases["unsorted indices"] = unsorted

	// Duplicate indices: make the second index equal the first.
	dup := append([]byte(nil), good...)
	copy(dup[idxOff+4:idxOff+8], dup[idxOff:idxOff+4])
	cases["duplicate indices"] = dup

	for name, data := range cases {
		_, err := DecodeJournal(data)
		if err == nil {
			t.Fatalf("%s: DecodeJournal succeeded, want MalformedArtifact", name)
		}
		if !IsKind(err, KindMalformedArtifact) {
			t.Fatalf("%s: error = %v, want MalformedArtifact kind", name, err)
		}
	}
}

func sampleArtifact() *Artifact {
	a := &Artifact{
		Receipt: []byte("opaque receipt bytes"),
		Journal: sampleJournal(),
	}
	for i := range a.ProgramID {
		a.ProgramID[i] = byte(i * 3)
	}
	return a
}

func TestArtifactRoundTrip(t *testing.T) {
	a := sampleArtifact()
	enc, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !dec.Equal(a) {
		t.Fatalf("artifact round trip mismatch")
	}
}

func TestEncodeRejectsEmptyReceipt(t *testing.T) {
	a := sampleArtifact()
	a.Receipt = nil
	if _, err := Encode(a); !IsKind(err, KindMalformedArtifact) {
		t.Fatalf("Encode with empty receipt = %v, want MalformedArtifact", err)
	}
	if _, err := Encode(nil); !IsKind(err, KindMalformedArtifact) {
		t.Fatalf("Encode(nil) = %v, want MalformedArtifact", err)
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	good, err := Encode(sampleArtifact())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":          {},
		"wrong magic":    []byte("notproof" + string(good[8:])),
		"short magic":    good[:4],
		"trailing bytes": append(append([]byte(nil), good...), 0xAA),
		"truncated tail": good[:len(good)-5],
		"garbage":        bytes.Repeat([]byte{0x5A}, 64),
	}

	versionBumped := append([]byte(nil), good...)
	versionBumped[len(magic)] = 99
	cases["unknown version"] = versionBumped

	// Receipt length claims more bytes than the input holds.
	oversized := append([]byte(nil), good...)
	oversized[len(magic)+1] = 0xFF
	cases["oversized receipt length"] = oversized

	for name, data := range cases {
		a, err := Decode(data)
		if err == nil {
			t.Fatalf("%s: Decode succeeded, want MalformedArtifact", name)
		}
		if !IsKind(err, KindMalformedArtifact) {
			t.Fatalf("%s: error = %v, want MalformedArtifact kind", name, err)
		}
		if a != nil {
			t.Fatalf("%s: Decode returned a partial artifact alongside an error", name)
		}
	}
}

// Decode must never panic, whatever the input. Sweep truncations of a valid
// encoding and a spread of single-byte corruptions.
func TestDecodeNeverPanics(t *testing.T) {
	good, err := Encode(sampleArtifact())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for i := 0; i < len(good); i++ {
		_, _ = Decode(good[:i])

		mutated := append([]byte(nil), good...)
		mutated[i] ^= 0xFF
		_, _ = Decode(mutated)
	}
}

func TestErrorKinds(t *testing.T) {
	base := NewError(KindTamperedReceipt, "receipt rejected")
	wrapped := WrapError(KindProving, "prover failed", base)

	if !IsKind(base, KindTamperedReceipt) {
		t.Fatalf("IsKind missed the error's own kind")
	}
	if IsKind(base, KindInvalidIndex) {
		t.Fatalf("IsKind matched the wrong kind")
	}
	// The outermost kind wins when errors nest.
	if !IsKind(wrapped, KindProving) {
		t.Fatalf("IsKind missed the wrapping kind")
	}
	if IsKind(nil, KindProving) {
		t.Fatalf("IsKind(nil) = true")
	}
}
