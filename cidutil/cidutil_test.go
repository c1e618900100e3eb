package cidutil

import (
	"strings"
	"testing"

	"github.com/tanctl/zkcat/proof"
)

func TestCIDv1RawSHA256KnownVector(t *testing.T) {
	a := CIDv1RawSHA256([]byte("hello"))
	b := CIDv1RawSHA256([]byte("hello"))
	if a == "" || a != b {
		t.Fatalf("CID derivation is not deterministic: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "bafkrei") {
		t.Fatalf("unexpected CIDv1 raw/sha2-256 prefix: %q", a)
	}
	if CIDv1RawSHA256([]byte("hello!")) == a {
		t.Fatalf("different bytes share a CID")
	}
}

func TestCIDStringAndCIDAgree(t *testing.T) {
	data := []byte("proof bytes")
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	if id.String() != CIDv1RawSHA256(data) {
		t.Fatalf("string and typed CID derivations disagree")
	}
}

func TestArtifactCIDRequiresValidArtifact(t *testing.T) {
	if _, err := ArtifactCID([]byte("not an artifact")); err == nil {
		t.Fatalf("ArtifactCID accepted arbitrary bytes")
	}

	a := &proof.Artifact{
		Receipt: []byte("receipt"),
		Journal: proof.Journal{RedactedIndices: []uint32{0}},
	}
	encoded, err := proof.Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	id, err := ArtifactCID(encoded)
	if err != nil {
		t.Fatalf("ArtifactCID: %v", err)
	}
	if id != CIDv1RawSHA256(encoded) {
		t.Fatalf("artifact CID does not name the exact encoded bytes")
	}
}
