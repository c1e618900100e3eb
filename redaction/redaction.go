// Package redaction implements the deterministic line-redaction transform
// and the content commitments (SHA-256 hashes) it is hashed under.
//
// The transform is pure: no I/O, no clocks, no randomness. The same
// line-splitting and rejoining rule is used for hashing and for producing
// the visible redacted output, so the hash a verifier checks corresponds
// exactly to the content a recipient can independently hash and compare.
package redaction

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/tanctl/zkcat/proof"
)

// Marker replaces the full content of every redacted line.
const Marker = "***REDACTED***"

// Result holds the output of a redaction transform.
//
// RedactedContent is the original content with every line at an index in
// Indices replaced wholesale by Marker, all other lines byte-identical.
type Result struct {
	RedactedContent []byte
	OriginalHash    [32]byte
	RedactedHash    [32]byte

	// Indices is the canonical form of the requested set: sorted ascending,
	// duplicates removed.
	Indices []uint32
}

// Journal returns the public committed record for this result.
func (r *Result) Journal() proof.Journal {
	return proof.Journal{
		OriginalHash:    r.OriginalHash,
		RedactedHash:    r.RedactedHash,
		RedactedIndices: append([]uint32(nil), r.Indices...),
	}
}

// SplitLines splits content on '\n'. Join(SplitLines(b), '\n') reproduces b
// byte-for-byte for every input, trailing newline included; a trailing
// newline therefore yields a final empty line that counts toward the line
// total.
func SplitLines(content []byte) [][]byte {
	return bytes.Split(content, []byte{'\n'})
}

// Redact applies the redaction transform.
//
// Every index must satisfy 0 <= index < line count; any violation fails with
// an InvalidIndex error and no output. Calling Redact twice with identical
// inputs yields byte-identical outputs and hashes.
func Redact(content []byte, indices []int) (*Result, error) {
	lines := SplitLines(content)

	canonical, err := canonicalIndices(indices, len(lines))
	if err != nil {
		return nil, err
	}

	redacted := make([][]byte, len(lines))
	copy(redacted, lines)
	for _, idx := range canonical {
		redacted[idx] = []byte(Marker)
	}
	redactedContent := bytes.Join(redacted, []byte{'\n'})

	return &Result{
		RedactedContent: redactedContent,
		OriginalHash:    sha256.Sum256(content),
		RedactedHash:    sha256.Sum256(redactedContent),
		Indices:         canonical,
	}, nil
}

// canonicalIndices validates indices against lineCount and returns them
// sorted ascending with duplicates removed.
func canonicalIndices(indices []int, lineCount int) ([]uint32, error) {
	out := make([]uint32, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 {
			return nil, proof.NewError(proof.KindInvalidIndex,
				fmt.Sprintf("redaction index %d is negative", idx))
		}
		if idx >= lineCount {
			return nil, proof.NewError(proof.KindInvalidIndex,
				fmt.Sprintf("redaction index %d out of range for %d-line content", idx, lineCount))
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, uint32(idx))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
