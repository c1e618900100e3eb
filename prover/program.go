package prover

import (
	"crypto/sha256"
	"fmt"

	"github.com/tanctl/zkcat/redaction"
)

// ProgramIDSize is the fixed size of a program identity.
const ProgramIDSize = 32

// The redaction program manifest pins every semantic the program identity
// stands for. Changing any field (marker string, hash algorithm, journal
// layout) is a new program and must bump the version.
const (
	programName    = "zkcat-line-redaction"
	programVersion = 1
)

// redactionProgramID is process-wide immutable configuration, computed once
// at init and never mutated.
var redactionProgramID = func() [ProgramIDSize]byte {
	manifest := fmt.Sprintf("%s/v%d marker=%q hash=sha-256 journal=orig||redacted||be32-indices",
		programName, programVersion, redaction.Marker)
	return sha256.Sum256([]byte(manifest))
}()

// RedactionProgramID returns the fixed identity of the line-redaction
// program. Verifiers must pin their expectation to this constant; trusting a
// program identity read from an artifact is meaningless.
func RedactionProgramID() [ProgramIDSize]byte {
	return redactionProgramID
}
