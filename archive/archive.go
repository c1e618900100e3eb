// Package archive defines the proof archive abstraction: content-addressable
// storage for encoded proof artifacts, keyed by the CID of their exact
// .zkproof bytes.
package archive

import "github.com/ipfs/go-cid"

// Store is a minimal content-addressable proof archive.
//
// Contract:
// - Put MUST be idempotent.
// - Stored proofs MUST be immutable; artifacts are never mutated in place,
//   re-proving archives a new object under a new CID.
// - CIDs MUST be derived from the bytes written.
// - Get MUST return ErrNotFound when the CID is absent.
//
// The archive stores opaque bytes; artifact validation happens at the rim
// (cidutil.ArtifactCID) before a proof enters the archive.
type Store interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
