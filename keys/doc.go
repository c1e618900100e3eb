// Package keys provides prover signing-key helpers for zkcat.
//
// Stable:
//   - Pure, deterministic primitives: prover-key string formatting, role-seed
//     derivation, receipt signing and verification.
//
// Experimental:
//   - Filesystem-backed key storage and convenience helpers (KeyStore and
//     related functions). These are local-first utilities and are not part of
//     the long-term protocol contract.
package keys
