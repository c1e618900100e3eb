package keys

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *KeyStore {
	t.Helper()
	ks, err := CreateKeyStore(t.TempDir())
	if err != nil {
		t.Fatalf("CreateKeyStore: %v", err)
	}
	return ks
}

func testSeed() []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func TestInitializeRootKey(t *testing.T) {
	ks := testStore(t)

	proverKey, path, err := ks.InitializeRootKey("alice", testSeed(), false)
	if err != nil {
		t.Fatalf("InitializeRootKey: %v", err)
	}
	if proverKey != GenerateProverKeyFromSeed(testSeed()) {
		t.Fatalf("prover key does not match the seed")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat seed file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("seed file permissions = %o, want 600", perm)
	}

	// A second init without overwrite must not clobber the seed.
	if _, _, err := ks.InitializeRootKey("alice", make([]byte, ed25519.SeedSize), false); err == nil {
		t.Fatalf("re-init without --force succeeded")
	}
	if _, _, err := ks.InitializeRootKey("alice", testSeed(), true); err != nil {
		t.Fatalf("re-init with overwrite failed: %v", err)
	}
}

func TestDeriveKeyFromRole(t *testing.T) {
	ks := testStore(t)
	if _, _, err := ks.InitializeRootKey("alice", testSeed(), false); err != nil {
		t.Fatalf("InitializeRootKey: %v", err)
	}

	roleKey, rolePath, err := ks.DeriveKeyFromRole("alice", "ci", false)
	if err != nil {
		t.Fatalf("DeriveKeyFromRole: %v", err)
	}
	roleSeed, err := DeriveRoleSeed(testSeed(), "ci")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if roleKey != GenerateProverKeyFromSeed(roleSeed) {
		t.Fatalf("role key does not match the derived seed")
	}
	if filepath.Base(rolePath) != "ci.key" {
		t.Fatalf("role key stored at %q", rolePath)
	}

	if _, _, err := ks.DeriveKeyFromRole("nobody", "ci", false); err == nil {
		t.Fatalf("derive from missing root succeeded")
	}
}

func TestExportKey(t *testing.T) {
	ks := testStore(t)
	rootKey, _, err := ks.InitializeRootKey("alice", testSeed(), false)
	if err != nil {
		t.Fatalf("InitializeRootKey: %v", err)
	}
	roleKey, _, err := ks.DeriveKeyFromRole("alice", "ci", false)
	if err != nil {
		t.Fatalf("DeriveKeyFromRole: %v", err)
	}

	got, err := ks.ExportKey("alice", "")
	if err != nil {
		t.Fatalf("ExportKey root: %v", err)
	}
	if got != rootKey {
		t.Fatalf("exported root key mismatch")
	}
	got, err = ks.ExportKey("alice", "ci")
	if err != nil {
		t.Fatalf("ExportKey role: %v", err)
	}
	if got != roleKey {
		t.Fatalf("exported role key mismatch")
	}
	if _, err := ks.ExportKey("bob", ""); err == nil {
		t.Fatalf("export of missing key succeeded")
	}
}

func TestListKeys(t *testing.T) {
	ks := testStore(t)

	entries, err := ks.ListKeys()
	if err != nil {
		t.Fatalf("ListKeys on empty store: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("empty store listed %d entries", len(entries))
	}

	if _, _, err := ks.InitializeRootKey("alice", testSeed(), false); err != nil {
		t.Fatalf("InitializeRootKey: %v", err)
	}
	if _, _, err := ks.DeriveKeyFromRole("alice", "ci", false); err != nil {
		t.Fatalf("DeriveKeyFromRole: %v", err)
	}
	if _, _, err := ks.DeriveKeyFromRole("alice", "release", false); err != nil {
		t.Fatalf("DeriveKeyFromRole: %v", err)
	}

	entries, err = ks.ListKeys()
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(entries) != 1 || entries[0].Identifier != "alice" {
		t.Fatalf("entries = %+v, want single alice entry", entries)
	}
	if len(entries[0].Roles) != 2 || entries[0].Roles[0] != "ci" || entries[0].Roles[1] != "release" {
		t.Fatalf("roles = %v, want sorted [ci release]", entries[0].Roles)
	}
}

func TestLoadSeed(t *testing.T) {
	ks := testStore(t)
	if _, _, err := ks.InitializeRootKey("alice", testSeed(), false); err != nil {
		t.Fatalf("InitializeRootKey: %v", err)
	}

	seedHex := "0101010101010101010101010101010101010101010101010101010101010101"
	seed, err := ks.LoadSeed(seedHex, "", "", "")
	if err != nil {
		t.Fatalf("LoadSeed inline: %v", err)
	}
	if len(seed) != ed25519.SeedSize {
		t.Fatalf("inline seed length = %d", len(seed))
	}

	seed, err = ks.LoadSeed("", "alice", "", "")
	if err != nil {
		t.Fatalf("LoadSeed by name: %v", err)
	}
	if string(seed) != string(testSeed()) {
		t.Fatalf("seed by name mismatch")
	}

	if _, err := ks.LoadSeed("", "", "", ""); err == nil {
		t.Fatalf("LoadSeed with no signer succeeded")
	}
}

func TestCheckNames(t *testing.T) {
	for _, ok := range []string{"alice", "ci-runner", "Key_2"} {
		if err := CheckKeyName(ok); err != nil {
			t.Fatalf("CheckKeyName(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "a/b", "a b", "../x"} {
		if err := CheckKeyName(bad); err == nil {
			t.Fatalf("CheckKeyName(%q) succeeded", bad)
		}
	}
}
