package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/tanctl/zkcat/archive"
	"github.com/tanctl/zkcat/archive/bundle"
	"github.com/tanctl/zkcat/archive/localfs"
	"github.com/tanctl/zkcat/cidutil"
	"github.com/tanctl/zkcat/issuer"
	"github.com/tanctl/zkcat/keys"
	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
	"github.com/tanctl/zkcat/prover/grpcprover"
	"github.com/tanctl/zkcat/prover/localprover"
	"github.com/tanctl/zkcat/redaction"
	"github.com/tanctl/zkcat/verifier"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "view":
		return cmdView(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "proof":
		return cmdProof(args[1:], out, errOut)
	case "archive":
		return cmdArchive(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "zkcat: file viewer with verifiable redaction proofs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  zkcat view <file> [--redact 1,3] [--output <path>] [--proof <path>] [--json] [--stats] [--alg ed25519|dilithium3] [--seed-hex <64hex> | --signer <name> [--signer-role <role>] | --key-file <path>] [--prover <addr>]")
	fmt.Fprintln(w, "  zkcat verify <proof-file> [--prover-key <key> ...] [--prover <addr>] [--json] [--stats]")
	fmt.Fprintln(w, "  zkcat key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  zkcat key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  zkcat key list")
	fmt.Fprintln(w, "  zkcat key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  zkcat proof cid <proof-file>")
	fmt.Fprintln(w, "  zkcat archive put <proof-file> [--dir <path>]")
	fmt.Fprintln(w, "  zkcat archive get <cid> [--out <path>] [--dir <path>]")
	fmt.Fprintln(w, "  zkcat archive export --out <bundle.tar> --cid <cid> [--cid ...] [--dir <path>]")
	fmt.Fprintln(w, "  zkcat archive import <bundle.tar> [--dir <path>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --redact takes 0-based line indices; every index must be within the file")
	fmt.Fprintln(w, "  - view writes the proof next to the input as <file>.zkproof unless --proof is set")
	fmt.Fprintln(w, "  - verify needs the prover's public key (--prover-key, as printed by view) or a remote verifier (--prover)")
	fmt.Fprintln(w, "  - keys live under ~/.zkcat/keys (override with ZKCAT_KEYS_DIR); private seed files are 0600")
	fmt.Fprintln(w, "  - the archive lives under ~/.zkcat/archive (override with ZKCAT_ARCHIVE_DIR)")
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// popArg splits a leading positional argument off args, so subcommands
// accept both "zkcat view <file> --redact 1" and "zkcat view --redact 1
// <file>". Stdlib flag parsing stops at the first non-flag argument, so the
// positional must come off before Parse when it leads.
func popArg(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

// targetArg resolves the single positional argument for a subcommand from
// either the popped leading argument or the flag set's remainder.
func targetArg(popped string, fs *flag.FlagSet) (string, bool) {
	if popped != "" {
		return popped, fs.NArg() == 0
	}
	if fs.NArg() == 1 {
		return fs.Arg(0), true
	}
	return "", false
}

// parseIndices parses a comma-separated list of 0-based line indices.
func parseIndices(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty index in list")
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

type viewReport struct {
	File            string   `json:"file"`
	OriginalHash    string   `json:"original_hash"`
	RedactedHash    string   `json:"redacted_hash"`
	RedactedIndices []uint32 `json:"redacted_indices"`
	ProgramID       string   `json:"program_id"`
	ProverKey       string   `json:"prover_key,omitempty"`
	ProofFile       string   `json:"proof_file"`
	ProofCID        string   `json:"proof_cid"`
	ProveMillis     int64    `json:"prove_ms,omitempty"`
}

func cmdView(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var redactList string
	var outputPath string
	var proofPath string
	var jsonOut bool
	var stats bool
	var alg string
	var seedHex string
	var signerName string
	var signerRole string
	var keyFile string
	var proverAddr string

	fs.StringVar(&redactList, "redact", "", "Comma-separated 0-based line indices to redact")
	fs.StringVar(&outputPath, "output", "", "Write the redacted content to this path")
	fs.StringVar(&proofPath, "proof", "", "Proof output path (default <file>.zkproof)")
	fs.BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	fs.BoolVar(&stats, "stats", false, "Include timing statistics")
	fs.StringVar(&alg, "alg", keys.AlgEd25519, "Receipt signature algorithm: ed25519 or dilithium3")
	fs.StringVar(&seedHex, "seed-hex", "", "Signing seed as 64 hex chars")
	fs.StringVar(&signerName, "signer", "", "Use a stored key by name (from 'zkcat key init')")
	fs.StringVar(&signerRole, "signer-role", "", "When using --signer, optionally use a derived role key")
	fs.StringVar(&keyFile, "key-file", "", "Path to a seed file (hex) created by 'zkcat key init/derive'")
	fs.StringVar(&proverAddr, "prover", "", "Remote prover daemon address (default: prove in-process)")

	popped, rest := popArg(args)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	filePath, ok := targetArg(popped, fs)
	if !ok {
		fmt.Fprintln(errOut, "usage: zkcat view <file> [flags]")
		return 2
	}

	indices, err := parseIndices(redactList)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --redact: %v\n", err)
		return 2
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(errOut, "read input file: %v\n", err)
		return 1
	}

	var backend prover.Prover
	var checker prover.ReceiptVerifier
	var proverKey string
	if proverAddr != "" {
		client, derr := grpcprover.Dial(proverAddr, grpcprover.DialOptions{})
		if derr != nil {
			fmt.Fprintf(errOut, "dial prover: %v\n", derr)
			return 1
		}
		defer client.Close()
		backend = client
		checker = client
	} else {
		local, proverKeyStr, berr := localBackend(alg, seedHex, signerName, signerRole, keyFile)
		if berr != nil {
			fmt.Fprintf(errOut, "prover key: %v\n", berr)
			return 1
		}
		selfCheck, verr := localprover.NewVerifier(proverKeyStr)
		if verr != nil {
			fmt.Fprintf(errOut, "prover key: %v\n", verr)
			return 1
		}
		backend = local
		checker = selfCheck
		proverKey = proverKeyStr
	}

	is := &issuer.Issuer{Prover: backend, Checker: checker}
	artifact, res, issueStats, err := is.Issue(context.Background(), content, indices)
	if err != nil {
		fmt.Fprintf(errOut, "proof generation: %v\n", err)
		return 1
	}

	if !jsonOut {
		for _, line := range redaction.SplitLines(res.RedactedContent) {
			fmt.Fprintf(out, "%s\n", line)
		}
		fmt.Fprintln(out)
	}

	if outputPath != "" {
		if werr := os.WriteFile(outputPath, res.RedactedContent, 0o644); werr != nil {
			fmt.Fprintf(errOut, "write redacted output: %v\n", werr)
			return 1
		}
	}

	encoded, err := proof.Encode(artifact)
	if err != nil {
		fmt.Fprintf(errOut, "encode proof: %v\n", err)
		return 1
	}
	if proofPath == "" {
		proofPath = filePath + ".zkproof"
	}
	if werr := os.WriteFile(proofPath, encoded, 0o644); werr != nil {
		fmt.Fprintf(errOut, "write proof file: %v\n", werr)
		return 1
	}

	report := viewReport{
		File:            filePath,
		OriginalHash:    hex.EncodeToString(artifact.Journal.OriginalHash[:]),
		RedactedHash:    hex.EncodeToString(artifact.Journal.RedactedHash[:]),
		RedactedIndices: artifact.Journal.RedactedIndices,
		ProgramID:       hex.EncodeToString(artifact.ProgramID[:]),
		ProverKey:       proverKey,
		ProofFile:       proofPath,
		ProofCID:        cidutil.CIDv1RawSHA256(encoded),
	}
	if stats {
		report.ProveMillis = issueStats.ProveDuration.Milliseconds()
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(errOut, "encode json: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintln(out, "Proof generated and verified.")
	fmt.Fprintf(out, "- Original SHA-256 hash: %s\n", report.OriginalHash)
	fmt.Fprintf(out, "- Redacted SHA-256 hash: %s\n", report.RedactedHash)
	fmt.Fprintf(out, "- Redacted line indices: %v\n", report.RedactedIndices)
	if proverKey != "" {
		fmt.Fprintf(out, "- Prover key: %s\n", proverKey)
	}
	fmt.Fprintf(out, "- Proof CID: %s\n", report.ProofCID)
	fmt.Fprintf(out, "Proof saved to: %s\n", proofPath)
	if stats {
		fmt.Fprintf(out, "Proving took %d ms\n", report.ProveMillis)
	}
	return 0
}

// localBackend builds an in-process proving backend from the signer flags.
// With no signer configured it generates an ephemeral key; the printed
// prover key is then the only way to verify the proof later.
func localBackend(alg, seedHex, signerName, signerRole, keyFile string) (*localprover.Backend, string, error) {
	var seed []byte
	if seedHex == "" && signerName == "" && keyFile == "" {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, "", err
		}
	} else {
		ks, err := keys.CreateKeyStore("")
		if err != nil {
			return nil, "", err
		}
		seed, err = ks.LoadSeed(seedHex, signerName, signerRole, keyFile)
		if err != nil {
			return nil, "", err
		}
	}
	backend, err := localprover.NewFromSeed(alg, seed)
	if err != nil {
		return nil, "", err
	}
	return backend, backend.ProverKey(), nil
}

type verifyReport struct {
	ProofFile       string   `json:"proof_file"`
	OriginalHash    string   `json:"original_hash"`
	RedactedHash    string   `json:"redacted_hash"`
	RedactedIndices []uint32 `json:"redacted_indices"`
	ProgramID       string   `json:"program_id"`
	Warnings        []string `json:"warnings,omitempty"`
	VerifyMillis    int64    `json:"verify_ms,omitempty"`
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var trustedKeys stringList
	var proverAddr string
	var jsonOut bool
	var stats bool

	fs.Var(&trustedKeys, "prover-key", "Trusted prover key (repeatable)")
	fs.StringVar(&proverAddr, "prover", "", "Remote prover daemon address (verifies via RPC)")
	fs.BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	fs.BoolVar(&stats, "stats", false, "Include timing statistics")

	popped, rest := popArg(args)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	proofPath, ok := targetArg(popped, fs)
	if !ok {
		fmt.Fprintln(errOut, "usage: zkcat verify <proof-file> [flags]")
		return 2
	}

	var receipts prover.ReceiptVerifier
	switch {
	case proverAddr != "":
		client, derr := grpcprover.Dial(proverAddr, grpcprover.DialOptions{})
		if derr != nil {
			fmt.Fprintf(errOut, "dial prover: %v\n", derr)
			return 1
		}
		defer client.Close()
		receipts = client
	case len(trustedKeys) > 0:
		v, verr := localprover.NewVerifier(trustedKeys...)
		if verr != nil {
			fmt.Fprintf(errOut, "invalid --prover-key: %v\n", verr)
			return 2
		}
		receipts = v
	default:
		fmt.Fprintln(errOut, "a trusted prover key (--prover-key) or a remote verifier (--prover) is required")
		return 2
	}

	data, err := os.ReadFile(proofPath)
	if err != nil {
		fmt.Fprintf(errOut, "read proof file: %v\n", err)
		return 1
	}
	artifact, err := proof.Decode(data)
	if err != nil {
		fmt.Fprintf(errOut, "decode proof: %v\n", err)
		return 1
	}

	report, err := verifier.New(receipts).Verify(artifact)
	if err != nil {
		fmt.Fprintf(errOut, "verification failed: %v\n", err)
		return 1
	}

	vr := verifyReport{
		ProofFile:       proofPath,
		OriginalHash:    hex.EncodeToString(report.Journal.OriginalHash[:]),
		RedactedHash:    hex.EncodeToString(report.Journal.RedactedHash[:]),
		RedactedIndices: report.Journal.RedactedIndices,
		ProgramID:       hex.EncodeToString(artifact.ProgramID[:]),
		Warnings:        report.Warnings,
	}
	if stats {
		vr.VerifyMillis = report.VerifyDuration.Milliseconds()
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(vr); err != nil {
			fmt.Fprintf(errOut, "encode json: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintln(out, "Proof verified successfully.")
	fmt.Fprintf(out, "- Original SHA-256 hash: %s\n", vr.OriginalHash)
	fmt.Fprintf(out, "- Redacted SHA-256 hash: %s\n", vr.RedactedHash)
	fmt.Fprintf(out, "- Redacted line indices: %v\n", vr.RedactedIndices)
	for _, w := range report.Warnings {
		fmt.Fprintf(errOut, "warning: %s\n", w)
	}
	if stats {
		fmt.Fprintf(out, "Verification took %d ms\n", vr.VerifyMillis)
	}
	return 0
}

func cmdProof(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: zkcat proof <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: cid")
		return 2
	}
	switch args[0] {
	case "cid":
		fs := flag.NewFlagSet("proof cid", flag.ContinueOnError)
		fs.SetOutput(errOut)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: zkcat proof cid <proof-file>")
			return 2
		}
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read proof: %v\n", err)
			return 1
		}
		id, err := cidutil.ArtifactCID(b)
		if err != nil {
			fmt.Fprintf(errOut, "invalid proof: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, id)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown proof subcommand: %s\n", args[0])
		return 2
	}
}

// EnvArchiveDir overrides the default proof archive directory when set.
const EnvArchiveDir = "ZKCAT_ARCHIVE_DIR"

func openArchive(dir string) (archive.Store, error) {
	if dir == "" {
		if env := os.Getenv(EnvArchiveDir); env != "" {
			dir = env
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(home, ".zkcat", "archive")
		}
	}
	return localfs.New(dir)
}

func cmdArchive(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: zkcat archive <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: put, get, export, import")
		return 2
	}
	switch args[0] {
	case "put":
		return cmdArchivePut(args[1:], out, errOut)
	case "get":
		return cmdArchiveGet(args[1:], out, errOut)
	case "export":
		return cmdArchiveExport(args[1:], out, errOut)
	case "import":
		return cmdArchiveImport(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown archive subcommand: %s\n", args[0])
		return 2
	}
}

func cmdArchivePut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var dir string
	fs.StringVar(&dir, "dir", "", "Archive directory")
	popped, rest := popArg(args)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	proofPath, ok := targetArg(popped, fs)
	if !ok {
		fmt.Fprintln(errOut, "usage: zkcat archive put <proof-file> [--dir <path>]")
		return 2
	}
	b, err := os.ReadFile(proofPath)
	if err != nil {
		fmt.Fprintf(errOut, "read proof: %v\n", err)
		return 1
	}
	// Only structurally valid artifacts enter the archive.
	if _, err := cidutil.ArtifactCID(b); err != nil {
		fmt.Fprintf(errOut, "invalid proof: %v\n", err)
		return 1
	}
	store, err := openArchive(dir)
	if err != nil {
		fmt.Fprintf(errOut, "open archive: %v\n", err)
		return 1
	}
	id, err := store.Put(b)
	if err != nil {
		fmt.Fprintf(errOut, "archive put: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}

func cmdArchiveGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var dir string
	var outPath string
	fs.StringVar(&dir, "dir", "", "Archive directory")
	fs.StringVar(&outPath, "out", "", "Write the proof to this path (default stdout)")
	popped, rest := popArg(args)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	cidArg, ok := targetArg(popped, fs)
	if !ok {
		fmt.Fprintln(errOut, "usage: zkcat archive get <cid> [--out <path>] [--dir <path>]")
		return 2
	}
	id, err := cid.Decode(cidArg)
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}
	store, err := openArchive(dir)
	if err != nil {
		fmt.Fprintf(errOut, "open archive: %v\n", err)
		return 1
	}
	b, err := store.Get(id)
	if err != nil {
		if archive.IsNotFound(err) {
			fmt.Fprintf(errOut, "proof %s not in archive\n", id)
			return 1
		}
		fmt.Fprintf(errOut, "archive get: %v\n", err)
		return 1
	}
	if outPath == "" {
		_, err = out.Write(b)
	} else {
		err = os.WriteFile(outPath, b, 0o644)
	}
	if err != nil {
		fmt.Fprintf(errOut, "write proof: %v\n", err)
		return 1
	}
	return 0
}

func cmdArchiveExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var dir string
	var outPath string
	var cidStrings stringList
	fs.StringVar(&dir, "dir", "", "Archive directory")
	fs.StringVar(&outPath, "out", "", "Bundle output path")
	fs.Var(&cidStrings, "cid", "Proof CID to include (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if outPath == "" {
		fmt.Fprintln(errOut, "missing --out")
		return 2
	}
	if len(cidStrings) == 0 {
		fmt.Fprintln(errOut, "missing --cid")
		return 2
	}
	ids := make([]cid.Cid, 0, len(cidStrings))
	for _, s := range cidStrings {
		id, err := cid.Decode(s)
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid %q: %v\n", s, err)
			return 2
		}
		ids = append(ids, id)
	}
	store, err := openArchive(dir)
	if err != nil {
		fmt.Fprintf(errOut, "open archive: %v\n", err)
		return 1
	}
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(errOut, "create bundle: %v\n", err)
		return 1
	}
	defer f.Close()
	if err := bundle.Export(f, store, ids, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		fmt.Fprintf(errOut, "export bundle: %v\n", err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "close bundle: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Exported %d proof(s) to %s\n", len(ids), outPath)
	return 0
}

func cmdArchiveImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive import", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var dir string
	fs.StringVar(&dir, "dir", "", "Archive directory")
	popped, rest := popArg(args)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	bundlePath, ok := targetArg(popped, fs)
	if !ok {
		fmt.Fprintln(errOut, "usage: zkcat archive import <bundle.tar> [--dir <path>]")
		return 2
	}
	store, err := openArchive(dir)
	if err != nil {
		fmt.Fprintf(errOut, "open archive: %v\n", err)
		return 1
	}
	f, err := os.Open(bundlePath)
	if err != nil {
		fmt.Fprintf(errOut, "open bundle: %v\n", err)
		return 1
	}
	defer f.Close()
	if err := bundle.Import(f, store); err != nil {
		fmt.Fprintf(errOut, "import bundle: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, "Bundle imported.")
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  zkcat key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  zkcat key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  zkcat key list")
	fmt.Fprintln(w, "  zkcat key export --name <name> [--role <role>]")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var seedHex string
	var force bool

	fs.StringVar(&name, "name", "", "Key name (directory under ~/.zkcat/keys)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional signing seed as 64 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	} else {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	proverKey, rootPath, err := ks.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", proverKey)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var from string
	var role string
	var force bool

	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&role, "role", "", "Role identifier (e.g. ci, release)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if role == "" {
		fmt.Fprintln(errOut, "missing --role")
		return 2
	}
	if err := keys.CheckKeyName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckRole(role); err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	proverKey, rolePath, err := ks.DeriveKeyFromRole(from, role, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive role key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created role key: %s\n", proverKey)
	fmt.Fprintf(out, "Stored at: %s\n", rolePath)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		if len(e.Roles) == 0 {
			fmt.Fprintf(out, "%s\n", e.Identifier)
			continue
		}
		fmt.Fprintf(out, "%s\t(roles: %s)\n", e.Identifier, strings.Join(e.Roles, ", "))
	}
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var role string

	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&role, "role", "", "Optional role (if set, exports derived role key)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if role != "" {
		if err := keys.CheckRole(role); err != nil {
			fmt.Fprintf(errOut, "invalid --role: %v\n", err)
			return 2
		}
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	proverKey, err := ks.ExportKey(name, role)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(errOut, "key not found: %s\n", name)
			return 1
		}
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	alg, pub, perr := keys.ParseProverKey(proverKey)
	if perr != nil {
		fmt.Fprintf(errOut, "export key: %v\n", perr)
		return 1
	}
	fmt.Fprintf(out, "%s\n", proverKey)
	fmt.Fprintf(out, "Fingerprint (%s): %s\n", alg, keys.Fingerprint(pub))
	return 0
}
