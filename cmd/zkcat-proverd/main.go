package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/tanctl/zkcat/keys"
	"github.com/tanctl/zkcat/prover/grpcprover"
	"github.com/tanctl/zkcat/prover/localprover"
)

func main() {
	fs := flag.NewFlagSet("zkcat-proverd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7788", "listen address")
	alg := fs.String("alg", keys.AlgEd25519, "receipt signature algorithm: ed25519 or dilithium3")
	seedHex := fs.String("seed-hex", "", "signing seed as 64 hex chars (default: fresh random key)")
	signer := fs.String("signer", "", "use a stored key by name (from 'zkcat key init')")
	signerRole := fs.String("signer-role", "", "with --signer, use a derived role key")

	_ = fs.Parse(os.Args[1:])

	seed, err := resolveSeed(*seedHex, *signer, *signerRole)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	backend, err := localprover.NewFromSeed(*alg, seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	receipts, err := localprover.NewVerifier(backend.ProverKey())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcprover.RegisterProverServer(s, &grpcprover.Server{Backend: backend, Receipts: receipts})

	fmt.Fprintf(os.Stderr, "zkcat-proverd listening on %s\n", lis.Addr().String())
	fmt.Fprintf(os.Stderr, "prover key: %s\n", backend.ProverKey())
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveSeed(seedHex, signer, signerRole string) ([]byte, error) {
	if seedHex == "" && signer == "" {
		seed := make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		return nil, err
	}
	return ks.LoadSeed(seedHex, signer, signerRole, "")
}
