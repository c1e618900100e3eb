package grpcprover

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tanctl/zkcat/proof"
	"github.com/tanctl/zkcat/prover"
)

// Client implements prover.Prover and prover.ReceiptVerifier against a
// remote Prover service.
type Client struct {
	cc     *grpc.ClientConn
	client ProverClient

	// Timeout applies per VerifyReceipt RPC when non-zero. Prove runs under
	// the caller's context only: proving is long-running by design.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero. Prove requests
	// carry the full original content, so this bounds provable file size.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewProverClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Prove submits the witness to the remote prover and returns its receipt.
func (c *Client) Prove(ctx context.Context, programID [prover.ProgramIDSize]byte, input prover.ProgramInput) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, proof.NewError(proof.KindProving, "prover client is not connected")
	}
	req, err := encodeProveRequest(programID, input)
	if err != nil {
		return nil, err
	}
	reply, err := c.client.Prove(ctx, wrapperspb.Bytes(req))
	if err != nil {
		return nil, mapRPC(err)
	}
	receipt := reply.GetValue()
	if len(receipt) == 0 {
		return nil, proof.NewError(proof.KindProving, "remote prover returned an empty receipt")
	}
	return receipt, nil
}

// VerifyReceipt checks a receipt remotely and returns the committed journal bytes.
func (c *Client) VerifyReceipt(receipt []byte, expectedProgramID [prover.ProgramIDSize]byte) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, proof.NewError(proof.KindProving, "prover client is not connected")
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.VerifyReceipt(ctx, wrapperspb.Bytes(encodeVerifyRequest(expectedProgramID, receipt)))
	if err != nil {
		return nil, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
