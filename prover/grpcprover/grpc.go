package grpcprover

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProverServer is the server API for the Prover gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package does
// not require a protoc/codegen toolchain; the request framing is defined in
// wire.go.
//
// Proto definition: prover.proto.
type ProverServer interface {
	Prove(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	VerifyReceipt(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedProverServer can be embedded to have forward compatible implementations.
type UnimplementedProverServer struct{}

func (UnimplementedProverServer) Prove(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Prove not implemented")
}
func (UnimplementedProverServer) VerifyReceipt(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyReceipt not implemented")
}

// RegisterProverServer registers the Prover service on a gRPC server.
func RegisterProverServer(s grpc.ServiceRegistrar, srv ProverServer) {
	s.RegisterService(&Prover_ServiceDesc, srv)
}

// ProverClient is the client API for the Prover gRPC service.
type ProverClient interface {
	Prove(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	VerifyReceipt(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type proverClient struct{ cc grpc.ClientConnInterface }

func NewProverClient(cc grpc.ClientConnInterface) ProverClient { return &proverClient{cc: cc} }

func (c *proverClient) Prove(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/zkcat.prover.v1.Prover/Prove", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *proverClient) VerifyReceipt(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/zkcat.prover.v1.Prover/VerifyReceipt", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Prover_Prove_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProverServer).Prove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/zkcat.prover.v1.Prover/Prove"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProverServer).Prove(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Prover_VerifyReceipt_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProverServer).VerifyReceipt(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/zkcat.prover.v1.Prover/VerifyReceipt"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProverServer).VerifyReceipt(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Prover_ServiceDesc is the grpc.ServiceDesc for the Prover service.
var Prover_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "zkcat.prover.v1.Prover",
	HandlerType: (*ProverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Prove", Handler: _Prover_Prove_Handler},
		{MethodName: "VerifyReceipt", Handler: _Prover_VerifyReceipt_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "prover.proto",
}
