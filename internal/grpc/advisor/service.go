package advisor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "tactics.v1.Advisor"

const (
	methodGenerateMoves = "/" + ServiceName + "/GenerateMoves"
	methodApplyMove     = "/" + ServiceName + "/ApplyMove"
	methodChooseMove    = "/" + ServiceName + "/ChooseMove"
	methodEvaluate      = "/" + ServiceName + "/Evaluate"
)

// AdvisorServer is the server API for the Advisor service. Requests and
// responses are google.protobuf.Struct documents; see converters.go for the
// board, move and action layouts.
type AdvisorServer interface {
	// GenerateMoves lists the legal moves of a faction in generation order
	GenerateMoves(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ApplyMove resolves one move and returns the next board and its action log
	ApplyMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ChooseMove runs a search strategy and returns its decision
	ChooseMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Evaluate scores a board from a faction's point of view
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterAdvisorServer registers srv on s
func RegisterAdvisorServer(s grpc.ServiceRegistrar, srv AdvisorServer) {
	s.RegisterService(&Advisor_ServiceDesc, srv)
}

func unaryHandler(method string, call func(AdvisorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AdvisorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AdvisorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Advisor_ServiceDesc is the grpc.ServiceDesc for the Advisor service
var Advisor_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdvisorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GenerateMoves",
			Handler:    unaryHandler(methodGenerateMoves, AdvisorServer.GenerateMoves),
		},
		{
			MethodName: "ApplyMove",
			Handler:    unaryHandler(methodApplyMove, AdvisorServer.ApplyMove),
		},
		{
			MethodName: "ChooseMove",
			Handler:    unaryHandler(methodChooseMove, AdvisorServer.ChooseMove),
		},
		{
			MethodName: "Evaluate",
			Handler:    unaryHandler(methodEvaluate, AdvisorServer.Evaluate),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tactics/v1/advisor.proto",
}

// AdvisorClient is the client API for the Advisor service
type AdvisorClient interface {
	GenerateMoves(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ApplyMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ChooseMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type advisorClient struct {
	cc grpc.ClientConnInterface
}

// NewAdvisorClient wraps a connection in the raw Struct client
func NewAdvisorClient(cc grpc.ClientConnInterface) AdvisorClient {
	return &advisorClient{cc}
}

func (c *advisorClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *advisorClient) GenerateMoves(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGenerateMoves, in, opts)
}

func (c *advisorClient) ApplyMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodApplyMove, in, opts)
}

func (c *advisorClient) ChooseMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodChooseMove, in, opts)
}

func (c *advisorClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodEvaluate, in, opts)
}
