package search_service_api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "roundtrip.v1.SearchService"

// SearchServiceServer exchanges JSON-shaped structs so no generated stubs are
// needed on either side.
type SearchServiceServer interface {
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSearch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetItinerary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTimeline(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAirport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SearchServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SearchServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(SearchServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var SearchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SearchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Search", SearchServiceServer.Search),
		unary("GetSearch", SearchServiceServer.GetSearch),
		unary("GetItinerary", SearchServiceServer.GetItinerary),
		unary("GetTimeline", SearchServiceServer.GetTimeline),
		unary("GetAirport", SearchServiceServer.GetAirport),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterSearchServiceServer(s grpc.ServiceRegistrar, srv SearchServiceServer) {
	s.RegisterService(&SearchServiceDesc, srv)
}

// Client calls a remote SearchService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
