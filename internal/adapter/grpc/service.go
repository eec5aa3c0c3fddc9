package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service uses well-known types only, so its descriptor is written out
// here instead of generated from a .proto file.
const serviceName = "roomify.search.v1.SearchService"

const (
	SearchFullMethodName         = "/" + serviceName + "/Search"
	SearchCampusesFullMethodName = "/" + serviceName + "/SearchCampuses"
	GetCampusFullMethodName      = "/" + serviceName + "/GetCampus"
)

// SearchServiceServer takes a raw query string and answers with the JSON
// shape of the HTTP API as a Struct.
type SearchServiceServer interface {
	Search(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SearchCampuses(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetCampus(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterSearchServiceServer(s grpc.ServiceRegistrar, srv SearchServiceServer) {
	s.RegisterService(&searchServiceDesc, srv)
}

var searchServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SearchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: unaryHandler(SearchFullMethodName, SearchServiceServer.Search)},
		{MethodName: "SearchCampuses", Handler: unaryHandler(SearchCampusesFullMethodName, SearchServiceServer.SearchCampuses)},
		{MethodName: "GetCampus", Handler: unaryHandler(GetCampusFullMethodName, SearchServiceServer.GetCampus)},
	},
	Streams: []grpc.StreamDesc{},
}

type methodFunc func(SearchServiceServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call methodFunc) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SearchServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SearchServiceServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SearchServiceClient calls the service over any client connection.
type SearchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSearchServiceClient(cc grpc.ClientConnInterface) *SearchServiceClient {
	return &SearchServiceClient{cc: cc}
}

func (c *SearchServiceClient) Search(ctx context.Context, rawQuery string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SearchFullMethodName, rawQuery, opts)
}

func (c *SearchServiceClient) SearchCampuses(ctx context.Context, text string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SearchCampusesFullMethodName, text, opts)
}

func (c *SearchServiceClient) GetCampus(ctx context.Context, slug string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetCampusFullMethodName, slug, opts)
}

func (c *SearchServiceClient) invoke(ctx context.Context, method, arg string, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, wrapperspb.String(arg), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
