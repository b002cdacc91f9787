// Package heatmapv1 exposes commute samples over gRPC as the service
// commutemap.v1.Heatmap.
//
// The service has a single method and uses well-known protobuf types for its
// messages, so the descriptor is built and registered at init instead of
// being generated (see descriptor.go). Server reflection can list and
// describe it:
//
//	service Heatmap {
//	  rpc GetSamples(google.protobuf.Empty) returns (google.protobuf.Struct);
//	}
//
// The reply struct has the same shape as the /api/samples JSON document:
// {"state": "...", "status": "...", "samples": [{"x":..,"y":..,"v":..}]}.
package heatmapv1

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName          = "commutemap.v1.Heatmap"
	GetSamplesFullMethod = "/" + ServiceName + "/GetSamples"
)

// HeatmapServer is the server API for the Heatmap service.
type HeatmapServer interface {
	GetSamples(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedHeatmapServer answers every method with codes.Unimplemented.
type UnimplementedHeatmapServer struct{}

func (UnimplementedHeatmapServer) GetSamples(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSamples not implemented")
}

// RegisterHeatmapServer registers srv on s.
func RegisterHeatmapServer(s grpc.ServiceRegistrar, srv HeatmapServer) {
	s.RegisterService(&Heatmap_ServiceDesc, srv)
}

func getSamplesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HeatmapServer).GetSamples(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetSamplesFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HeatmapServer).GetSamples(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Heatmap_ServiceDesc is the grpc.ServiceDesc for the Heatmap service.
var Heatmap_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HeatmapServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSamples",
			Handler:    getSamplesHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: ProtoFile,
}

// HeatmapClient is the client API for the Heatmap service.
type HeatmapClient interface {
	GetSamples(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type heatmapClient struct {
	cc grpc.ClientConnInterface
}

// NewHeatmapClient creates a client on cc.
func NewHeatmapClient(cc grpc.ClientConnInterface) HeatmapClient {
	return &heatmapClient{cc: cc}
}

func (c *heatmapClient) GetSamples(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSamplesFullMethod, in, out, opts...); err != nil {
		return nil, fmt.Errorf("GetSamples: %w", err)
	}
	return out, nil
}
