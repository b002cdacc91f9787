package heatmapv1

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoFile is the path the service descriptor is registered under.
const ProtoFile = "commutemap/v1/heatmap.proto"

// File_commutemap_v1_heatmap_proto is the registered file descriptor. It
// lets gRPC reflection describe the service and its methods.
var File_commutemap_v1_heatmap_proto protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(heatmapFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("heatmapv1: build descriptor: %v", err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("heatmapv1: register descriptor: %v", err))
	}
	File_commutemap_v1_heatmap_proto = fd
}

func heatmapFileProto() *descriptorpb.FileDescriptorProto {
	empty := emptypb.File_google_protobuf_empty_proto
	st := structpb.File_google_protobuf_struct_proto

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(ProtoFile),
		Package:    proto.String("commutemap.v1"),
		Dependency: []string{empty.Path(), st.Path()},
		Syntax:     proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/HatiCode/commutemap/pkg/api/heatmapv1"),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("Heatmap"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("GetSamples"),
						InputType:  proto.String("." + string((&emptypb.Empty{}).ProtoReflect().Descriptor().FullName())),
						OutputType: proto.String("." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())),
					},
				},
			},
		},
	}
}
