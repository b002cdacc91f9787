package heatmapv1

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/HatiCode/commutemap/pkg/commute"
	"github.com/HatiCode/commutemap/pkg/status"
)

// RefreshFunc runs one refresh and reports its outcome together with the
// samples it produced. Samples are empty when the refresh failed.
type RefreshFunc func(ctx context.Context) (status.Snapshot, []commute.Sample)

// Service implements HeatmapServer on top of a RefreshFunc.
type Service struct {
	UnimplementedHeatmapServer

	refresh RefreshFunc
	logger  *slog.Logger
}

// NewService creates a Service. A nil logger means slog.Default().
func NewService(refresh RefreshFunc, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{refresh: refresh, logger: logger}
}

// GetSamples runs a refresh and returns its outcome. A failed refresh is
// reported in the payload ("state": "failed"), not as an RPC error.
func (s *Service) GetSamples(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snap, samples := s.refresh(ctx)

	out, err := EncodeSamples(snap, samples)
	if err != nil {
		s.logger.Error("failed to encode samples", "error", err)
		return nil, grpcstatus.Error(codes.Internal, "encode samples")
	}

	s.logger.Debug("grpc GetSamples",
		"state", snap.State.String(),
		"samples", len(samples),
	)
	return out, nil
}

// EncodeSamples builds the reply struct.
func EncodeSamples(snap status.Snapshot, samples []commute.Sample) (*structpb.Struct, error) {
	list := make([]any, 0, len(samples))
	for _, sm := range samples {
		list = append(list, map[string]any{
			"x": sm.X,
			"y": sm.Y,
			"v": sm.V,
		})
	}
	return structpb.NewStruct(map[string]any{
		"state":   snap.State.String(),
		"status":  snap.Text,
		"samples": list,
	})
}

// DecodeSamples is the inverse of EncodeSamples for clients. The state is
// returned by name.
func DecodeSamples(st *structpb.Struct) (state, text string, samples []commute.Sample, err error) {
	fields := st.GetFields()
	state = fields["state"].GetStringValue()
	text = fields["status"].GetStringValue()

	list := fields["samples"].GetListValue()
	samples = make([]commute.Sample, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		obj := v.GetStructValue()
		if obj == nil {
			return "", "", nil, fmt.Errorf("samples[%d]: not an object", i)
		}
		f := obj.GetFields()
		samples = append(samples, commute.Sample{
			X: int(f["x"].GetNumberValue()),
			Y: int(f["y"].GetNumberValue()),
			V: f["v"].GetNumberValue(),
		})
	}
	return state, text, samples, nil
}
