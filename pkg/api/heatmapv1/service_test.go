package heatmapv1

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/HatiCode/commutemap/pkg/commute"
	"github.com/HatiCode/commutemap/pkg/status"
)

func startServer(t *testing.T, srv HeatmapServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterHeatmapServer(s, srv)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, hs)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(s)

	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetSamples_Rendered(t *testing.T) {
	want := []commute.Sample{{X: 8, Y: 0, V: 20}, {X: 9, Y: 0, V: 30}, {X: 18, Y: 3, V: 50.5}}
	svc := NewService(func(ctx context.Context) (status.Snapshot, []commute.Sample) {
		return status.Snapshot{State: status.Rendered, Text: "2026/10/18 下午3:04:05"}, want
	}, quietLogger())

	client := NewHeatmapClient(startServer(t, svc))
	resp, err := client.GetSamples(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetSamples() error = %v", err)
	}

	state, text, got, err := DecodeSamples(resp)
	if err != nil {
		t.Fatalf("DecodeSamples() error = %v", err)
	}
	if state != "rendered" || text != "2026/10/18 下午3:04:05" {
		t.Errorf("state=%q text=%q", state, text)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGetSamples_Failed(t *testing.T) {
	svc := NewService(func(ctx context.Context) (status.Snapshot, []commute.Sample) {
		return status.Snapshot{State: status.Failed, Text: status.FailureText}, nil
	}, quietLogger())

	client := NewHeatmapClient(startServer(t, svc))
	resp, err := client.GetSamples(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetSamples() error = %v, failure should be carried in the payload", err)
	}

	state, text, got, err := DecodeSamples(resp)
	if err != nil {
		t.Fatal(err)
	}
	if state != "failed" || text != status.FailureText || len(got) != 0 {
		t.Errorf("state=%q text=%q samples=%d", state, text, len(got))
	}
}

func TestGetSamples_Unimplemented(t *testing.T) {
	client := NewHeatmapClient(startServer(t, UnimplementedHeatmapServer{}))

	_, err := client.GetSamples(context.Background(), &emptypb.Empty{})
	if grpcstatus.Code(err) != codes.Unimplemented {
		t.Errorf("code = %v, want Unimplemented", grpcstatus.Code(err))
	}
}

func TestHealth_Serving(t *testing.T) {
	conn := startServer(t, UnimplementedHeatmapServer{})

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.GetStatus())
	}
}

func TestEncodeDecode_Empty(t *testing.T) {
	st, err := EncodeSamples(status.Snapshot{State: status.Rendered, Text: "ok"}, []commute.Sample{})
	if err != nil {
		t.Fatal(err)
	}
	if st.GetFields()["samples"].GetListValue() == nil {
		t.Fatal("samples should be an empty list, not absent")
	}

	_, _, got, err := DecodeSamples(st)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("DecodeSamples() = %v, %v; want empty non-nil slice", got, err)
	}
}
