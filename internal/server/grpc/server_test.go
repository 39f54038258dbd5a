package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/logging"
	pb "github.com/dmitrijs2005/gophattend/internal/proto"
	"github.com/dmitrijs2005/gophattend/internal/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, Services{}, Options{SecretKey: "secret"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, Services{}, Options{SecretKey: "secret"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// Requests pass request, rate limit and token interceptors in that order,
// so rejected calls are still counted and refused before authorisation.
func TestServe_InterceptorChain(t *testing.T) {
	m := &countingMetrics{}
	srv := NewGRPCServer("bufnet", nopLogger{}, Services{}, Options{
		SecretKey: "secret",
		Limiter:   ratelimiter.New(0.001, 2, time.Minute),
		Metrics:   m,
		Clock:     func() time.Time { return time.Unix(1000, 0) },
	})

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
		cancel()
		require.NoError(t, <-done)
	}()
	client := pb.NewAttendanceServiceClient(conn)

	var header metadata.MD
	callCtx := metadata.AppendToOutgoingContext(context.Background(), common.RequestIDHeaderName, "req-42")
	pong, err := client.Ping(callCtx, &pb.PingRequest{}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)
	assert.Equal(t, []string{"req-42"}, header.Get(common.RequestIDHeaderName))

	_, err = client.ListAttendance(context.Background(), &pb.ListAttendanceRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.ListAttendance(context.Background(), &pb.ListAttendanceRequest{})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	assert.Equal(t, []string{"Ping:OK", "ListAttendance:Unauthenticated", "ListAttendance:ResourceExhausted"}, m.handled)
	assert.Equal(t, 1, m.limited)
}
