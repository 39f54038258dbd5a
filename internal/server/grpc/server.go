// Package grpc exposes the attendance services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophattend/internal/logging"
	pb "github.com/dmitrijs2005/gophattend/internal/proto"
	"github.com/dmitrijs2005/gophattend/internal/ratelimiter"
	"github.com/dmitrijs2005/gophattend/internal/server/services"
	"github.com/dmitrijs2005/gophattend/internal/timex"
	"google.golang.org/grpc"
)

// Services bundles the domain services served by GRPCServer. Exports may
// be nil, in which case ExportAttendance answers codes.Unavailable.
type Services struct {
	Issuer   *services.ChallengeIssuer
	Protocol *services.AuthenticationProtocol
	Registry *services.IdentityRegistry
	Ledger   *services.AttendanceLedger
	Exports  *services.ExportService
}

type requestMetrics interface {
	RequestHandled(method, code string)
	RateLimited()
}

type nopRequestMetrics struct{}

func (nopRequestMetrics) RequestHandled(string, string) {}
func (nopRequestMetrics) RateLimited()                  {}

// Options holds the transport settings.
type Options struct {
	SecretKey        string
	OpenRegistration bool
	Limiter          *ratelimiter.KeyedLimiter
	Metrics          requestMetrics
	Clock            timex.Clock
}

type GRPCServer struct {
	pb.UnimplementedAttendanceServiceServer
	address          string
	svc              Services
	logger           logging.Logger
	jwtSecret        []byte
	openRegistration bool
	limiter          *ratelimiter.KeyedLimiter
	metrics          requestMetrics
	clock            timex.Clock
}

func NewGRPCServer(a string, l logging.Logger, svc Services, opts Options) *GRPCServer {
	if opts.Metrics == nil {
		opts.Metrics = nopRequestMetrics{}
	}
	if opts.Clock == nil {
		opts.Clock = timex.SystemClock
	}
	return &GRPCServer{
		address:          a,
		svc:              svc,
		logger:           l.With("module", "grpc_server"),
		jwtSecret:        []byte(opts.SecretKey),
		openRegistration: opts.OpenRegistration,
		limiter:          opts.Limiter,
		metrics:          opts.Metrics,
		clock:            opts.Clock,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.requestInterceptor,
		s.rateLimitInterceptor,
		s.accessTokenInterceptor,
	))

	// registers service
	pb.RegisterAttendanceServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
