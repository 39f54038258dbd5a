package grpc

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/dmitrijs2005/gophattend/internal/common"
	pb "github.com/dmitrijs2005/gophattend/internal/proto"
	"github.com/dmitrijs2005/gophattend/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	adminSubjectKey ctxKey = "adminSubject"
	requestIDKey    ctxKey = "requestID"
)

const (
	accessTokenHeader = common.AccessTokenHeaderName
	requestIDHeader   = common.RequestIDHeaderName
)

var adminMethods = map[string]bool{
	pb.AttendanceService_ListAttendance_FullMethodName:   true,
	pb.AttendanceService_ExportAttendance_FullMethodName: true,
}

func (s *GRPCServer) requestInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	reqID := firstValue(ctx, requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, requestIDKey, reqID)
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, reqID))

	start := s.clock()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	s.metrics.RequestHandled(methodName(info.FullMethod), code.String())
	s.logger.Debug(ctx, "request handled",
		"request_id", reqID, "method", info.FullMethod, "code", code.String(), "duration", s.clock().Sub(start))

	return resp, err
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !s.limiter.Allow(peerKey(ctx), s.clock()) {
		s.metrics.RateLimited()
		return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}

	return handler(ctx, req)
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if adminMethods[info.FullMethod] ||
		(info.FullMethod == pb.AttendanceService_Register_FullMethodName && !s.openRegistration) {

		accessToken := firstValue(ctx, accessTokenHeader)
		if accessToken == "" {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		claims, err := auth.RequireRole(accessToken, s.jwtSecret, auth.RoleAdmin)
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			return nil, status.Error(codes.Unauthenticated, "token expired")
		case errors.Is(err, common.ErrorUnauthorized):
			return nil, status.Error(codes.PermissionDenied, "admin role required")
		case err != nil:
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		ctx = context.WithValue(ctx, adminSubjectKey, claims.Subject)
	}

	return handler(ctx, req)
}

func firstValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
	}
	return ""
}

// peerKey is the remote host without its port.
func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func methodName(fullMethod string) string {
	if i := strings.LastIndex(fullMethod, "/"); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}
