package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophattend/internal/common"
	pb "github.com/dmitrijs2005/gophattend/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AttendanceServiceClient
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAttendanceClient connects lazily to endpointURL. accessToken may be
// empty for holder-only use.
func NewAttendanceClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAttendanceServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &pb.PingRequest{})
	return s.mapError(err)
}

func (s *GRPCClient) IssueChallenge(ctx context.Context) (*pb.Challenge, error) {
	ch, err := s.client.IssueChallenge(ctx, &pb.IssueChallengeRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return ch, nil
}

// Submit returns verification failures in the response, not as errors.
func (s *GRPCClient) Submit(ctx context.Context, req *pb.SubmitRequest) (*pb.SubmitResponse, error) {
	resp, err := s.client.Submit(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListAttendance(ctx context.Context, req *pb.ListAttendanceRequest) ([]*pb.AttendanceRecord, error) {
	resp, err := s.client.ListAttendance(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Records, nil
}

func (s *GRPCClient) ExportAttendance(ctx context.Context, date string) (string, string, error) {
	resp, err := s.client.ExportAttendance(ctx, &pb.ExportAttendanceRequest{Date: date})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.ObjectKey, resp.URL, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	case codes.ResourceExhausted:
		return ErrRateLimited
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
