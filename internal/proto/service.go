package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophattend.AttendanceService"

const (
	AttendanceService_IssueChallenge_FullMethodName   = "/" + ServiceName + "/IssueChallenge"
	AttendanceService_Submit_FullMethodName           = "/" + ServiceName + "/Submit"
	AttendanceService_Register_FullMethodName         = "/" + ServiceName + "/Register"
	AttendanceService_ListAttendance_FullMethodName   = "/" + ServiceName + "/ListAttendance"
	AttendanceService_ExportAttendance_FullMethodName = "/" + ServiceName + "/ExportAttendance"
	AttendanceService_Ping_FullMethodName             = "/" + ServiceName + "/Ping"
)

// AttendanceServiceServer is the server API for AttendanceService.
type AttendanceServiceServer interface {
	IssueChallenge(context.Context, *IssueChallengeRequest) (*Challenge, error)
	Submit(context.Context, *SubmitRequest) (*SubmitResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	ListAttendance(context.Context, *ListAttendanceRequest) (*ListAttendanceResponse, error)
	ExportAttendance(context.Context, *ExportAttendanceRequest) (*ExportAttendanceResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// UnimplementedAttendanceServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedAttendanceServiceServer struct{}

func (UnimplementedAttendanceServiceServer) IssueChallenge(context.Context, *IssueChallengeRequest) (*Challenge, error) {
	return nil, status.Error(codes.Unimplemented, "method IssueChallenge not implemented")
}
func (UnimplementedAttendanceServiceServer) Submit(context.Context, *SubmitRequest) (*SubmitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Submit not implemented")
}
func (UnimplementedAttendanceServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAttendanceServiceServer) ListAttendance(context.Context, *ListAttendanceRequest) (*ListAttendanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAttendance not implemented")
}
func (UnimplementedAttendanceServiceServer) ExportAttendance(context.Context, *ExportAttendanceRequest) (*ExportAttendanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportAttendance not implemented")
}
func (UnimplementedAttendanceServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterAttendanceServiceServer(s grpc.ServiceRegistrar, srv AttendanceServiceServer) {
	s.RegisterService(&AttendanceService_ServiceDesc, srv)
}

// unaryHandler adapts one typed method to the grpc.MethodDesc handler
// signature.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AttendanceServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AttendanceServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AttendanceServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AttendanceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AttendanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "IssueChallenge",
			Handler:    unaryHandler(AttendanceService_IssueChallenge_FullMethodName, AttendanceServiceServer.IssueChallenge),
		},
		{
			MethodName: "Submit",
			Handler:    unaryHandler(AttendanceService_Submit_FullMethodName, AttendanceServiceServer.Submit),
		},
		{
			MethodName: "Register",
			Handler:    unaryHandler(AttendanceService_Register_FullMethodName, AttendanceServiceServer.Register),
		},
		{
			MethodName: "ListAttendance",
			Handler:    unaryHandler(AttendanceService_ListAttendance_FullMethodName, AttendanceServiceServer.ListAttendance),
		},
		{
			MethodName: "ExportAttendance",
			Handler:    unaryHandler(AttendanceService_ExportAttendance_FullMethodName, AttendanceServiceServer.ExportAttendance),
		},
		{
			MethodName: "Ping",
			Handler:    unaryHandler(AttendanceService_Ping_FullMethodName, AttendanceServiceServer.Ping),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophattend/attendance.proto",
}

// AttendanceServiceClient is the client API for AttendanceService. Every
// call is sent with the JSON content-subtype.
type AttendanceServiceClient interface {
	IssueChallenge(ctx context.Context, in *IssueChallengeRequest, opts ...grpc.CallOption) (*Challenge, error)
	Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	ListAttendance(ctx context.Context, in *ListAttendanceRequest, opts ...grpc.CallOption) (*ListAttendanceResponse, error)
	ExportAttendance(ctx context.Context, in *ExportAttendanceRequest, opts ...grpc.CallOption) (*ExportAttendanceResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type attendanceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAttendanceServiceClient(cc grpc.ClientConnInterface) AttendanceServiceClient {
	return &attendanceServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *attendanceServiceClient) IssueChallenge(ctx context.Context, in *IssueChallengeRequest, opts ...grpc.CallOption) (*Challenge, error) {
	return invoke[Challenge](ctx, c.cc, AttendanceService_IssueChallenge_FullMethodName, in, opts)
}

func (c *attendanceServiceClient) Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, AttendanceService_Submit_FullMethodName, in, opts)
}

func (c *attendanceServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, AttendanceService_Register_FullMethodName, in, opts)
}

func (c *attendanceServiceClient) ListAttendance(ctx context.Context, in *ListAttendanceRequest, opts ...grpc.CallOption) (*ListAttendanceResponse, error) {
	return invoke[ListAttendanceResponse](ctx, c.cc, AttendanceService_ListAttendance_FullMethodName, in, opts)
}

func (c *attendanceServiceClient) ExportAttendance(ctx context.Context, in *ExportAttendanceRequest, opts ...grpc.CallOption) (*ExportAttendanceResponse, error) {
	return invoke[ExportAttendanceResponse](ctx, c.cc, AttendanceService_ExportAttendance_FullMethodName, in, opts)
}

func (c *attendanceServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, AttendanceService_Ping_FullMethodName, in, opts)
}
