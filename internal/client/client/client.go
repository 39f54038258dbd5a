package client

import (
	"context"

	pb "github.com/dmitrijs2005/gophattend/internal/proto"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	IssueChallenge(ctx context.Context) (*pb.Challenge, error)
	Submit(ctx context.Context, req *pb.SubmitRequest) (*pb.SubmitResponse, error)
	Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error)
	ListAttendance(ctx context.Context, req *pb.ListAttendanceRequest) ([]*pb.AttendanceRecord, error)
	ExportAttendance(ctx context.Context, date string) (string, string, error)
}
