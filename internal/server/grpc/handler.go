package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	pb "github.com/dmitrijs2005/gophattend/internal/proto"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) IssueChallenge(ctx context.Context, req *pb.IssueChallengeRequest) (*pb.Challenge, error) {

	ch := s.svc.Issuer.Issue()
	return &pb.Challenge{
		Message:         ch.Message,
		Signature:       ch.Signature,
		Timestamp:       ch.SlotStart,
		ServerPublicKey: ch.ServerPublicKey,
	}, nil

}

// Submit reports verification failures in the response body with
// Success false. Only transport and storage problems become gRPC errors.
func (s *GRPCServer) Submit(ctx context.Context, req *pb.SubmitRequest) (*pb.SubmitResponse, error) {

	if req.ServerQR == nil {
		return nil, status.Error(codes.InvalidArgument, "server_qr is required")
	}

	res, err := s.svc.Protocol.Submit(ctx, services.SubmitRequest{
		Challenge: models.Challenge{
			Message:         req.ServerQR.Message,
			Signature:       req.ServerQR.Signature,
			SlotStart:       req.ServerQR.Timestamp,
			ServerPublicKey: req.ServerQR.ServerPublicKey,
		},
		HolderPublicKey: req.PublicKey,
		HolderSignature: req.EmployeeSignature,
		ConfirmCheckout: req.ConfirmCheckout,
	})
	if res == nil {
		s.logger.Error(ctx, "submit failed", "error", err)
		return nil, statusFromError(err)
	}

	return &pb.SubmitResponse{
		Success:      res.Success,
		Reason:       res.Reason,
		Message:      res.Message,
		Action:       res.Action,
		EmpID:        res.EmployeeID,
		EmployeeName: res.EmployeeName,
		InTime:       res.InTime,
		OutTime:      res.OutTime,
		Status:       res.Status,
		Age:          res.Age,
	}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "emp_id", req.EmpID)

	profile := models.Profile{DisplayName: req.Name, Email: req.Email, Department: req.Department}

	if req.PublicKey != "" {
		emp, err := s.svc.Registry.Enroll(ctx, req.EmpID, profile, req.PublicKey)
		if err != nil {
			s.logger.Warn(ctx, "enrollment refused", "emp_id", req.EmpID, "reason", common.ReasonOf(err))
			return nil, statusFromError(err)
		}
		s.logger.Info(ctx, "Registered", "emp_id", emp.ID, "public_key", emp.PublicKey)
		return &pb.RegisterResponse{EmpID: emp.ID, PublicKey: emp.PublicKey}, nil
	}

	emp, kp, err := s.svc.Registry.Register(ctx, req.EmpID, profile)
	if err != nil {
		s.logger.Warn(ctx, "registration refused", "emp_id", req.EmpID, "reason", common.ReasonOf(err))
		return nil, statusFromError(err)
	}
	resp := &pb.RegisterResponse{EmpID: emp.ID, PublicKey: emp.PublicKey, PrivateKey: kp.PrivateKeyString()}
	kp.Wipe()

	s.logger.Info(ctx, "Registered", "emp_id", emp.ID, "public_key", emp.PublicKey)
	return resp, nil

}

func (s *GRPCServer) ListAttendance(ctx context.Context, req *pb.ListAttendanceRequest) (*pb.ListAttendanceResponse, error) {

	records, err := s.svc.Ledger.List(ctx, models.AttendanceFilter{
		Date:       req.Date,
		EmployeeID: req.EmpID,
		Status:     req.Status,
	})
	if err != nil {
		s.logger.Error(ctx, "list attendance failed", "error", err)
		return nil, statusFromError(err)
	}

	out := make([]*pb.AttendanceRecord, 0, len(records))
	for _, r := range records {
		out = append(out, toAttendanceRecord(r))
	}
	return &pb.ListAttendanceResponse{Records: out}, nil

}

func toAttendanceRecord(r *models.AttendanceRecord) *pb.AttendanceRecord {
	rec := &pb.AttendanceRecord{
		EmpID:        r.EmployeeID,
		EmployeeName: r.DisplayName,
		Date:         r.Date,
		InTime:       r.InTime,
		InTimestamp:  r.InAt.Format(time.RFC3339),
		OutTime:      r.OutTime,
		Status:       r.Status,
		QRTimestamp:  r.SourceSlot,
		Verified:     r.Verified,
	}
	if r.OutAt != nil {
		ts := r.OutAt.Format(time.RFC3339)
		rec.OutTimestamp = &ts
	}
	return rec
}

func (s *GRPCServer) ExportAttendance(ctx context.Context, req *pb.ExportAttendanceRequest) (*pb.ExportAttendanceResponse, error) {

	if s.svc.Exports == nil {
		return nil, status.Error(codes.Unavailable, "export is not configured")
	}

	key, url, err := s.svc.Exports.Export(ctx, req.Date)
	if err != nil {
		s.logger.Error(ctx, "export failed", "date", req.Date, "error", err)
		return nil, statusFromError(err)
	}

	return &pb.ExportAttendanceResponse{ObjectKey: key, URL: url}, nil

}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

// statusFromError maps domain errors to gRPC codes. Storage and unknown
// errors are reported as codes.Internal without detail.
func statusFromError(err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateIdentity),
		errors.Is(err, common.ErrDuplicatePublicKey),
		errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrInvalidRegistration),
		errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.PermissionDenied, "unauthorized")
	}
	return status.Error(codes.Internal, "internal error")
}
