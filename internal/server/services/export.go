package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/logging"
	sc "github.com/dmitrijs2005/gophattend/internal/server/config"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/timex"
	"github.com/google/uuid"
)

// ObjectStore uploads a report and hands out a time-limited download URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3ObjectStore talks to an S3-compatible backend (AWS, MinIO).
type S3ObjectStore struct {
	cfg *sc.Config
}

func NewS3ObjectStore(cfg *sc.Config) *S3ObjectStore {
	return &S3ObjectStore{cfg: cfg}
}

func (s *S3ObjectStore) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.S3RootUser,
			s.cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *S3ObjectStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	return putObject(c, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.S3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})
}

func (s *S3ObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	c, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(s3.NewPresignClient(c), ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// exportRecord is one JSON line of an attendance report.
type exportRecord struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"emp_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	InTime       string  `json:"in_time"`
	InTimestamp  string  `json:"in_timestamp"`
	OutTime      *string `json:"out_time"`
	OutTimestamp *string `json:"out_timestamp"`
	Status       string  `json:"status"`
	QRTimestamp  int64   `json:"qr_timestamp"`
	Verified     bool    `json:"verified"`
}

// ExportService writes the attendance of one day to object storage.
type ExportService struct {
	ledger *AttendanceLedger
	store  ObjectStore
	ttl    time.Duration
	clock  timex.Clock
	log    logging.Logger
}

func NewExportService(l *AttendanceLedger, store ObjectStore, ttl time.Duration, clock timex.Clock, log logging.Logger) *ExportService {
	if clock == nil {
		clock = timex.SystemClock
	}
	if log == nil {
		log = logging.Nop()
	}
	return &ExportService{ledger: l, store: store, ttl: ttl, clock: clock, log: log.With("module", "export")}
}

// ExportKey returns the object key of a report for day (YYYY-MM-DD).
func ExportKey(day string) string {
	return fmt.Sprintf("attendance/%s/%s.json", strings.ReplaceAll(day, "-", "/"), uuid.New())
}

// Export uploads the records of day as JSON lines and returns the object
// key with a presigned download URL. An empty day means today.
func (s *ExportService) Export(ctx context.Context, day string) (string, string, error) {
	if day == "" {
		day = s.ledger.Day(s.clock())
	}
	if _, err := time.Parse(common.DateLayout, day); err != nil {
		return "", "", fmt.Errorf("%w: bad date %q", common.ErrInvalidArgument, day)
	}

	records, err := s.ledger.List(ctx, models.AttendanceFilter{Date: day})
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(toExportRecord(r)); err != nil {
			return "", "", err
		}
	}

	key := ExportKey(day)
	if err := s.store.Put(ctx, key, "application/x-ndjson", buf.Bytes()); err != nil {
		return "", "", fmt.Errorf("%w: upload export: %w", common.ErrStorage, err)
	}
	url, err := s.store.PresignGet(ctx, key, s.ttl)
	if err != nil {
		return "", "", fmt.Errorf("%w: presign export: %w", common.ErrStorage, err)
	}

	s.log.Info(ctx, "attendance exported", "date", day, "records", len(records), "key", key)
	return key, url, nil
}

func toExportRecord(r *models.AttendanceRecord) exportRecord {
	e := exportRecord{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
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
		e.OutTimestamp = &ts
	}
	return e
}
