// Package archive keeps dated S3 snapshots of the bookings table. Snapshots
// are an off-site copy of the flat store, taken after successful saves; they
// are never read back by the application.
package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/kawaclinic/appointment-desk/pkg/logging"
)

// S3API is the subset of the S3 client used by Snapshotter.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshotter uploads the full table as CSV. If bucket is empty, all
// operations are no-ops.
type Snapshotter struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
	now      func() time.Time
}

// NewSnapshotter creates a Snapshotter.
func NewSnapshotter(s3Client S3API, bucket string, logger *logging.Logger) *Snapshotter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Snapshotter{
		bucket:   bucket,
		s3Client: s3Client,
		logger:   logger,
		now:      time.Now,
	}
}

// Enabled returns true if snapshots are configured.
func (s *Snapshotter) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// SnapshotTable uploads header+rows as one CSV object keyed by date. The
// caller has already persisted the table; a failed snapshot is the caller's
// to log, never to fail the save over.
func (s *Snapshotter) SnapshotTable(ctx context.Context, header []string, rows [][]string) error {
	if !s.Enabled() {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("archive: encode header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("archive: encode rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("archive: encode table: %w", err)
	}

	now := s.now().UTC()
	key := fmt.Sprintf("bookings/v1/by-date/%d/%02d/%02d/%s.csv",
		now.Year(), now.Month(), now.Day(), uuid.NewString())

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	s.logger.Info("snapshotted bookings table to S3",
		"s3_key", key,
		"row_count", len(rows),
	)
	return nil
}
