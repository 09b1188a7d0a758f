// Package storage archives plan-run reports. Reports are small JSON
// artifacts; the archive is best-effort and the planner treats failures as
// non-fatal, so neither backend needs durability guarantees.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"nyaalaya-backend/models"
)

// Archive stores report artifacts by path
type Archive interface {
	// Upload stores a report and returns the storage path
	Upload(ctx context.Context, reportID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a report by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a report by storage path
	Delete(ctx context.Context, storagePath string) error
}

// ArchiveType represents the archive backend type
type ArchiveType string

const (
	ArchiveTypeLocal ArchiveType = "local"
	ArchiveTypeS3    ArchiveType = "s3"
)

// ArchiveConfig holds configuration for the report archive
type ArchiveConfig struct {
	Type         ArchiveType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewArchive creates an archive instance based on configuration
func NewArchive(cfg ArchiveConfig) (Archive, error) {
	switch cfg.Type {
	case ArchiveTypeLocal:
		return NewLocalArchive(cfg.LocalPath)
	case ArchiveTypeS3:
		return NewS3Archive(cfg)
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
}

// NewArchiveFromEnv creates an archive instance from environment variables
func NewArchiveFromEnv() (Archive, error) {
	archiveType := os.Getenv("REPORT_ARCHIVE_TYPE")
	if archiveType == "" {
		archiveType = "local"
	}

	switch ArchiveType(archiveType) {
	case ArchiveTypeLocal:
		localPath := os.Getenv("REPORT_ARCHIVE_PATH")
		if localPath == "" {
			localPath = "./storage/reports"
		}
		return NewLocalArchive(localPath)

	case ArchiveTypeS3:
		cfg := ArchiveConfig{
			Type:         ArchiveTypeS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 archive")
		}
		return NewS3Archive(cfg)

	default:
		return nil, fmt.Errorf("unknown archive type: %s", archiveType)
	}
}

// reportPath builds a unique storage path, partitioned by month so the
// archive stays browsable
func reportPath(reportID uuid.UUID, filename string, now time.Time) string {
	filename = strings.ReplaceAll(filename, " ", "_")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	return fmt.Sprintf("%s/%s_%s", now.Format("2006-01"), reportID, filename)
}

// ReportRecorder persists report metadata; the repository package provides
// the Postgres implementation
type ReportRecorder interface {
	Create(ctx context.Context, report *models.Report) error
}

// ReportArchiver couples an archive backend with the metadata store. It is
// the planner-facing surface for saving run reports.
type ReportArchiver struct {
	archive Archive
	records ReportRecorder
}

// NewReportArchiver creates a report archiver. The recorder may be nil, in
// which case only the artifact is stored.
func NewReportArchiver(archive Archive, records ReportRecorder) *ReportArchiver {
	return &ReportArchiver{archive: archive, records: records}
}

// Save stores the report artifact and records its metadata
func (a *ReportArchiver) Save(ctx context.Context, filename string, data []byte) (*models.Report, error) {
	report := &models.Report{
		ID:       uuid.New(),
		Filename: filename,
		Size:     int64(len(data)),
	}
	if id, ok := runIDFromFilename(filename); ok {
		report.RunID = id
	}

	path, err := a.archive.Upload(ctx, report.ID, filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}
	report.StoragePath = path

	if a.records != nil {
		if err := a.records.Create(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to record report metadata: %w", err)
		}
	}
	return report, nil
}

// runIDFromFilename recovers the run ID from the planner's report naming
// convention, plan-run-<uuid>.json
func runIDFromFilename(filename string) (uuid.UUID, bool) {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = strings.TrimPrefix(name, "plan-run-")
	id, err := uuid.Parse(name)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
