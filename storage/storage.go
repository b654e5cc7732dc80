// Package storage archives analysis reports on the local filesystem or S3.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("object not found")
	ErrUnknownStorageType = errors.New("unknown storage type")
	ErrMissingBucket      = errors.New("s3 bucket is required for s3 storage")
)

// Storage interface for report archive operations
type Storage interface {
	// Upload stores an object and returns its storage path
	Upload(ctx context.Context, id uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves an object by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an object by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeNone  StorageType = "none"
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string // S3-compatible endpoint; empty for AWS
	S3Prefix     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a storage instance based on configuration. The none
// type returns a nil Storage and no error.
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeNone, "":
		return nil, nil
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, ErrMissingBucket
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorageType, cfg.Type)
	}
}

// ReportFilename is the archive name of an analysis report.
const ReportFilename = "report.json"

// ArchiveJSON encodes v as indented JSON and uploads it under id.
func ArchiveJSON(ctx context.Context, s Storage, id uuid.UUID, filename string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return s.Upload(ctx, id, filename, bytes.NewReader(data))
}

// generateStoragePath shards objects by the first two characters of id
func generateStoragePath(id uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	baseName = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(baseName)

	s := id.String()
	return fmt.Sprintf("%s/%s_%s%s", s[:2], s, baseName, ext)
}

// getContentType determines content type from filename
func getContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
