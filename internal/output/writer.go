package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	awsinternal "costwatch/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/schollz/progressbar/v3"
)

const (
	defaultMaxRetries        = 3
	defaultRetryDelay        = 2 * time.Second
	defaultPartSize          = 5 * 1024 * 1024 // 5MB
	defaultConcurrentUploads = 5
)

// RetryConfig holds retry configuration for S3 uploads. The fetch path has
// no retries; this applies to the upload side only.
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// UploadConfig holds S3 upload configuration
type UploadConfig struct {
	PartSize        int64
	ConcurrentParts int
}

// Type represents the output destination
type Type string

const (
	// FileSystem represents local filesystem output
	FileSystem Type = "filesystem"
	// S3 represents S3 bucket output
	S3 Type = "s3"
)

// Config holds output configuration
type Config struct {
	Type      Type
	OutputDir string
	S3Bucket  string
	S3Region  string
	Profile   string
	Retry     *RetryConfig
	Upload    *UploadConfig
}

// Writer persists cost reports to the configured destination
type Writer struct {
	config Config
}

// NewWriter creates a new report writer with default settings
func NewWriter(config Config) *Writer {
	if config.Retry == nil {
		config.Retry = &RetryConfig{
			MaxRetries: defaultMaxRetries,
			RetryDelay: defaultRetryDelay,
		}
	}
	if config.Upload == nil {
		config.Upload = &UploadConfig{
			PartSize:        defaultPartSize,
			ConcurrentParts: defaultConcurrentUploads,
		}
	}
	if config.Type == FileSystem && config.OutputDir == "" {
		config.OutputDir = "reports"
	}
	return &Writer{config: config}
}

// fileName returns the report file name for a billing period
func fileName(period string) string {
	return fmt.Sprintf("cost-report-%s.json", period)
}

// Path returns where the report for the given billing period is written
func (w *Writer) Path(period string) string {
	if w.config.Type == FileSystem {
		return filepath.Join(w.config.OutputDir, fileName(period))
	}
	return fileName(period)
}

// Write serializes the report with two-space indentation and writes it
// under the billing-period file name. One file per invocation; a later run
// in the same period overwrites it.
func (w *Writer) Write(period string, report interface{}) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := w.Path(period)

	switch w.config.Type {
	case FileSystem:
		return path, w.writeToFileSystem(path, data)
	case S3:
		return path, w.writeToS3WithRetry(path, data)
	default:
		return "", fmt.Errorf("unsupported output type: %s", w.config.Type)
	}
}

// writeToFileSystem writes the report to the local filesystem, creating
// the reports directory if absent
func (w *Writer) writeToFileSystem(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

// writeToS3WithRetry uploads the report to S3 with bounded retries
func (w *Writer) writeToS3WithRetry(path string, data []byte) error {
	if w.config.S3Bucket == "" {
		return fmt.Errorf("S3 bucket not specified")
	}

	var lastErr error
	for attempt := 0; attempt < w.config.Retry.MaxRetries; attempt++ {
		if attempt > 0 {
			fmt.Printf("Retrying S3 upload (attempt %d/%d) after error: %v\n",
				attempt+1, w.config.Retry.MaxRetries, lastErr)
			time.Sleep(w.config.Retry.RetryDelay)
		}

		if err := w.writeToS3(path, data); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to upload to S3 after %d attempts: %w",
		w.config.Retry.MaxRetries, lastErr)
}

// writeToS3 uploads the report with progress tracking
func (w *Writer) writeToS3(path string, data []byte) error {
	sess, err := awsinternal.NewSession(w.config.Profile, w.config.S3Region)
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}

	uploader := s3manager.NewUploader(sess, func(u *s3manager.Uploader) {
		u.PartSize = w.config.Upload.PartSize
		u.Concurrency = w.config.Upload.ConcurrentParts
	})

	reader := &progressReader{
		reader: bytes.NewReader(data),
		bar: progressbar.NewOptions64(
			int64(len(data)),
			progressbar.OptionSetDescription("Uploading report to S3..."),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(15),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		),
	}

	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket:               aws.String(w.config.S3Bucket),
		Key:                  aws.String(path),
		Body:                 reader,
		ServerSideEncryption: aws.String("aws:kms"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// progressReader wraps an io.Reader to track upload progress
type progressReader struct {
	reader io.Reader
	bar    *progressbar.ProgressBar
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if barErr := r.bar.Add(n); barErr != nil {
		fmt.Fprintf(os.Stderr, "Error updating progress bar: %v\n", barErr)
	}
	return n, err
}
