// Package filestore archives committed upload files to S3 so the original
// bytes can be produced during reconciliation disputes. Archival is
// best-effort and strictly after commit: a failed upload never fails the
// commit that triggered it.
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	archivePrefix        = "uploads/"
	archiveDefaultRegion = "ap-south-1"
)

type Archiver struct {
	bucket string
	region string
}

// NewArchiverFromEnv returns nil when UPLOAD_ARCHIVE_BUCKET is unset, which
// disables archival entirely.
func NewArchiverFromEnv() *Archiver {
	bucket := strings.TrimSpace(os.Getenv("UPLOAD_ARCHIVE_BUCKET"))
	if bucket == "" {
		return nil
	}
	region := strings.TrimSpace(os.Getenv("UPLOAD_ARCHIVE_REGION"))
	if region == "" {
		region = archiveDefaultRegion
	}
	return &Archiver{bucket: bucket, region: region}
}

func sanitizePathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return replacer.Replace(s)
}

// buildKey namespaces objects by platform and keys them by content hash, so
// re-archival of the same bytes is idempotent.
func buildKey(platform, fileHash, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s%s/%s%s", archivePrefix, sanitizePathSegment(platform), fileHash, ext)
}

func detectContentType(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	if len(data) > 512 {
		return http.DetectContentType(data[:512])
	}
	return http.DetectContentType(data)
}

// ArchiveUpload pushes the original upload bytes to the archive bucket.
// Errors are logged, not returned; callers run this in a goroutine after
// the commit transaction has already succeeded.
func (a *Archiver) ArchiveUpload(platform, fileHash, filename string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(a.region))
	if err != nil {
		log.Printf("[ERROR] archive: load AWS config: %v", err)
		return
	}
	client := s3.NewFromConfig(cfg)

	key := buildKey(platform, fileHash, filename)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(detectContentType(data)),
	})
	if err != nil {
		log.Printf("[ERROR] archive: upload to s3 (bucket %s, key %s): %v", a.bucket, key, err)
		return
	}
	log.Printf("[INFO] archived %s upload %s as %s", platform, filename, key)
}
