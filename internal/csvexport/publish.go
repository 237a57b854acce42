package csvexport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"vladiate/internal/domain"
	"vladiate/internal/port"
)

const s3Scheme = "s3://"

// Publish exports records for one vlad to out, which is either a local
// directory or an s3://bucket/prefix location. It returns where the report
// was written.
func Publish(ctx context.Context, storage port.ObjectStorage, out, vladName string, records []domain.FailureRecord) (string, error) {
	var buf bytes.Buffer
	if err := Export(&buf, records); err != nil {
		return "", fmt.Errorf("exporting %s: %w", vladName, err)
	}
	filename := BuildFilename(vladName)

	if !IsRemote(out) {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return "", fmt.Errorf("creating report directory: %w", err)
		}
		dest := filepath.Join(out, filename)
		if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
			return "", fmt.Errorf("writing report: %w", err)
		}
		return dest, nil
	}

	if storage == nil {
		return "", domain.ErrMissingCapability
	}
	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(out, s3Scheme), "/")
	if bucket == "" {
		return "", fmt.Errorf("%w: %q has no bucket", domain.ErrInvalidSourcePath, out)
	}
	key := path.Join(strings.Trim(prefix, "/"), filename)

	result, err := storage.Upload(ctx, port.UploadInput{
		Bucket:      bucket,
		Key:         key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: "text/csv; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("uploading report: %w", err)
	}
	if result.Location != "" {
		return result.Location, nil
	}
	return s3Scheme + bucket + "/" + key, nil
}

// IsRemote reports whether out names an S3 location.
func IsRemote(out string) bool {
	return strings.HasPrefix(out, s3Scheme)
}
