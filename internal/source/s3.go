package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"vladiate/internal/domain"
	"vladiate/internal/port"
)

const s3Scheme = "s3://"

// S3File reads an object from S3. The object is downloaded on first Open and
// replayed from memory afterwards.
type S3File struct {
	storage port.ObjectStorage
	bucket  string
	key     string

	mu   sync.Mutex
	data []byte
}

// NewS3File locates the object either by an s3://bucket/key path or by
// bucket and key; exactly one of the two forms must be given.
func NewS3File(storage port.ObjectStorage, path, bucket, key string) (*S3File, error) {
	if storage == nil {
		return nil, domain.ErrMissingCapability
	}

	switch {
	case path != "" && (bucket != "" || key != ""):
		return nil, fmt.Errorf("%w: give either a path or a bucket and key, not both", domain.ErrInvalidSourcePath)
	case path != "":
		var err error
		bucket, key, err = ParseS3Path(path)
		if err != nil {
			return nil, err
		}
	case bucket == "" || key == "":
		return nil, fmt.Errorf("%w: both bucket and key are required", domain.ErrInvalidSourcePath)
	}

	return &S3File{
		storage: storage,
		bucket:  bucket,
		key:     strings.TrimPrefix(key, "/"),
	}, nil
}

// ParseS3Path splits s3://bucket/key into its parts.
func ParseS3Path(path string) (bucket, key string, err error) {
	if !strings.HasPrefix(path, s3Scheme) {
		return "", "", fmt.Errorf("%w: %q does not start with %s", domain.ErrInvalidSourcePath, path, s3Scheme)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(path, s3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs both a bucket and a key", domain.ErrInvalidSourcePath, path)
	}
	return bucket, key, nil
}

func (f *S3File) Open(ctx context.Context) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.data == nil {
		data, err := f.storage.Download(ctx, f.bucket, f.key)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", f, err)
		}
		f.data = data
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func (f *S3File) String() string {
	return fmt.Sprintf("S3File('%s%s/%s')", s3Scheme, f.bucket, f.key)
}
