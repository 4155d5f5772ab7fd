package file

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
)

// Storage provides an S3-compatible storage backend using MinIO.
// Folder identifiers are object-key prefixes inside a single bucket.
// Transport-level failures are retried per the configured strategy;
// callers see only the final outcome.
type Storage struct {
	client     *minio.Client
	bucketName string
	strategy   retry.Strategy
}

// NewStorage creates a new Storage instance connected to the specified
// MinIO server. If the bucket does not exist, it will be created
// automatically.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, strategy retry.Strategy) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: bucketName,
		strategy:   strategy,
	}, nil
}

// objectKey joins a folder identifier and a folder-relative path into a
// bucket object key.
func objectKey(folderID, p string) string {
	return path.Join(folderID, strings.TrimPrefix(p, "/"))
}

// CountFiles returns the number of file entries directly under the given
// path inside the folder, non-recursive.
func (s *Storage) CountFiles(ctx context.Context, folderID, p string) (int, error) {
	prefix := objectKey(folderID, p)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	count := 0
	err := retry.Do(func() error {
		count = 0
		for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: false,
		}) {
			if obj.Err != nil {
				return obj.Err
			}
			// Common-prefix entries stand in for subfolders.
			if strings.HasSuffix(obj.Key, "/") {
				continue
			}
			count++
		}
		return nil
	}, s.strategy)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	return count, nil
}

// FetchToFile downloads the object at the folder-relative path into the
// given local destination, overwriting any previous contents.
func (s *Storage) FetchToFile(ctx context.Context, folderID, p, localDest string) error {
	key := objectKey(folderID, p)

	err := retry.Do(func() error {
		return s.client.FGetObject(ctx, s.bucketName, key, localDest, minio.GetObjectOptions{})
	}, s.strategy)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	return nil
}

// StoreFile uploads the local file into the root of the given folder and
// returns the stored path. On a name collision the object is renamed
// with a short unique suffix rather than overwritten.
func (s *Storage) StoreFile(ctx context.Context, localPath, folderID string) (string, error) {
	name := filepath.Base(localPath)
	key := objectKey(folderID, name)

	if _, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{}); err == nil {
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		key = objectKey(folderID, fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext))
	}

	err := retry.Do(func() error {
		_, putErr := s.client.FPutObject(ctx, s.bucketName, key, localPath, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		return putErr
	}, s.strategy)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}

	return key, nil
}
