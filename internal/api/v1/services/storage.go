package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"adaptive-reader/internal/config"
)

// ArtifactStore keeps files produced on behalf of clients, such as analysed
// texts saved on request
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (*Artifact, error)
}

// Artifact is a stored file
type Artifact struct {
	Name string `json:"name"`
	// Path is where the artifact lives: a file path or an object URL
	Path    string    `json:"path"`
	URL     string    `json:"url"`
	Size    int64     `json:"size"`
	SavedAt time.Time `json:"savedAt"`
}

// LocalArtifactStore writes artifacts into a directory served statically
type LocalArtifactStore struct {
	dir       string
	urlPrefix string
}

// NewLocalArtifactStore creates a store rooted at dir
func NewLocalArtifactStore(dir, urlPrefix string) *LocalArtifactStore {
	return &LocalArtifactStore{dir: dir, urlPrefix: urlPrefix}
}

// Save writes data to dir/name
func (s *LocalArtifactStore) Save(ctx context.Context, name string, data []byte, contentType string) (*Artifact, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir: %w", err)
	}

	filename := filepath.Base(name)
	fullPath, err := filepath.Abs(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artifact path: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	return &Artifact{
		Name:    filename,
		Path:    fullPath,
		URL:     path.Join(s.urlPrefix, filename),
		Size:    int64(len(data)),
		SavedAt: time.Now(),
	}, nil
}

// MinioArtifactStore implements ArtifactStore using MinIO
type MinioArtifactStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// NewMinioArtifactStore creates a MinIO client and makes sure the bucket exists
func NewMinioArtifactStore(ctx context.Context, cfg config.MinioConfig) (*MinioArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinioArtifactStore{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *MinioArtifactStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Save uploads data as an object under texts/
func (s *MinioArtifactStore) Save(ctx context.Context, name string, data []byte, contentType string) (*Artifact, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := path.Base(name)
	key := path.Join("texts", filename)
	savedAt := time.Now()

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"saved-at": savedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload artifact to MinIO: %w", err)
	}

	url := s.ObjectURL(key)
	return &Artifact{
		Name:    filename,
		Path:    url,
		URL:     url,
		Size:    int64(len(data)),
		SavedAt: savedAt,
	}, nil
}

// ObjectURL returns the URL for accessing an object
func (s *MinioArtifactStore) ObjectURL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, key)
}

// NewArtifactStore picks the backend named in cfg
func NewArtifactStore(ctx context.Context, cfg config.ArtifactsConfig, paths config.PathsConfig) (ArtifactStore, error) {
	switch cfg.Backend {
	case "minio":
		return NewMinioArtifactStore(ctx, cfg.Minio)
	case "", "local":
		return NewLocalArtifactStore(paths.SavedTextDir, paths.SavedURLPrefix), nil
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
	}
}
