// Package storage adapts the external media host: assets are pushed from
// local temp files and addressed afterward by their public URL, which embeds
// the object key.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
	maxBytes  int64
}

type Config struct {
	Endpoint       string
	PublicEndpoint string // Used for object URLs; falls back to Endpoint if empty
	Bucket         string
	AccessKey      string
	SecretKey      string
	Region         string
	MaxUploadBytes int64
}

// UploadResult describes an asset pushed to the media host. Key is the
// host's storage identifier; it is embedded in URL and recoverable with
// KeyFromURL. Duration is only set for video assets.
type UploadResult struct {
	Key      string
	URL      string
	Duration int
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Region == "" {
		cfg.Region = "eu-central-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	publicURL := cfg.Endpoint
	if cfg.PublicEndpoint != "" {
		publicURL = cfg.PublicEndpoint
	}

	return &Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		maxBytes:  cfg.MaxUploadBytes,
	}, nil
}

// Upload pushes the file at localPath to the media host and returns its
// public URL, storage key, and probed duration. An empty path yields
// (nil, nil). The local temp file is removed whether or not the push
// succeeds, bounding local disk growth.
func (s *Storage) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	if localPath == "" {
		return nil, nil
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("storage: failed to remove temp file", "path", localPath, "error", err)
		}
	}()

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("stat file %s: %w", localPath, err)
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return nil, fmt.Errorf("file too large: %d > %d", info.Size(), s.maxBytes)
	}

	ext := filepath.Ext(localPath)
	contentType := contentTypeForExt(ext)

	duration := 0
	if strings.HasPrefix(contentType, "video/") {
		duration = probeDuration(ctx, localPath)
	}

	key := "videos/" + uuid.NewString() + ext

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload object %s: %w", key, err)
	}

	return &UploadResult{
		Key:      key,
		URL:      s.ObjectURL(key),
		Duration: duration,
	}, nil
}

// ObjectURL builds the public path-style URL for a stored object.
func (s *Storage) ObjectURL(key string) string {
	return s.publicURL + "/" + s.bucket + "/" + key
}

// KeyFromURL recovers the storage identifier from a URL previously returned
// by Upload. This is the single canonical derivation: the URL path with the
// path-style bucket prefix stripped.
func (s *Storage) KeyFromURL(remoteURL string) (string, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", fmt.Errorf("parse object URL: %w", err)
	}
	key, found := strings.CutPrefix(u.Path, "/"+s.bucket+"/")
	if !found || key == "" {
		return "", fmt.Errorf("no storage identifier in URL %q", remoteURL)
	}
	return key, nil
}

// DeleteByURL removes the object a previous upload stored at remoteURL.
func (s *Storage) DeleteByURL(ctx context.Context, remoteURL string) error {
	key, err := s.KeyFromURL(remoteURL)
	if err != nil {
		return err
	}
	return s.DeleteObject(ctx, key)
}

func (s *Storage) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

func (s *Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}

	return nil
}

func contentTypeForExt(ext string) string {
	if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
		return ct
	}
	switch strings.ToLower(ext) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	default:
		return "application/octet-stream"
	}
}
