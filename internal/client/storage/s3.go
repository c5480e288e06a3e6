// Package storage uploads hoagie pictures to an S3-compatible bucket so a
// local image file can be used as a hoagie's picture URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/hoagie/internal/client/config"
)

// PresignExpiry is how long a presigned picture URL stays valid.
const PresignExpiry = 7 * 24 * time.Hour

var ErrNotConfigured = errors.New("picture storage is not configured")

// PictureUploader turns a local image file into a URL the backend can store.
type PictureUploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

type putAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
)

type S3Uploader struct {
	bucket        string
	publicBaseURL string
	put           putAPI
	presign       presignAPI
	now           func() time.Time
	newID         func() string
}

// NewS3Uploader builds an uploader from cfg. Static credentials are used when
// both keys are set, the default AWS chain otherwise. A custom endpoint
// switches to path-style addressing, which MinIO needs.
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newUploader(cfg, client, newS3PresignClient(client)), nil
}

func newUploader(cfg config.StorageConfig, put putAPI, presign presignAPI) *S3Uploader {
	return &S3Uploader{
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		put:           put,
		presign:       presign,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// ObjectKey is hoagies/YYYY/MM/DD/<id><ext> with a lowercased extension.
func ObjectKey(t time.Time, id, ext string) string {
	return fmt.Sprintf("hoagies/%04d/%02d/%02d/%s%s", t.Year(), t.Month(), t.Day(), id, strings.ToLower(ext))
}

// ContentType guesses the MIME type from the file extension.
func ContentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload stores the file at path and returns its URL.
func (u *S3Uploader) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open picture: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat picture: %w", err)
	}
	if st.IsDir() {
		return "", fmt.Errorf("picture %s is a directory", path)
	}

	key := ObjectKey(u.now().UTC(), u.newID(), filepath.Ext(path))
	_, err = u.put.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(st.Size()),
		ContentType:   aws.String(ContentType(path)),
	})
	if err != nil {
		return "", fmt.Errorf("upload picture: %w", err)
	}

	return u.URL(ctx, key)
}

// URL is the public address of key, or a presigned GET when no public base
// URL is configured.
func (u *S3Uploader) URL(ctx context.Context, key string) (string, error) {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key, nil
	}
	req, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign picture: %w", err)
	}
	return req.URL, nil
}
