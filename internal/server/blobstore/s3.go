package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/muliswilliam/secureshare/internal/netx"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config carries the settings for an S3-compatible backend (AWS S3, MinIO).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
	// URLExpiration bounds how long an issued blob URL stays fetchable.
	// It must comfortably exceed the message expiry window.
	URLExpiration time.Duration
}

// S3Store implements BlobStore on an S3-compatible service. Uploaded blobs
// get a presigned GET URL so recipients can download the ciphertext directly,
// without the application proxying the bytes.
type S3Store struct {
	cfg        S3Config
	httpClient *http.Client
}

// NewS3Store constructs an S3-backed BlobStore.
func NewS3Store(cfg S3Config) *S3Store {
	if cfg.URLExpiration == 0 {
		cfg.URLExpiration = 7 * 24 * time.Hour
	}
	return &S3Store{cfg: cfg, httpClient: &http.Client{Timeout: 30 * time.Second}}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser,
			s.cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return client, nil
}

// storageKey builds a date-partitioned object key. The sender's file name is
// not part of the key: plaintext names must not leak into storage listings.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("blobs/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Upload stores the ciphertext and returns a presigned GET URL for it.
func (s *S3Store) Upload(ctx context.Context, data []byte, suggestedName string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.cfg.Bucket
	key := storageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("blob upload error: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.URLExpiration))
	if err != nil {
		return "", fmt.Errorf("blob presign error: %w", err)
	}

	return req.URL, nil
}

// Fetch downloads the ciphertext behind a previously issued URL.
func (s *S3Store) Fetch(ctx context.Context, url string) ([]byte, error) {
	return netx.FetchURL(ctx, s.httpClient, url)
}
