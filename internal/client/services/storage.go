package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/registo/internal/netx"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const defaultURLValidity = 15 * time.Minute

var ErrStorageNotConfigured = errors.New("object storage not configured")

type S3Options struct {
	Region          string
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool
	URLValidity     time.Duration
}

// S3Storage uploads export files to an S3-compatible bucket through
// presigned URLs and hands back a time-limited download link.
type S3Storage struct {
	opts       S3Options
	httpClient *http.Client
	now        func() time.Time
}

func NewS3Storage(opts S3Options, httpClient *http.Client) *S3Storage {
	if opts.URLValidity <= 0 {
		opts.URLValidity = defaultURLValidity
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	return &S3Storage{opts: opts, httpClient: httpClient, now: time.Now}
}

func (s *S3Storage) Configured() bool {
	return s != nil && s.opts.Bucket != ""
}

// ObjectKey places name under the prefix, partitioned by day.
func (s *S3Storage) ObjectKey(name string) string {
	d := s.now()
	return path.Join(s.opts.Prefix, fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()), uuid.NewString()+"-"+name)
}

func (s *S3Storage) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	optFns := []func(*config.LoadOptions) error{config.WithRegion(s.opts.Region)}
	if s.opts.AccessKeyID != "" {
		optFns = append(optFns, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.AccessKeyID,
			s.opts.SecretAccessKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
		}
		o.UsePathStyle = s.opts.UsePathStyle
	})

	return newS3PresignClient(client), nil
}

// Upload stores body under a fresh key and returns a presigned GET URL.
func (s *S3Storage) Upload(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	if !s.Configured() {
		return "", ErrStorageNotConfigured
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.opts.Bucket
	key := s.ObjectKey(name)

	put, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.opts.URLValidity))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.httpClient, put.URL, body, contentType); err != nil {
		return "", err
	}

	get, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.opts.URLValidity))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}

	return get.URL, nil
}
