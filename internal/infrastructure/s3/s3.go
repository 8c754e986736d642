package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"file-storage-api/config"
	"file-storage-api/internal/application/ports"
)

// Client stores blobs as objects in a single bucket. Object keys are the blob
// names, optionally under a fixed prefix.
type Client struct {
	logger *zap.Logger
	api    *s3.Client
	region string
	bucket string
	prefix string
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info("s3 client ready",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint),
	)

	return NewWithAPI(logger, api, cfg), nil
}

// NewWithAPI wraps an already configured SDK client.
func NewWithAPI(logger *zap.Logger, api *s3.Client, cfg config.S3) *Client {
	return &Client{
		logger: logger,
		api:    api,
		region: cfg.Region,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}
}

func (c *Client) key(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty blob name")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	if c.prefix == "" {
		return name, nil
	}
	return c.prefix + "/" + name, nil
}

func (c *Client) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	key, err := c.key(name)
	if err != nil {
		return 0, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}
	if _, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}); err != nil {
		return 0, fmt.Errorf("put object: %w", err)
	}

	return int64(len(data)), nil
}

// Stat reports objects as regular files; S3 has no directories to confuse
// them with.
func (c *Client) Stat(ctx context.Context, name string) (ports.BlobStat, error) {
	key, err := c.key(name)
	if err != nil {
		return ports.BlobStat{}, err
	}

	_, err = c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if isNotFound(err) {
		return ports.BlobStat{}, nil
	}
	if err != nil {
		return ports.BlobStat{}, fmt.Errorf("head object: %w", err)
	}

	return ports.BlobStat{Exists: true, Regular: true}, nil
}

func (c *Client) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key, err := c.key(name)
	if err != nil {
		return nil, err
	}

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}

	return out.Body, nil
}

func (c *Client) Delete(ctx context.Context, name string) error {
	key, err := c.key(name)
	if err != nil {
		return err
	}

	if _, err = c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}

func (c *Client) Status(ctx context.Context) ports.StorageStatus {
	st := ports.StorageStatus{Location: c.Location()}

	if _, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		c.logger.Warn("s3 bucket check failed", zap.String("bucket", c.bucket), zap.Error(err))
		return st
	}
	st.Exists = true
	st.IsDir = true

	return st
}

func (c *Client) Location() string {
	if c.prefix == "" {
		return fmt.Sprintf("s3://%s", c.bucket)
	}
	return fmt.Sprintf("s3://%s/%s", c.bucket, c.prefix)
}

func (c *Client) GetBucket() string { return c.bucket }

func isNotFound(err error) bool {
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
