package receipt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink is where a printed receipt is shared to. Put returns a location the
// user can open.
type Sink interface {
	Put(ctx context.Context, name string, doc Document) (string, error)
}

// LocalSink writes receipts into a directory.
type LocalSink struct {
	dir string
}

func NewLocalSink(dir string) (*LocalSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}
	return &LocalSink{dir: dir}, nil
}

func (s *LocalSink) Put(_ context.Context, name string, doc Document) (string, error) {
	path := filepath.Join(s.dir, fileName(name, doc))

	if err := os.WriteFile(path, doc.Data, 0644); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	return path, nil
}

type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// S3Sink uploads receipts to a bucket under the receipts/ prefix.
type S3Sink struct {
	client *s3.Client
	bucket string
}

func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3SinkWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket), nil
}

func NewS3SinkWithClient(client *s3.Client, bucket string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket}
}

func (s *S3Sink) Put(ctx context.Context, name string, doc Document) (string, error) {
	key := "receipts/" + fileName(name, doc)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc.Data),
		ContentType: aws.String(doc.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func fileName(name string, doc Document) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return "receipt_" + r.Replace(name) + doc.Ext
}
