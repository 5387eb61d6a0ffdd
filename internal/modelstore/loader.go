package modelstore

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chrisdamba/traveltime/internal/models"
)

// Loader reads a model artifact from persistent storage.
type Loader interface {
	Load(ctx context.Context) (Model, error)
}

type FileLoader struct {
	Path string
}

func (l *FileLoader) Load(ctx context.Context) (Model, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", l.Path, err)
	}
	defer f.Close()

	m, err := DecodeLinearModel(f)
	if err != nil {
		return nil, fmt.Errorf("decode model %s: %w", l.Path, err)
	}
	return m, nil
}

// S3API is the subset of the S3 client used by S3Loader.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Loader struct {
	client S3API
	bucket string
	key    string
}

func NewS3Loader(ctx context.Context, region, bucket, key string) (*S3Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

func NewS3LoaderWithClient(client S3API, bucket, key string) *S3Loader {
	return &S3Loader{client: client, bucket: bucket, key: key}
}

func (l *S3Loader) Load(ctx context.Context) (Model, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to download s3://%s/%s: %w", l.bucket, l.key, err)
	}
	defer out.Body.Close()

	m, err := DecodeLinearModel(out.Body)
	if err != nil {
		return nil, fmt.Errorf("decode s3://%s/%s: %w", l.bucket, l.key, err)
	}
	return m, nil
}

// NewLoader picks the loader named by cfg.ModelSource.
func NewLoader(ctx context.Context, cfg *models.Config) (Loader, error) {
	switch cfg.ModelSource {
	case "", "local":
		path := cfg.ModelPath
		if path == "" {
			path = models.DefaultModelPath
		}
		return &FileLoader{Path: path}, nil
	case "s3":
		if cfg.ModelBucket == "" || cfg.ModelKey == "" {
			return nil, fmt.Errorf("model_bucket and model_key are required for s3 model source")
		}
		return NewS3Loader(ctx, cfg.AWSRegion, cfg.ModelBucket, cfg.ModelKey)
	default:
		return nil, fmt.Errorf("unsupported model source: %s", cfg.ModelSource)
	}
}
