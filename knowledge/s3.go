package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Service.
type S3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Service keeps each collection under the "<collection>/" prefix of one
// bucket. Any S3-compatible store works, MinIO included.
type S3Service struct {
	client S3API
	bucket string
}

// NewS3Service builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewS3Service(ctx context.Context, cfg *Config) (*S3Service, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3ServiceWithClient(client, cfg.Bucket), nil
}

// NewS3ServiceWithClient wraps an existing client.
func NewS3ServiceWithClient(client S3API, bucket string) *S3Service {
	return &S3Service{client: client, bucket: bucket}
}

func (s *S3Service) List(ctx context.Context, collection string) ([]Document, error) {
	prefix := collection + "/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	docs := []Document{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			docs = append(docs, Document{
				FileName:   name,
				FileType:   FileType(name),
				Size:       aws.ToInt64(obj.Size),
				UploadedAt: aws.ToTime(obj.LastModified),
			})
		}
	}
	return docs, nil
}

func (s *S3Service) Upload(ctx context.Context, collection string, f File) error {
	if v := Validate(f); !v.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidFile, v.Reason)
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(collection, f.Name)),
		Body:   bytes.NewReader(f.Data),
	}
	if f.ContentType != "" {
		in.ContentType = aws.String(f.ContentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return nil
}

func (s *S3Service) Delete(ctx context.Context, collection string, names ...string) error {
	if len(names) == 0 {
		return nil
	}

	ids := make([]types.ObjectIdentifier, len(names))
	for i, name := range names {
		ids[i] = types.ObjectIdentifier{Key: aws.String(objectKey(collection, name))}
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("%w: %s: %s", ErrDeleteFailed, aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}

func objectKey(collection, name string) string {
	return path.Join(collection, path.Base(name))
}
