package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/utils"
)

// S3Config locates the bucket an export is published to
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // S3-compatible endpoint; empty = AWS
	AccessKeyID     string
	SecretAccessKey string
}

// Uploader is the part of the S3 upload manager the publisher uses
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Publisher uploads bundles to a bucket
type S3Publisher struct {
	cfg      S3Config
	uploader Uploader
	log      zerolog.Logger
}

// NewS3Publisher builds an AWS client from cfg. Static credentials are used
// when both keys are set, otherwise the default credential chain.
func NewS3Publisher(ctx context.Context, cfg S3Config, log zerolog.Logger) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("publish bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3PublisherWithUploader(cfg, manager.NewUploader(client), log), nil
}

// NewS3PublisherWithUploader creates a publisher over an existing uploader
func NewS3PublisherWithUploader(cfg S3Config, uploader Uploader, log zerolog.Logger) *S3Publisher {
	return &S3Publisher{
		cfg:      cfg,
		uploader: uploader,
		log:      log.With().Str("component", "s3_publisher").Logger(),
	}
}

// Key returns the object key for an exported path
func (p *S3Publisher) Key(filePath string) string {
	prefix := strings.Trim(p.cfg.Prefix, "/")
	if prefix == "" {
		return filePath
	}
	return path.Join(prefix, filePath)
}

// Publish uploads every file in b. The manifest goes last so it never names
// an object that is not there yet.
func (p *S3Publisher) Publish(ctx context.Context, b *Bundle) error {
	defer utils.OperationTimer("publish", p.log)()

	for _, f := range b.Files {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := p.Key(f.Path)
		_, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(p.cfg.Bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(f.Data),
			ContentType:  aws.String(f.ContentType),
			CacheControl: aws.String(cacheControl(f.Path)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		p.log.Debug().Str("key", key).Int("bytes", len(f.Data)).Msg("Uploaded object")
	}

	p.log.Info().
		Str("bucket", p.cfg.Bucket).
		Str("prefix", p.cfg.Prefix).
		Str("build_id", b.Manifest.BuildID).
		Int("files", len(b.Files)).
		Msg("Site published")
	return nil
}

func cacheControl(filePath string) string {
	if strings.HasSuffix(filePath, ".html") || filePath == ManifestPath {
		return "no-cache"
	}
	return "public, max-age=300"
}
