package r2

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	conf "github.com/trunov/catalogpix/internal/config"
)

type S3 struct {
	AccountID          string
	Bucket             string
	Region             string // usually "auto" for R2
	AwsAccessKeyId     string
	AwsSecretAccessKey string
	PublicBaseURL      string

	MaxRetries     int
	RetryBaseDelay time.Duration

	S3Client *s3.Client
	Uploader *manager.Uploader
}

func NewStorage(cfg *conf.R2Config) (*S3, error) {
	r2c := &S3{
		AccountID:          cfg.AccountID,
		Bucket:             cfg.BucketName,
		Region:             "auto",
		AwsAccessKeyId:     cfg.AccessKeyID,
		AwsSecretAccessKey: cfg.SecretKey,
		PublicBaseURL:      strings.TrimRight(cfg.PublicBaseURL, "/"),
		MaxRetries:         3,
		RetryBaseDelay:     300 * time.Millisecond,
	}
	if err := r2c.init(); err != nil {
		return nil, err
	}
	return r2c, nil
}

func (s *S3) init() error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AwsAccessKeyId, s.AwsSecretAccessKey, "",
		)),
		config.WithRegion(s.Region),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	s.S3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.AccountID))
		o.UsePathStyle = true
	})
	s.Uploader = manager.NewUploader(s.S3Client)

	return nil
}

// ObjectKey builds the deterministic target path for one variant:
// {profile}/{baseName}_{profile}{ext}. Re-ingesting the same content
// lands on the same key, so uploads overwrite instead of piling up.
func ObjectKey(profile, baseName, ext string) string {
	return fmt.Sprintf("%s/%s_%s%s", profile, baseName, profile, ext)
}

// Upload puts one encoded buffer under key, retrying transient failures
// with exponential backoff and jitter. PutObject overwrites an existing
// key, which is exactly the idempotence the pipeline relies on.
func (s *S3) Upload(ctx context.Context, key string, contentType string, payload []byte) error {
	var err error
	for attempt := 1; ; attempt++ {
		_, err = s.Uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(payload),
			ContentType: aws.String(contentType),
		})
		if err == nil {
			return nil
		}
		if attempt > s.MaxRetries || ctx.Err() != nil {
			return fmt.Errorf("upload %q after %d attempts: %w", key, attempt, err)
		}

		timer := time.NewTimer(s.backoffDelay(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// PublicURL returns the public-read URL for an uploaded key.
func (s *S3) PublicURL(key string) string {
	return s.PublicBaseURL + "/" + key
}

func (s *S3) backoffDelay(attempt int) time.Duration {
	delay := s.RetryBaseDelay << (attempt - 1)
	jitter := time.Duration(int64(delay) / 10)
	return delay - (jitter / 2) + time.Duration(int64(jitter)*time.Now().UnixNano()%2)
}
