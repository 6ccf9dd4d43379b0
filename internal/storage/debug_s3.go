package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// ObjectAPI is the subset of the S3 client the debug sink uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3DebugSink stores raw documents as objects under a prefix
type S3DebugSink struct {
	client ObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3DebugSink loads the default AWS configuration and builds an S3 client
func NewS3DebugSink(ctx context.Context, bucket, prefix, region string) (*S3DebugSink, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3DebugSinkWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3DebugSinkWithClient uses an existing client
func NewS3DebugSinkWithClient(client ObjectAPI, bucket, prefix string) *S3DebugSink {
	return &S3DebugSink{
		client: client,
		bucket: bucket,
		prefix: strings.TrimPrefix(prefix, "/"),
		now:    time.Now,
	}
}

// Save uploads document and returns its s3:// location
func (s *S3DebugSink) Save(ctx context.Context, matchID, document string) (string, error) {
	key := path.Join(s.prefix, captureName(matchID, s.now()))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(document),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"match-id": matchID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// List returns the captures of a match, newest first
func (s *S3DebugSink) List(ctx context.Context, matchID string) ([]models.DebugCapture, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(path.Join(s.prefix, capturePrefix(matchID))),
	}

	captures := []models.DebugCapture{}
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			captures = append(captures, models.DebugCapture{
				Name:       path.Base(key),
				Location:   fmt.Sprintf("s3://%s/%s", s.bucket, key),
				Size:       obj.Size,
				CapturedAt: aws.ToTime(obj.LastModified),
			})
		}
	}

	sort.Slice(captures, func(i, j int) bool {
		return captures[i].Name > captures[j].Name
	})
	return captures, nil
}
