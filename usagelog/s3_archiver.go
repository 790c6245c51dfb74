package usagelog

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"battleroyale/capacity"
)

// S3API is the slice of the S3 client the archiver uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver copies each emitted usage record to an S3 bucket so the
// cost-analysis pipeline can consume records without tailing the log file.
type S3Archiver struct {
	Client S3API
	Bucket string
}

// NewS3Archiver builds an archiver for the given bucket.
func NewS3Archiver(ctx context.Context, region, bucket string) (*S3Archiver, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Archiver{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

// Archive stores one record under usage/<yyyy-mm-dd>/<request_id>.json.
func (a *S3Archiver) Archive(ctx context.Context, rec capacity.Record, body []byte) error {
	day := time.Now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("usage/%s/%s.json", day, rec.RequestID)

	_, err := a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put usage record to s3: %w", err)
	}
	return nil
}
