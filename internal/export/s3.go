package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const snapshotContentType = "application/x-ndjson"

// S3Destination uploads plan snapshots to an S3-compatible bucket. Every
// export replaces the object at the configured key and also writes a dated
// sibling, so the latest snapshot has a stable address while earlier ones
// remain retrievable.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
	now    func() time.Time
}

// NewS3Destination creates an S3 destination for plan snapshots. A non-empty
// endpoint switches to path-style addressing, which MinIO and other
// S3-compatible stores require.
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(cfg, s3opts...),
		bucket: bucket,
		key:    key,
		now:    time.Now,
	}, nil
}

// Write uploads the snapshot twice: at the stable key and at a dated key.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	if err := d.put(ctx, d.key, data); err != nil {
		return fmt.Errorf("upload plan snapshot %q: %w", d.key, err)
	}
	dated := datedKey(d.key, d.now().UTC())
	if err := d.put(ctx, dated, data); err != nil {
		return fmt.Errorf("upload plan snapshot %q: %w", dated, err)
	}
	return nil
}

func (d *S3Destination) put(ctx context.Context, key string, data []byte) error {
	contentType := snapshotContentType
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	return err
}

// datedKey inserts a UTC timestamp before the key's extension:
// forge/plans.jsonl becomes forge/plans-20260827T093000Z.jsonl.
func datedKey(key string, t time.Time) string {
	ext := path.Ext(key)
	stamp := t.Format("20060102T150405Z")
	return strings.TrimSuffix(key, ext) + "-" + stamp + ext
}
