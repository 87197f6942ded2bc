// Package publisher uploads gzip-compressed catalogue snapshots to S3.
package publisher

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	FileExt         = ".json.gz"
	LatestName      = "latest"
	TimestampLayout = "20060102T150405Z"
)

var (
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrBucketMissing     = errors.New("snapshot bucket is not configured")
)

// ObjectAPI is the subset of *s3.Client the publisher needs.
type ObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Publisher struct {
	S3Client ObjectAPI
	S3Bucket string

	// S3Prefix is for the files in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "v1/" or simply "" (empty string)
	S3Prefix string

	RealmName string

	logger *zerolog.Logger
}

func (p *Publisher) initLogger() {
	if p.logger == nil {
		logger := log.With().
			Str("module", "publisher").
			Str("realm", p.RealmName).
			Logger()
		p.logger = &logger
	}
}

// SnapshotKey is the immutable key of the snapshot taken at t.
func (p *Publisher) SnapshotKey(t time.Time) string {
	return p.S3Prefix + p.RealmName + "/" + p.RealmName + "_" + t.UTC().Format(TimestampLayout) + FileExt
}

// LatestKey is overwritten by every publish.
func (p *Publisher) LatestKey() string {
	return p.S3Prefix + p.RealmName + "/" + LatestName + FileExt
}

// Publish gzips data and uploads it under both the snapshot key of t and the
// latest key. It refuses to overwrite an existing snapshot.
func (p *Publisher) Publish(ctx context.Context, data []byte, t time.Time) ([]string, error) {
	p.initLogger()

	if p.S3Bucket == "" {
		return nil, ErrBucketMissing
	}

	snapshotKey := p.SnapshotKey(t)
	if err := p.assertS3FileNonExistence(ctx, snapshotKey); err != nil {
		return nil, errors.Wrap(err, "failed to assertS3FileNonExistence")
	}
	p.logger.Trace().Str("key", snapshotKey).Msg("asserted S3 file non-existence")

	compressed, err := compress(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compress snapshot")
	}

	keys := []string{snapshotKey, p.LatestKey()}
	eg, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		eg.Go(func() error {
			return p.upload(ctx, key, compressed)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("evt.name", "publisher.publish").
		Strs("keys", keys).
		Int("bytes", len(compressed)).
		Msg("snapshot published")

	return keys, nil
}

func (p *Publisher) assertS3FileNonExistence(ctx context.Context, key string) error {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(p.S3Bucket),
		Key:    aws.String(key),
	}
	object, err := p.S3Client.HeadObject(ctx, input)
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			if ae.ErrorCode() == "NotFound" {
				return nil
			}
		}
		return errors.Wrap(err, "failed to invoke HeadObject")
	}
	return errors.Wrap(ErrFileAlreadyExists, fmt.Sprintf("file \"%s\" already exists in s3 with LastModified \"%s\"", key, object.LastModified))
}

func (p *Publisher) upload(ctx context.Context, key string, body []byte) error {
	if _, err := p.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(p.S3Bucket),
		Key:               aws.String(key),
		Body:              bytes.NewReader(body),
		ContentType:       aws.String("application/json"),
		ContentEncoding:   aws.String("gzip"),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}); err != nil {
		return errors.Wrapf(err, "failed to invoke PutObject for %s", key)
	}
	p.logger.Trace().Str("key", key).Msg("uploaded to S3")
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(data); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
