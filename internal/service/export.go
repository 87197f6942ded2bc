package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"zmbs.dev/eggseed/internal/app/appconfig"
	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/observability"
	"zmbs.dev/eggseed/internal/pkg/publisher"
	"zmbs.dev/eggseed/internal/util/eggverifs"
)

const RealmEasterEggs = "easter_eggs"

func NewSnapshotPublisher(conf *appconfig.Config, client *s3.Client) *publisher.Publisher {
	return &publisher.Publisher{
		S3Client:  client,
		S3Bucket:  conf.SnapshotS3Bucket,
		S3Prefix:  conf.SnapshotS3Prefix,
		RealmName: RealmEasterEggs,
	}
}

type Export struct {
	Validation *Validation
	Publisher  *publisher.Publisher
}

func NewExport(validation *Validation, snapshotPublisher *publisher.Publisher) *Export {
	return &Export{
		Validation: validation,
		Publisher:  snapshotPublisher,
	}
}

// Snapshot encodes the accepted records of c in the canonical format.
func (s *Export) Snapshot(ctx context.Context, c *catalog.Catalog) ([]byte, *eggverifs.Report, error) {
	report := s.Validation.Validate(ctx, c)

	var buf bytes.Buffer
	if err := catalog.Encode(&buf, report.Accepted(c)); err != nil {
		return nil, report, err
	}
	return buf.Bytes(), report, nil
}

// StoreSnapshot encodes what store currently holds in the canonical format.
// With keys it encodes only those records, in the given order, and fails with
// seederr.ErrNotFound when one is missing.
func (s *Export) StoreSnapshot(ctx context.Context, store Store, keys ...model.Key) ([]byte, error) {
	var eggs []*model.EasterEgg
	if len(keys) == 0 {
		var err error
		eggs, err = store.ListEasterEggs(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list stored easter eggs")
		}
	}
	for _, key := range keys {
		egg, err := store.GetEasterEgg(ctx, key)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get %s", key)
		}
		eggs = append(eggs, egg)
	}

	var buf bytes.Buffer
	if err := catalog.Encode(&buf, eggs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Export) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}

	log.Info().
		Str("evt.name", "export.write").
		Str("path", path).
		Int("bytes", len(data)).
		Msg("snapshot written")
	return nil
}

func (s *Export) Publish(ctx context.Context, data []byte) ([]string, error) {
	keys, err := s.Publisher.Publish(ctx, data, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to publish snapshot")
	}
	observability.LastSuccess.WithLabelValues("export").SetToCurrentTime()
	return keys, nil
}
