package appconfig

import (
	"time"

	"zmbs.dev/eggseed/internal/app/appcontext"
)

type ConfigSpec struct {
	// DatasetSource is where the catalogue is read from: "embedded" for the dataset compiled into the
	// binary, or "file:<path>" (a bare path works too) for a dataset on disk.
	DatasetSource DatasetSource `required:"true" split_words:"true" default:"embedded"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty disables file logging.
	LogFile string `split_words:"true" default:"logs/eggseed.log"`

	// DevMode to indicate development mode. When true, logs are emitted at trace level.
	DevMode bool `split_words:"true"`

	// infrastructure components connection instructions

	// PostgresDSN is the data source name for the PostgreSQL database. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	// It is only needed by commands that touch the database.
	PostgresDSN string `split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// SeedConcurrency is the number of records the loader writes concurrently in its first pass.
	SeedConcurrency int `required:"true" split_words:"true" default:"4"`

	// SeedTxTimeout bounds the transaction of a single record.
	SeedTxTimeout time.Duration `required:"true" split_words:"true" default:"30s"`

	// MetricsTextfile is the node-exporter textfile the run metrics are written to at the end of a run.
	// Leaving this empty disables the metrics output.
	MetricsTextfile string `split_words:"true"`

	// SnapshotS3Bucket is the bucket `export --publish` uploads snapshots to.
	SnapshotS3Bucket string `split_words:"true"`

	// SnapshotS3Region is the region of SnapshotS3Bucket.
	SnapshotS3Region string `split_words:"true" default:"us-east-1"`

	// SnapshotS3Prefix is prepended to the snapshot keys, with no leading slash but optionally (typically)
	// with a trailing slash, e.g. "v1/".
	SnapshotS3Prefix string `split_words:"true"`

	// AWSAccessKey is the access key of the AWS account used to publish snapshots.
	AWSAccessKey string `split_words:"true"`

	// AWSSecretKey is the secret key of the AWS account used to publish snapshots.
	AWSSecretKey string `split_words:"true"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the context of the application.
	AppContext appcontext.Ctx
}
