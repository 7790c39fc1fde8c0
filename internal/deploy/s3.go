package deploy

import (
	"context"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sukiejosh/vitedge/internal/config"
	"github.com/sukiejosh/vitedge/internal/errors"
)

// ObjectPutter is the slice of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader pushes a directory tree into an S3 bucket.
type Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) {
		u.logger = logger
	}
}

// New creates an uploader targeting bucket, with every key placed
// under prefix.
func New(client ObjectPutter, bucket, prefix string, opts ...Option) (*Uploader, error) {
	if bucket == "" {
		return nil, errors.New("E401").
			WithSuggestion("Set deploy.bucket in vitedge.json")
	}

	u := &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// NewFromConfig creates an uploader from the project configuration
// using the default AWS credential chain.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Uploader, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Deploy.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Deploy.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E401").Wrap(err)
	}

	return New(s3.NewFromConfig(awsCfg), cfg.Deploy.Bucket, cfg.Deploy.Prefix, opts...)
}

// UploadDir walks root and uploads every regular file, preserving the
// directory layout under the key prefix. It returns the number of
// uploaded files. The first failed put aborts the walk.
func (u *Uploader) UploadDir(ctx context.Context, root string) (int, error) {
	count := 0

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		key := path.Join(u.prefix, filepath.ToSlash(rel))

		if err := u.uploadFile(ctx, p, key); err != nil {
			return err
		}
		count++
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.Error); ok {
			return count, err
		}
		return count, errors.New("E402").Wrap(err)
	}

	u.logger.Info("upload complete", "bucket", u.bucket, "prefix", u.prefix, "files", count)
	return count, nil
}

func (u *Uploader) uploadFile(ctx context.Context, p, key string) error {
	f, err := os.Open(p)
	if err != nil {
		return errors.New("E402").WithDetail("Cannot read " + p).Wrap(err)
	}
	defer f.Close()

	u.logger.Debug("uploading", "key", key)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(p)),
	})
	if err != nil {
		return errors.New("E402").WithDetail("Upload failed for " + key).Wrap(err)
	}
	return nil
}

// contentType maps a file path to a MIME type, defaulting to
// application/octet-stream for unknown extensions.
func contentType(p string) string {
	if ct := mime.TypeByExtension(filepath.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
