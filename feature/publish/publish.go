package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"data-france/core/storage"
)

// Report lists what a publication changed in the bucket.
type Report struct {
	Uploaded []string `json:"uploaded"`
	Removed  []string `json:"removed"`
}

// Publisher uploads committed artifacts under a release prefix.
type Publisher struct {
	client storage.Client
	bucket string
	prefix string
	region string
	logger *zap.Logger
}

// New creates a publisher writing to the bucket and prefix of cfg.
func New(client storage.Client, cfg storage.Config, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		region: cfg.Region,
		logger: logger,
	}
}

// ObjectName returns the key an artifact file is published under.
func (p *Publisher) ObjectName(file string) string {
	if p.prefix == "" {
		return filepath.Base(file)
	}
	return path.Join(p.prefix, filepath.Base(file))
}

// EnsureBucket creates the bucket when it does not exist.
func (p *Publisher) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	p.logger.Info("Created bucket", zap.String("bucket", p.bucket))
	return nil
}

// Publish uploads files, then removes the objects of the prefix that were not part of
// this publication. Nothing is removed when an upload fails.
func (p *Publisher) Publish(ctx context.Context, files ...string) (*Report, error) {
	if err := p.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	report := &Report{}
	published := make(map[string]bool, len(files))
	for _, file := range files {
		name := p.ObjectName(file)
		if err := p.upload(ctx, file, name); err != nil {
			p.logger.Error("Failed to upload artifact", zap.String("object", name), zap.Error(err))
			return report, err
		}
		published[name] = true
		report.Uploaded = append(report.Uploaded, name)
		p.logger.Info("Uploaded artifact", zap.String("object", name))
	}

	stale, err := p.stale(ctx, published)
	if err != nil {
		return report, err
	}
	for _, name := range stale {
		if err := p.client.RemoveObject(ctx, p.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			return report, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		report.Removed = append(report.Removed, name)
		p.logger.Info("Removed stale object", zap.String("object", name))
	}

	return report, nil
}

func (p *Publisher) upload(ctx context.Context, file, name string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = p.client.PutObject(ctx, p.bucket, name, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(file),
	})
	return err
}

// stale lists the objects under the prefix missing from published, in key order.
func (p *Publisher) stale(ctx context.Context, published map[string]bool) ([]string, error) {
	opts := minio.ListObjectsOptions{Recursive: true}
	if p.prefix != "" {
		opts.Prefix = p.prefix + "/"
	}

	var out []string
	for obj := range p.client.ListObjects(ctx, p.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", p.bucket, obj.Err)
		}
		if !published[obj.Key] {
			out = append(out, obj.Key)
		}
	}
	sort.Strings(out)
	return out, nil
}

func contentType(file string) string {
	if strings.HasSuffix(file, ".xz") {
		return "application/x-xz"
	}
	return "text/csv"
}
