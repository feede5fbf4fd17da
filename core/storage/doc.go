// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the few operations needed to publish a dataset
// release: checking and creating the bucket, uploading artifacts, listing a release
// prefix and removing stale objects. It supports both AWS S3 and self-hosted MinIO.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "data-france")
package storage
