package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"data-france/core/storage"
	"data-france/core/storage/mocks"
)

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func artifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"latest", "latest/regions.csv.xz"},
		{"/2024-01/", "2024-01/regions.csv.xz"},
		{"", "regions.csv.xz"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			p := New(new(mocks.Client), storage.Config{Bucket: "data-france", Prefix: tt.prefix}, zap.NewNop())
			assert.Equal(t, tt.want, p.ObjectName("/tmp/build/regions.csv.xz"))
		})
	}
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	regions := artifact(t, dir, "regions.csv.xz", "xz")
	epci := artifact(t, dir, "epci.csv.xz", "epci!")

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "data-france").Return(true, nil)
	client.On("PutObject", mock.Anything, "data-france", "latest/regions.csv.xz", mock.Anything, int64(2),
		minio.PutObjectOptions{ContentType: "application/x-xz"}).Return(minio.UploadInfo{}, nil)
	client.On("PutObject", mock.Anything, "data-france", "latest/epci.csv.xz", mock.Anything, int64(5),
		minio.PutObjectOptions{ContentType: "application/x-xz"}).Return(minio.UploadInfo{}, nil)
	client.On("ListObjects", mock.Anything, "data-france",
		minio.ListObjectsOptions{Prefix: "latest/", Recursive: true}).
		Return(listing("latest/epci.csv.xz", "latest/old.csv.xz", "latest/regions.csv.xz"))
	client.On("RemoveObject", mock.Anything, "data-france", "latest/old.csv.xz", minio.RemoveObjectOptions{}).Return(nil)

	p := New(client, storage.Config{Bucket: "data-france", Prefix: "latest"}, zap.NewNop())
	report, err := p.Publish(context.Background(), regions, epci)
	require.NoError(t, err)

	assert.Equal(t, []string{"latest/regions.csv.xz", "latest/epci.csv.xz"}, report.Uploaded)
	assert.Equal(t, []string{"latest/old.csv.xz"}, report.Removed)
	client.AssertExpectations(t)
}

func TestPublishCreatesBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "data-france").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "data-france", minio.MakeBucketOptions{Region: "eu-west-3"}).Return(nil)
	client.On("ListObjects", mock.Anything, "data-france", mock.Anything).Return(listing())

	p := New(client, storage.Config{Bucket: "data-france", Prefix: "latest", Region: "eu-west-3"}, zap.NewNop())
	report, err := p.Publish(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Uploaded)
	client.AssertExpectations(t)
}

func TestPublishKeepsObjectsWhenUploadFails(t *testing.T) {
	dir := t.TempDir()
	regions := artifact(t, dir, "regions.csv", "id\n")

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "data-france").Return(true, nil)
	client.On("PutObject", mock.Anything, "data-france", "latest/regions.csv", mock.Anything, int64(3),
		minio.PutObjectOptions{ContentType: "text/csv"}).Return(minio.UploadInfo{}, errors.New("connection reset"))

	p := New(client, storage.Config{Bucket: "data-france", Prefix: "latest"}, zap.NewNop())
	_, err := p.Publish(context.Background(), regions)
	require.Error(t, err)

	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishBucketCheckFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "data-france").Return(false, errors.New("denied"))

	p := New(client, storage.Config{Bucket: "data-france"}, zap.NewNop())
	_, err := p.Publish(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket existence")
}
