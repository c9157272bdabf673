package storage_test

import (
	"context"
	"errors"
	"testing"

	"catalog-sync/core/storage"
	"catalog-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "exports").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "exports", ""))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "exports").Return(false, nil)
		m.On("MakeBucket", mock.Anything, "exports", minio.MakeBucketOptions{Region: "eu"}).Return(nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "exports", "eu"))
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "exports").Return(false, errors.New("denied"))

		err := storage.EnsureBucket(ctx, m, "exports", "")
		assert.ErrorContains(t, err, "denied")
	})
}

func TestUploadAndList(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)

	m.On("PutObject", mock.Anything, "exports", "a.csv", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{Key: "a.csv", Size: 3}, nil)

	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "exports/a.csv"}
	ch <- minio.ObjectInfo{Key: "exports/b.json"}
	close(ch)
	m.On("ListObjects", mock.Anything, "exports", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	info, err := storage.Upload(ctx, m, "exports", "a.csv", "text/csv", []byte("a,b"))
	require.NoError(t, err)
	assert.Equal(t, "a.csv", info.Key)

	keys, err := storage.List(ctx, m, "exports", "exports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/a.csv", "exports/b.json"}, keys)
}
