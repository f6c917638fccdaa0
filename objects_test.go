package s3namic

import (
	"context"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyoj0942/s3namic/errors"
	"github.com/hyoj0942/s3namic/internal/testutil"
)

func TestPutAndGet(t *testing.T) {
	bucket := testutil.NewFakeBucket()
	client := NewWithClient("test-bucket", bucket)

	err := client.Put(context.Background(), "docs/note.txt", []byte("hello"))
	require.NoError(t, err)

	data, err := client.Get(context.Background(), "docs/note.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestGetMissing(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	_, err := client.Get(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.True(t, errors.IsObjectNotFound(err))
}

func TestGetInvalidKey(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	tests := []struct {
		name string
		key  string
	}{
		{name: "empty key", key: ""},
		{name: "path traversal", key: "a/../../etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Get(context.Background(), tt.key)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
		})
	}
}

func TestDelete(t *testing.T) {
	bucket := testutil.NewFakeBucket().Seed("gone.txt", []byte("x"))
	client := NewWithClient("test-bucket", bucket)

	require.NoError(t, client.Delete(context.Background(), "gone.txt"))

	exists, err := client.Exists(context.Background(), "gone.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is not an error.
	assert.NoError(t, client.Delete(context.Background(), "gone.txt"))
}

func TestExists(t *testing.T) {
	bucket := testutil.NewFakeBucket().Seed("here.txt", []byte("x"))
	client := NewWithClient("test-bucket", bucket)

	exists, err := client.Exists(context.Background(), "here.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.Exists(context.Background(), "elsewhere.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMetadata(t *testing.T) {
	bucket := testutil.NewFakeBucket().Seed("meta.txt", []byte("12345"))
	client := NewWithClient("test-bucket", bucket)

	meta, err := client.Metadata(context.Background(), "meta.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), meta.ContentLength)
	assert.NotEmpty(t, meta.ETag)

	_, err = client.Metadata(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.True(t, errors.IsObjectNotFound(err))
}

func TestPresignURL(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	var gotExpiry time.Duration
	client.setPresignClient(&testutil.MockPresignClient{
		PresignGetObjectFunc: func(
			_ context.Context,
			params *s3.GetObjectInput,
			optFns ...func(*s3.PresignOptions),
		) (*v4.PresignedHTTPRequest, error) {
			opts := s3.PresignOptions{}
			for _, fn := range optFns {
				fn(&opts)
			}
			gotExpiry = opts.Expires
			return &v4.PresignedHTTPRequest{URL: "https://example.com/signed"}, nil
		},
	})

	url, err := client.PresignURL(context.Background(), "file.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/signed", url)
	assert.Equal(t, DefaultPresignExpiry, gotExpiry, "zero expiry falls back to the default")

	_, err = client.PresignURL(context.Background(), "file.txt", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, gotExpiry)
}

func TestPresignURLWithoutPresignSupport(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())

	_, err := client.PresignURL(context.Background(), "file.txt", time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestUploadAndDownloadFile(t *testing.T) {
	bucket := testutil.NewFakeBucket()
	client := NewWithClient("test-bucket", bucket)

	memFS := billy.NewInMemoryFS()
	client.setFilesystem(memFS)
	require.NoError(t, memFS.WriteFile("/local.csv", []byte("id,name\n1,a\n"), 0o644))

	err := client.UploadFile(context.Background(), "remote/data.csv", "/local.csv")
	require.NoError(t, err)

	stored, err := client.Get(context.Background(), "remote/data.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("id,name\n1,a\n"), stored)

	err = client.DownloadFile(context.Background(), "remote/data.csv", "/copy.csv")
	require.NoError(t, err)

	copied, err := memFS.ReadFile("/copy.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("id,name\n1,a\n"), copied)
}

func TestUploadFileMissingLocal(t *testing.T) {
	client := NewWithClient("test-bucket", testutil.NewFakeBucket())
	client.setFilesystem(billy.NewInMemoryFS())

	err := client.UploadFile(context.Background(), "remote/data.csv", "/absent.csv")
	assert.Error(t, err)
}
