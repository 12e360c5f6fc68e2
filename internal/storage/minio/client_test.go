package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	mu            sync.Mutex
	bucketExists  bool
	existsErr     error
	makeBucketErr error
	putErr        error
	removeErr     error

	madeBuckets []string
	putKeys     []string
	putTypes    []string
	removedKeys []string
}

func (f *fakeMinio) BucketExists(_ context.Context, bucketName string) (bool, error) {
	return f.bucketExists, f.existsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.makeBucketErr != nil {
		return f.makeBucketErr
	}
	f.madeBuckets = append(f.madeBuckets, bucketName)
	return nil
}

func (f *fakeMinio) PutObject(_ context.Context, _, objectName string, _ io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	f.putKeys = append(f.putKeys, objectName)
	f.putTypes = append(f.putTypes, opts.ContentType)
	return minio.UploadInfo{Key: objectName}, nil
}

func (f *fakeMinio) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedKeys = append(f.removedKeys, objectName)
	return nil
}

func TestNewClientWithAPI_CreatesMissingBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: false}

	_, err := NewClientWithAPI(context.Background(), api, "images", "localhost:9000", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"images"}, api.madeBuckets)
}

func TestNewClientWithAPI_SkipsExistingBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: true}

	_, err := NewClientWithAPI(context.Background(), api, "images", "localhost:9000", false)
	require.NoError(t, err)

	assert.Empty(t, api.madeBuckets)
}

func TestNewClientWithAPI_BucketCheckFailure(t *testing.T) {
	api := &fakeMinio{existsErr: errors.New("connection refused")}

	_, err := NewClientWithAPI(context.Background(), api, "images", "localhost:9000", false)
	assert.Error(t, err)
}

func TestClient_Put(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	client, err := NewClientWithAPI(context.Background(), api, "images", "localhost:9000", false)
	require.NoError(t, err)

	url, err := client.Put(context.Background(), "events", "ev-1",
		strings.NewReader("png bytes"), 9, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/images/images/events/ev-1", url)
	assert.Equal(t, []string{"images/events/ev-1"}, api.putKeys)
	assert.Equal(t, []string{"image/png"}, api.putTypes)
}

func TestClient_PutUsesHTTPSWhenSSL(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	client, err := NewClientWithAPI(context.Background(), api, "images", "cdn.example.com", true)
	require.NoError(t, err)

	url, err := client.Put(context.Background(), "promos", "pr-1",
		strings.NewReader("jpg bytes"), 9, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/images/images/promos/pr-1", url)
}

func TestClient_PutFailure(t *testing.T) {
	api := &fakeMinio{bucketExists: true, putErr: errors.New("quota exceeded")}
	client, err := NewClientWithAPI(context.Background(), api, "images", "localhost:9000", false)
	require.NoError(t, err)

	_, err = client.Put(context.Background(), "events", "ev-1",
		strings.NewReader("png bytes"), 9, "image/png")
	assert.Error(t, err)
}

func TestClient_Remove(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	client, err := NewClientWithAPI(context.Background(), api, "images", "localhost:9000", false)
	require.NoError(t, err)

	require.NoError(t, client.Remove(context.Background(), "events", "ev-1"))
	assert.Equal(t, []string{"images/events/ev-1"}, api.removedKeys)
}
