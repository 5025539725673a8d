package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/balancesheet-pro/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryStorage) EnsureBucket(context.Context) error { return nil }

func (m *memoryStorage) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) Bucket() string { return "memory" }

func (m *memoryStorage) Close() error { return nil }

func TestPutJSONAndGetBytes(t *testing.T) {
	backend := newMemoryStorage()
	ctx := context.Background()

	require.NoError(t, PutJSON(ctx, backend, "statements/1/a.json", map[string]int{"count": 2}))
	assert.Equal(t, "application/json", backend.contentTypes["statements/1/a.json"])

	data, err := GetBytes(ctx, backend, "statements/1/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":2}`, string(data))

	_, err = GetBytes(ctx, backend, "statements/1/missing.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestPutJSONRejectsUnencodable(t *testing.T) {
	err := PutJSON(context.Background(), newMemoryStorage(), "bad.json", make(chan int))
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	backend, err := NewFromConfig(context.Background(), config.StorageConfig{Backend: config.BackendNone})
	require.NoError(t, err)
	assert.Nil(t, backend)

	_, err = NewFromConfig(context.Background(), config.StorageConfig{Backend: "s3"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), config.StorageConfig{
		Backend: config.BackendMinio,
		Minio:   config.MinioConfig{Endpoint: "localhost:9000", Bucket: "statements"},
	})
	assert.ErrorContains(t, err, "access key")
}
