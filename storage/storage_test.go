package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm9657/jwk-vault/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryKVConditionalCreate(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, err := kv.Get(ctx, "alice")
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)

	stored, err := kv.PutIfAbsent(ctx, "alice", []byte("first"))
	require.NoError(t, err)
	assert.True(t, stored)

	// The losing write must not overwrite.
	stored, err = kv.PutIfAbsent(ctx, "alice", []byte("second"))
	require.NoError(t, err)
	assert.False(t, stored)

	value, err := kv.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), value)

	require.NoError(t, kv.Delete(ctx, "alice"))
	require.NoError(t, kv.Delete(ctx, "alice"))
	_, err = kv.Get(ctx, "alice")
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)
}

func TestFileKVConditionalCreate(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileKV(t.TempDir(), testLogger())
	require.NoError(t, err)

	stored, err := kv.PutIfAbsent(ctx, "alice", []byte("first"))
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = kv.PutIfAbsent(ctx, "alice", []byte("second"))
	require.NoError(t, err)
	assert.False(t, stored)

	value, err := kv.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), value)

	require.NoError(t, kv.Delete(ctx, "alice"))
	require.NoError(t, kv.Delete(ctx, "alice"))
	_, err = kv.Get(ctx, "alice")
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)

	assert.True(t, kv.Available(ctx))
}

func TestFileDistribution(t *testing.T) {
	ctx := context.Background()
	dist, err := NewFileDistribution(t.TempDir(), testLogger())
	require.NoError(t, err)

	require.NoError(t, dist.Put(ctx, "jwk/alice", []byte(`{"kty":"EC"}`), "application/json"))
	require.NoError(t, dist.Put(ctx, "jwk/spki/alice", []byte("-----BEGIN PUBLIC KEY-----"), "application/x-pem-file"))

	require.NoError(t, dist.Delete(ctx, "jwk/alice"))
	require.NoError(t, dist.Delete(ctx, "jwk/alice"))
	require.NoError(t, dist.Delete(ctx, "jwk/spki/alice"))
}

func TestFactoryKVStoreSchemes(t *testing.T) {
	factory := NewFactory(testLogger())

	kv, err := factory.KVStoreFor("mem://")
	require.NoError(t, err)
	assert.Equal(t, "memory-kv", kv.Name())

	kv, err = factory.KVStoreFor("file://" + t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, kv.Name(), "file-kv")

	kv, err = factory.KVStoreFor("redis://localhost:6379/2?prefix=jwk")
	require.NoError(t, err)
	assert.Equal(t, "redis-localhost:6379", kv.Name())

	kv, err = factory.KVStoreFor("vault://vault.example.com:8200/secret/jwk-records?token=abc")
	require.NoError(t, err)
	assert.Equal(t, "vault-secret", kv.Name())

	_, err = factory.KVStoreFor("s3://bucket")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.KVStoreFor("redis://localhost:6379/notanumber")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.KVStoreFor("vault://vault.example.com:8200/secret")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestFactoryDistributionStoreSchemes(t *testing.T) {
	factory := NewFactory(testLogger())

	dist, err := factory.DistributionStoreFor("mem://")
	require.NoError(t, err)
	assert.Equal(t, "memory-distribution", dist.Name())

	dist, err = factory.DistributionStoreFor("file://" + t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, dist.Name(), "file-distribution")

	dist, err = factory.DistributionStoreFor("s3://my-bucket/jwk?region=eu-central-1")
	require.NoError(t, err)
	assert.Equal(t, "s3-my-bucket", dist.Name())

	dist, err = factory.DistributionStoreFor("ipfs://ipfs.example.com:5001/jwk")
	require.NoError(t, err)
	assert.Equal(t, "ipfs-ipfs.example.com", dist.Name())

	_, err = factory.DistributionStoreFor("redis://localhost:6379")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}
