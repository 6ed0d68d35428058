package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/visualminds/core"
	inmemkv "github.com/trezcool/visualminds/storage/kv/inmem"
)

func TestLimit(t *testing.T) {
	ctx := context.Background()
	kv := Limit(inmemkv.New(), 4)

	assert.NoError(t, kv.Set(ctx, "k", []byte("1234")))
	err := kv.Set(ctx, "k", []byte("12345"))
	assert.Equal(t, core.ErrQuotaExceeded, errors.Cause(err))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1234", string(got))

	unlimited := inmemkv.New()
	assert.Same(t, unlimited, Limit(unlimited, 0))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		conf    core.StorageConfig
		wantErr bool
	}{
		{name: "memory", conf: core.StorageConfig{Driver: core.StorageMemory}},
		{name: "file", conf: core.StorageConfig{Driver: core.StorageFile, Dir: t.TempDir(), MaxBytes: 1024}},
		{name: "redis", conf: core.StorageConfig{Driver: core.StorageRedis, RedisAddr: mr.Addr()}},
		{name: "unknown", conf: core.StorageConfig{Driver: "floppy"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, err := Open(ctx, tt.conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() { _ = kv.Close() }()

			require.NoError(t, kv.Set(ctx, "k", []byte("v")))
			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v", string(got))
		})
	}
}
