package kvstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/storage/database"
	filekv "github.com/trezcool/visualminds/storage/kv/file"
	inmemkv "github.com/trezcool/visualminds/storage/kv/inmem"
	pgkv "github.com/trezcool/visualminds/storage/kv/postgres"
	rediskv "github.com/trezcool/visualminds/storage/kv/redisdb"
)

// Open returns the KVStore selected by conf.Driver, limited to conf.MaxBytes per value.
func Open(ctx context.Context, conf core.StorageConfig) (core.KVStore, error) {
	var (
		kv  core.KVStore
		err error
	)
	switch conf.Driver {
	case core.StorageMemory:
		kv = inmemkv.New()
	case core.StorageFile, "":
		kv, err = filekv.New(conf.Dir)
	case core.StorageRedis:
		kv, err = rediskv.Open(ctx, conf)
	case core.StoragePostgres:
		kv, err = openPostgres(ctx, conf)
	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Limit(kv, conf.MaxBytes), nil
}

func openPostgres(ctx context.Context, conf core.StorageConfig) (core.KVStore, error) {
	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return pgkv.New(db), nil
}

type limited struct {
	core.KVStore
	maxBytes int
}

// Limit rejects values larger than maxBytes with core.ErrQuotaExceeded. No limit when maxBytes <= 0.
func Limit(kv core.KVStore, maxBytes int) core.KVStore {
	if maxBytes <= 0 {
		return kv
	}
	return &limited{KVStore: kv, maxBytes: maxBytes}
}

func (l *limited) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > l.maxBytes {
		return errors.Wrapf(core.ErrQuotaExceeded, "%d bytes over the %d bytes limit", len(value), l.maxBytes)
	}
	return l.KVStore.Set(ctx, key, value)
}
