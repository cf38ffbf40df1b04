package db

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// StateStore is the key-value capability every backend provides.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

type StoreOptions struct {
	Backend string
	DBPath  string
	Redis   RedisOptions
	Logger  *log.Logger
}

// Repositories bundles the opened store with whatever must be closed on
// shutdown.
type Repositories struct {
	States StateStore
	closer io.Closer
}

func OpenRepositories(ctx context.Context, options StoreOptions) (*Repositories, error) {
	switch options.Backend {
	case "", BackendSQLite:
		database, err := OpenSQLite(options.DBPath, options.Logger)
		if err != nil {
			return nil, err
		}
		return NewRepositories(database), nil
	case BackendRedis:
		client, err := OpenRedis(ctx, options.Redis)
		if err != nil {
			return nil, err
		}
		return &Repositories{States: NewRedisStateStore(client), closer: client}, nil
	case BackendMemory:
		return &Repositories{States: NewMemoryStateStore()}, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", options.Backend)
	}
}

func NewRepositories(database *gorm.DB) *Repositories {
	repositories := &Repositories{States: NewLabelStateRepository(database)}
	if sqlDB, err := database.DB(); err == nil {
		repositories.closer = sqlDB
	}
	return repositories
}

func (repositories *Repositories) Close() error {
	if repositories == nil || repositories.closer == nil {
		return nil
	}
	return repositories.closer.Close()
}

var (
	_ StateStore = (*LabelStateRepository)(nil)
	_ StateStore = (*RedisStateStore)(nil)
	_ StateStore = (*MemoryStateStore)(nil)
	_ io.Closer  = (*redis.Client)(nil)
)
