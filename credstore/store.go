// Package credstore persists the current encoded session credential. A store
// is a dumb durable slot: it performs no validation and holds at most one
// credential.
package credstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hireflow/hireflow-session/internal/config"
)

// ErrNoCredential is returned by Load when no credential is stored.
var ErrNoCredential = errors.New("no stored credential")

// Store is the single reader/writer of the durable credential.
type Store interface {
	Save(ctx context.Context, credential string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// New selects a store backend from configuration.
func New(cfg config.StoreConfig) (Store, error) {
	switch cfg.GetStoreBackend() {
	case "", "file":
		var options []FileStoreOption
		if key := cfg.GetStoreEncryptionKey(); key != "" {
			options = append(options, WithEncryptionKey(key))
		}
		return NewFileStore(cfg.GetStorePath(), options...)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(RedisConfig{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Key:      cfg.GetRedisKey(),
		}), nil
	default:
		return nil, errors.Errorf("unsupported store backend %q", cfg.GetStoreBackend())
	}
}
