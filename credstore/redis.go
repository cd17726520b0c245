package credstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

const defaultRedisKey = "hireflow:session:credential"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the credential in redis, for deployments where the client
// process is ephemeral but a local redis is not.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	key := cfg.Key
	if key == "" {
		key = defaultRedisKey
	}

	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		key: key,
	}
}

func (rs *RedisStore) Save(ctx context.Context, credential string) error {
	if err := rs.client.Set(ctx, rs.key, credential, 0).Err(); err != nil {
		return errors.Wrap(err, "RedisStore.Save")
	}
	return nil
}

func (rs *RedisStore) Load(ctx context.Context) (string, error) {
	credential, err := rs.client.Get(ctx, rs.key).Result()
	if err == redis.Nil {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", errors.Wrap(err, "RedisStore.Load")
	}
	return credential, nil
}

func (rs *RedisStore) Clear(ctx context.Context) error {
	if err := rs.client.Del(ctx, rs.key).Err(); err != nil {
		return errors.Wrap(err, "RedisStore.Clear")
	}
	return nil
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
