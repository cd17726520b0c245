package config

import "time"

type Config interface {
	GetAppName() string
	SessionConfig
	StoreConfig
	IdentityConfig
}

// SessionConfig tunes the session lifecycle manager.
type SessionConfig interface {
	GetNearExpiryThreshold() time.Duration
	GetSafetyCheckInterval() time.Duration
}

// StoreConfig selects and parameterises the credential store backend.
type StoreConfig interface {
	GetStoreBackend() string
	GetStorePath() string
	GetStoreEncryptionKey() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKey() string
}

// IdentityConfig locates the identity provider.
type IdentityConfig interface {
	GetIdentityBaseURL() string
}

type mainConfig struct {
	EnvVars
}

// New returns the environment-variable-backed configuration.
func New() Config {
	return mainConfig{}
}
