package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	appNameVar         = "APP_NAME"
	storeBackendVar    = "SESSION_STORE_BACKEND"
	storePathVar       = "SESSION_STORE_PATH"
	storeKeyVar        = "SESSION_STORE_KEY"
	redisAddrVar       = "SESSION_REDIS_ADDR"
	redisPasswordVar   = "SESSION_REDIS_PASSWORD"
	redisDBVar         = "SESSION_REDIS_DB"
	redisKeyVar        = "SESSION_REDIS_KEY"
	identityBaseURLVar = "IDENTITY_BASE_URL"
	thresholdVar       = "SESSION_NEAR_EXPIRY_THRESHOLD"
	safetyIntervalVar  = "SESSION_SAFETY_CHECK_INTERVAL"
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Hireflow Session")
}

func (EnvVars) GetStoreBackend() string {
	return GetEnv(storeBackendVar, "file")
}

func (EnvVars) GetStorePath() string {
	if path := os.Getenv(storePathVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".hireflow", "session")
}

func (EnvVars) GetStoreEncryptionKey() string {
	return GetEnv(storeKeyVar, "")
}

func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "localhost:6379")
}

func (EnvVars) GetRedisPassword() string {
	return GetEnv(redisPasswordVar, "")
}

func (EnvVars) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv(redisDBVar, "0"))
	if err != nil {
		return 0
	}
	return db
}

func (EnvVars) GetRedisKey() string {
	return GetEnv(redisKeyVar, "")
}

func (EnvVars) GetIdentityBaseURL() string {
	return GetEnv(identityBaseURLVar, "http://localhost:8080")
}

func (EnvVars) GetNearExpiryThreshold() time.Duration {
	return getDuration(thresholdVar, 5*time.Minute)
}

func (EnvVars) GetSafetyCheckInterval() time.Duration {
	return getDuration(safetyIntervalVar, time.Minute)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(envVar)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
