package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML file representation of Config. Unset fields fall
// back to the same defaults as the environment configuration. Durations are
// strings in time.ParseDuration syntax ("5m", "90s").
type FileConfig struct {
	AppName string `yaml:"app_name"`

	Session struct {
		NearExpiryThreshold string `yaml:"near_expiry_threshold"`
		SafetyCheckInterval string `yaml:"safety_check_interval"`
	} `yaml:"session"`

	Store struct {
		Backend       string `yaml:"backend"`
		Path          string `yaml:"path"`
		EncryptionKey string `yaml:"encryption_key"`
		Redis         struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Key      string `yaml:"key"`
		} `yaml:"redis"`
	} `yaml:"store"`

	Identity struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"identity"`
}

var _ Config = (*FileConfig)(nil)

// Load reads configuration from a YAML file.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config.Load ReadFile")
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, "config.Load Unmarshal")
	}
	return &fc, nil
}

func (fc *FileConfig) GetAppName() string {
	return fallback(fc.AppName, EnvVars{}.GetAppName())
}

func (fc *FileConfig) GetStoreBackend() string {
	return fallback(fc.Store.Backend, "file")
}

func (fc *FileConfig) GetStorePath() string {
	return fallback(fc.Store.Path, EnvVars{}.GetStorePath())
}

func (fc *FileConfig) GetStoreEncryptionKey() string {
	return fc.Store.EncryptionKey
}

func (fc *FileConfig) GetRedisAddr() string {
	return fallback(fc.Store.Redis.Addr, "localhost:6379")
}

func (fc *FileConfig) GetRedisPassword() string {
	return fc.Store.Redis.Password
}

func (fc *FileConfig) GetRedisDB() int {
	return fc.Store.Redis.DB
}

func (fc *FileConfig) GetRedisKey() string {
	return fc.Store.Redis.Key
}

func (fc *FileConfig) GetIdentityBaseURL() string {
	return fallback(fc.Identity.BaseURL, EnvVars{}.GetIdentityBaseURL())
}

func (fc *FileConfig) GetNearExpiryThreshold() time.Duration {
	return parseDuration(fc.Session.NearExpiryThreshold, 5*time.Minute)
}

func (fc *FileConfig) GetSafetyCheckInterval() time.Duration {
	return parseDuration(fc.Session.SafetyCheckInterval, time.Minute)
}

func fallback(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(raw string, defaultValue time.Duration) time.Duration {
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
