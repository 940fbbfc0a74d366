package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"

	"unified-push-server/internal/domain/constants"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Push PushConfig `json:"push" yaml:"push"`

	// TestRoutes configuration for testing endpoints
	TestRoutes *TestRoutesConfig `json:"testRoutes" yaml:"testRoutes"`
}

// PushConfig groups every push-dispatch-specific setting: per-network
// batching overrides (C1), the message broker address (C5), the
// send-callback deadline (C4), the trigger redelivery budget (C9), and
// the worker-pool sizes cmd/pushworker starts (§5).
type PushConfig struct {
	Networks map[constants.Platform]constants.SenderDefault `json:"networks" yaml:"networks"`

	Broker struct {
		// URL is a gocloud.dev/pubsub opener string: "mem://" for tests
		// and local development, "rabbit://host:5672" in production.
		// Only the mem:// and rabbit:// drivers are registered.
		URL string `json:"url" yaml:"url"`
	} `json:"broker" yaml:"broker"`

	SendTimeout time.Duration `json:"sendTimeout" yaml:"sendTimeout"`

	Trigger struct {
		MaxRedeliveries int `json:"maxRedeliveries" yaml:"maxRedeliveries"`
	} `json:"trigger" yaml:"trigger"`

	Workers struct {
		Loader     int `json:"loader" yaml:"loader"`
		Dispatcher int `json:"dispatcher" yaml:"dispatcher"`
		Collector  int `json:"collector" yaml:"collector"`
		Trigger    int `json:"trigger" yaml:"trigger"`
	} `json:"workers" yaml:"workers"`
}

// applyDefaults fills in zero-valued fields the YAML/env layer left
// unset, mirroring the teacher's pattern of compiling conservative
// defaults into domain constants rather than requiring every field in
// every environment's config file.
func (c *Config) applyDefaults() {
	if c.Push.SendTimeout == 0 {
		c.Push.SendTimeout = constants.DefaultSendTimeout
	}
	if c.Push.Trigger.MaxRedeliveries == 0 {
		c.Push.Trigger.MaxRedeliveries = constants.DefaultMaxRedeliveries
	}
	if c.Push.Broker.URL == "" {
		c.Push.Broker.URL = "mem://"
	}
	if c.Push.Workers.Loader == 0 {
		c.Push.Workers.Loader = 4
	}
	if c.Push.Workers.Dispatcher == 0 {
		c.Push.Workers.Dispatcher = 8
	}
	if c.Push.Workers.Collector == 0 {
		c.Push.Workers.Collector = 4
	}
	if c.Push.Workers.Trigger == 0 {
		c.Push.Workers.Trigger = 2
	}
}

type Log struct {
	Pretty       bool          `json:"pretty" yaml:"pretty"`
	Level        string        `json:"level" yaml:"level"`
	Path         string        `json:"path" yaml:"path"`
	MaxAge       time.Duration `json:"maxAge" yaml:"maxAge"`
	RotationTime time.Duration `json:"rotationTime" yaml:"rotationTime"`
}

// TestRoutesConfig defines configuration for testing endpoints
type TestRoutesConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, fmt.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read %s config failed: %w", currEnv, err)
	}

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to env.var.name
			key := strings.ReplaceAll(strings.ToLower(k), "_", ".")

			return key, v
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load env variables failed: %w", err)
	}

	// Unmarshal into the config struct
	if err := koanfInstance.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s config failed: %w", currEnv, err)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../connfig", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return cfg, nil
}
