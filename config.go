package bookshelf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	// ProxyDisabled as proxy endpoint turns the fallback transport off.
	ProxyDisabled = "off"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string          `yaml:"git_commit" envconfig:"BKSH_GIT_COMMIT"`
	GitTag       string          `yaml:"git_tag" envconfig:"BKSH_GIT_TAG"`
	BuildTime    string          `yaml:"build_time" envconfig:"BKSH_BUILD_TIME"`
	IsProduction bool            `yaml:"is_production" envconfig:"BKSH_IS_PRODUCTION"`
	LogLevel     zapcore.Level   `yaml:"log_level" envconfig:"BKSH_LOG_LEVEL"`
	LogFolder    string          `yaml:"log_folder" envconfig:"BKSH_LOG_FOLDER"`
	LogMaxSize   int             `yaml:"log_max_size" envconfig:"BKSH_LOG_MAX_SIZE"` // megabytes
	Storage      StorageConfig   `yaml:"storage"`
	BoltDB       BoltDBConfig    `yaml:"boltdb"`
	Redis        RedisConfig     `yaml:"redis"`
	Discovery    DiscoveryConfig `yaml:"discovery"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"BKSH_STORAGE_BACKEND"`
	Key     string `yaml:"key" envconfig:"BKSH_STORAGE_KEY"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BKSH_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BKSH_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BKSH_BOLTDB_BUCKET_NAME"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKSH_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKSH_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKSH_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKSH_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKSH_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BKSH_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BKSH_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKSH_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BKSH_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKSH_REDIS_DATABASE_INDEX"`
	KeyPrefix     string        `yaml:"key_prefix" envconfig:"BKSH_REDIS_KEY_PREFIX"`
}

type DiscoveryConfig struct {
	SearchEndpoint string `yaml:"search_endpoint" envconfig:"BKSH_DISCOVERY_SEARCH_ENDPOINT"`
	ProxyEndpoint  string `yaml:"proxy_endpoint" envconfig:"BKSH_DISCOVERY_PROXY_ENDPOINT"`
	StoreURL       string `yaml:"store_url" envconfig:"BKSH_DISCOVERY_STORE_URL"`
	MaxQueryTokens int    `yaml:"max_query_tokens" envconfig:"BKSH_DISCOVERY_MAX_QUERY_TOKENS"`
	PrimaryLimit   int    `yaml:"primary_limit" envconfig:"BKSH_DISCOVERY_PRIMARY_LIMIT"`
	ProxyLimit     int    `yaml:"proxy_limit" envconfig:"BKSH_DISCOVERY_PROXY_LIMIT"`
}

// DefaultDiscoveryConfig returns the endpoints and limits the engine uses
// when nothing else is configured.
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		SearchEndpoint: "https://api.itbook.store/1.0/search",
		ProxyEndpoint:  "https://api.allorigins.win/raw",
		StoreURL:       "https://itbook.store/search",
		MaxQueryTokens: 5,
		PrimaryLimit:   10,
		ProxyLimit:     1,
	}
}

// LoadConfigFile provides an instance of config structure for the all application.
// A missing file is not an error, defaults and environment take over.
func LoadConfigFile(configFile string) (*Config, error) {
	cfg := &Config{}
	file, err := os.Open(configFile)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	yd := yaml.NewDecoder(file)
	if err = yd.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables into the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if config.LogFolder == "" {
		config.LogFolder = "./logs"
	}
	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.Storage.Backend == "" {
		config.Storage.Backend = BackendBolt
	}
	if config.Storage.Key == "" {
		config.Storage.Key = DefaultStorageKey
	}

	switch config.Storage.Backend {
	case BackendBolt:
		if config.BoltDB.FilePath == "" {
			config.BoltDB.FilePath = "./data/bookshelf.db"
		}
		if config.BoltDB.BucketName == "" {
			config.BoltDB.BucketName = "bookshelf"
		}
		if config.BoltDB.Timeout == 0 {
			config.BoltDB.Timeout = 5 * time.Second
		}
	case BackendRedis:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	defaults := DefaultDiscoveryConfig()
	d := &config.Discovery
	if d.SearchEndpoint == "" {
		d.SearchEndpoint = defaults.SearchEndpoint
	}
	if d.StoreURL == "" {
		d.StoreURL = defaults.StoreURL
	}
	switch d.ProxyEndpoint {
	case "":
		d.ProxyEndpoint = defaults.ProxyEndpoint
	case ProxyDisabled:
		d.ProxyEndpoint = ""
	}
	if d.MaxQueryTokens <= 0 {
		d.MaxQueryTokens = defaults.MaxQueryTokens
	}
	if d.PrimaryLimit <= 0 {
		d.PrimaryLimit = defaults.PrimaryLimit
	}
	if d.ProxyLimit <= 0 {
		d.ProxyLimit = defaults.ProxyLimit
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. The env file is optional.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile(configFile)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	if envFile != "" {
		err = godotenv.Load(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return config, fmt.Errorf("failed to set environment configurations: %s", err)
		}
	}

	// Use environment variables with prefix `BKSH`.
	err = LoadConfigEnvs("BKSH", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
