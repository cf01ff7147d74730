package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"BSTD_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"BSTD_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"BSTD_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"BSTD_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"BSTD_LOG_LEVEL"`
	LogFile            string        `yaml:"log_file" envconfig:"BSTD_LOG_FILE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"BSTD_OPS_ENDPOINTS_ENABLE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"BSTD_PROFILER_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Redis              RedisConfig   `yaml:"redis"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Catalog            CatalogConfig `yaml:"catalog"`
	Orders             OrdersConfig  `yaml:"orders"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BSTD_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BSTD_SERVER_PORT"`
	CertsFile       string        `yaml:"certs_file" envconfig:"BSTD_SERVER_CERTS_FILE"`
	KeyFile         string        `yaml:"key_file" envconfig:"BSTD_SERVER_KEY_FILE"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BSTD_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BSTD_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BSTD_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BSTD_SERVER_SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BSTD_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BSTD_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BSTD_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BSTD_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BSTD_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BSTD_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BSTD_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BSTD_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BSTD_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BSTD_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSTD_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSTD_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSTD_BOLTDB_BUCKET_NAME"`
}

// CatalogConfig holds the settings of the external catalog source.
type CatalogConfig struct {
	SourceURL      string        `yaml:"source_url" envconfig:"BSTD_CATALOG_SOURCE_URL"`
	SourceID       string        `yaml:"source_id" envconfig:"BSTD_CATALOG_SOURCE_ID"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"BSTD_CATALOG_REQUEST_TIMEOUT"`
}

// OrdersConfig holds the settings of the external order collaborator
// and the closed set of pickup choices offered at submission time.
type OrdersConfig struct {
	SubmitURL          string        `yaml:"submit_url" envconfig:"BSTD_ORDERS_SUBMIT_URL"`
	RequestTimeout     time.Duration `yaml:"request_timeout" envconfig:"BSTD_ORDERS_REQUEST_TIMEOUT"`
	MaxProofSize       int64         `yaml:"max_proof_size" envconfig:"BSTD_ORDERS_MAX_PROOF_SIZE"`
	FulfillmentOptions []string      `yaml:"fulfillment_options" envconfig:"BSTD_ORDERS_FULFILLMENT_OPTIONS"`
}

// IsFulfillmentOption reports whether a submitted pickup choice belongs
// to the configured closed set.
func (oc *OrdersConfig) IsFulfillmentOption(value string) bool {
	for _, opt := range oc.FulfillmentOptions {
		if opt == value {
			return true
		}
	}
	return false
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
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

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if len(config.Catalog.SourceURL) == 0 {
		return errors.New("make sure to set a valid catalog source url in configuration file")
	}

	if len(config.Orders.FulfillmentOptions) == 0 {
		return errors.New("make sure to set at least one fulfillment option in configuration file")
	}

	if config.Orders.MaxProofSize == 0 {
		config.Orders.MaxProofSize = 5 << 20
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BSTD`.
	err = LoadConfigEnvs("BSTD", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
