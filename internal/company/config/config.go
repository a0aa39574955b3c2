// Package config loads the company service settings from an optional YAML
// file overlaid by environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when CONFIG_FILE is unset. A missing file is not an error.
var DefaultPath = filepath.Join("internal", "company", "config", "config.yaml")

type Config struct {
	CompaniesTableName                       string   `yaml:"COMPANIES_TABLE_NAME"`
	CompaniesTableIndustryCreatedAtIndexName string   `yaml:"COMPANIES_TABLE_INDUSTRY_CREATED_AT_INDEX_NAME"`
	AWSRegion                                string   `yaml:"AWS_REGION"`
	DynamoDBEndpoint                         string   `yaml:"DYNAMODB_ENDPOINT"`
	DynamoDBConnectTimeoutMS                 int      `yaml:"DYNAMODB_CONNECT_TIMEOUT_MS"`
	DynamoDBRequestTimeoutMS                 int      `yaml:"DYNAMODB_REQUEST_TIMEOUT_MS"`
	HTTPPort                                 int      `yaml:"HTTP_PORT"`
	JWTSecret                                string   `yaml:"JWT_SECRET"`
	KafkaBrokers                             []string `yaml:"KAFKA_BROKERS"`
	Topic                                    string   `yaml:"TOPIC"`
	LogLevel                                 string   `yaml:"LOG_LEVEL"`
	Environment                              string   `yaml:"ENVIRONMENT"`
	EnableTracing                            bool     `yaml:"ENABLE_TRACING"`
}

func defaults() *Config {
	return &Config{
		AWSRegion:                "ap-northeast-1",
		DynamoDBConnectTimeoutMS: 200,
		DynamoDBRequestTimeoutMS: 1000,
		HTTPPort:                 8080,
		Topic:                    "company-events",
		LogLevel:                 "info",
		Environment:              "development",
	}
}

// Load reads CONFIG_FILE (or DefaultPath), then applies the environment.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	required := path != ""
	if !required {
		path = DefaultPath
	}

	cfg := defaults()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str("COMPANIES_TABLE_NAME", &c.CompaniesTableName)
	str("COMPANIES_TABLE_INDUSTRY_CREATED_AT_INDEX_NAME", &c.CompaniesTableIndustryCreatedAtIndexName)
	str("AWS_REGION", &c.AWSRegion)
	str("DYNAMODB_ENDPOINT", &c.DynamoDBEndpoint)
	str("JWT_SECRET", &c.JWTSecret)
	str("TOPIC", &c.Topic)
	str("LOG_LEVEL", &c.LogLevel)
	str("ENVIRONMENT", &c.Environment)

	if v, ok := lookup("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}

	for key, dst := range map[string]*int{
		"DYNAMODB_CONNECT_TIMEOUT_MS": &c.DynamoDBConnectTimeoutMS,
		"DYNAMODB_REQUEST_TIMEOUT_MS": &c.DynamoDBRequestTimeoutMS,
		"HTTP_PORT":                   &c.HTTPPort,
	} {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup("ENABLE_TRACING"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ENABLE_TRACING: %w", err)
		}
		c.EnableTracing = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error
	if c.CompaniesTableName == "" {
		errs = append(errs, errors.New("COMPANIES_TABLE_NAME is required"))
	}
	if c.CompaniesTableIndustryCreatedAtIndexName == "" {
		errs = append(errs, errors.New("COMPANIES_TABLE_INDUSTRY_CREATED_AT_INDEX_NAME is required"))
	}
	if c.DynamoDBConnectTimeoutMS <= 0 {
		errs = append(errs, errors.New("DYNAMODB_CONNECT_TIMEOUT_MS must be positive"))
	}
	if c.DynamoDBRequestTimeoutMS <= 0 {
		errs = append(errs, errors.New("DYNAMODB_REQUEST_TIMEOUT_MS must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.DynamoDBConnectTimeoutMS) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.DynamoDBRequestTimeoutMS) * time.Millisecond
}

// IsProduction reports whether ENVIRONMENT selects the production logger.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
