package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "CASEVALUE_"
	envFileVar = "CASEVALUE_CONFIG"
)

// unprefixed variables honored when their key is not otherwise set
var legacyEnv = []struct {
	name  string
	key   string
	field func(*Config) *string
}{
	{"GEMINI_API_KEY", "gemini_api_key", func(c *Config) *string { return &c.GeminiAPIKey }},
	{"DATABASE_URL", "database_url", func(c *Config) *string { return &c.DatabaseURL }},
	{"PORT", "port", func(c *Config) *string { return &c.Port }},
	{"AWS_S3_BUCKET", "s3_bucket", func(c *Config) *string { return &c.S3Bucket }},
	{"AWS_ACCESS_KEY_ID", "aws_access_key_id", func(c *Config) *string { return &c.AWSAccessKey }},
	{"AWS_SECRET_ACCESS_KEY", "aws_secret_access_key", func(c *Config) *string { return &c.AWSSecretKey }},
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. the YAML file named by CASEVALUE_CONFIG, if set
//  3. CASEVALUE_* environment variables
//
// GEMINI_API_KEY, DATABASE_URL, PORT and the AWS_* credentials fill their
// keys when neither the file nor a prefixed variable set them.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CASEVALUE_TOP_K -> top_k
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	for _, l := range legacyEnv {
		if v := os.Getenv(l.name); v != "" && !k.Exists(l.key) {
			*l.field(&cfg) = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
