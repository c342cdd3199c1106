package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	DefaultLanguage   string        `mapstructure:"DEFAULT_LANGUAGE"`
	PrimaryLanguage   string        `mapstructure:"PRIMARY_LANGUAGE"`
	SecondaryLanguage string        `mapstructure:"SECONDARY_LANGUAGE"`
	ConsultationFee   int           `mapstructure:"CONSULTATION_FEE"`
	ProviderCount     int           `mapstructure:"PROVIDER_COUNT"`
	RandomSeed        uint64        `mapstructure:"RANDOM_SEED"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	BodyLimit         string        `mapstructure:"BODY_LIMIT"`
	MetricsEnabled    bool          `mapstructure:"METRICS_ENABLED"`
	TLSEnabled        bool          `mapstructure:"TLS_ENABLED"`
	TLSCertFile       string        `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile        string        `mapstructure:"TLS_KEY_FILE"`
}

var keys = []string{
	"PORT", "ENV", "CORS_ORIGINS",
	"DEFAULT_LANGUAGE", "PRIMARY_LANGUAGE", "SECONDARY_LANGUAGE",
	"CONSULTATION_FEE", "PROVIDER_COUNT", "RANDOM_SEED",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT", "BODY_LIMIT",
	"METRICS_ENABLED", "TLS_ENABLED", "TLS_CERT_FILE", "TLS_KEY_FILE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_LANGUAGE", "en")
	v.SetDefault("PRIMARY_LANGUAGE", "Hindi")
	v.SetDefault("SECONDARY_LANGUAGE", "English")
	v.SetDefault("CONSULTATION_FEE", 149)
	v.SetDefault("PROVIDER_COUNT", 10)
	v.SetDefault("RANDOM_SEED", 0)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("METRICS_ENABLED", true)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if !c.IsDev() && !c.IsProduction() {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if c.ConsultationFee <= 0 {
		return fmt.Errorf("CONSULTATION_FEE must be positive, got %d", c.ConsultationFee)
	}
	if c.ProviderCount <= 0 {
		return fmt.Errorf("PROVIDER_COUNT must be positive, got %d", c.ProviderCount)
	}
	if strings.TrimSpace(c.PrimaryLanguage) == "" || strings.TrimSpace(c.SecondaryLanguage) == "" {
		return fmt.Errorf("PRIMARY_LANGUAGE and SECONDARY_LANGUAGE are required")
	}
	if strings.EqualFold(c.PrimaryLanguage, c.SecondaryLanguage) {
		return fmt.Errorf("PRIMARY_LANGUAGE and SECONDARY_LANGUAGE must differ, both are %q", c.PrimaryLanguage)
	}
	if c.DefaultLanguage == "" {
		return fmt.Errorf("DEFAULT_LANGUAGE is required")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive, got %v / %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}

	// TLS validation: when TLS is enabled, cert and key files must be specified.
	if c.TLSEnabled {
		if c.TLSCertFile == "" {
			return fmt.Errorf("TLS_CERT_FILE is required when TLS_ENABLED is true")
		}
		if c.TLSKeyFile == "" {
			return fmt.Errorf("TLS_KEY_FILE is required when TLS_ENABLED is true")
		}
	}

	return nil
}
