// Package config loads and validates the service catalogue's HCL
// configuration file.
package config

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

const (
	// EnvironmentDevelopment runs the open authorization gate: every write
	// is permitted and the policy service is never contacted.
	EnvironmentDevelopment = "development"

	// EnvironmentProduction runs the restricted gate, delegating every
	// write decision to the policy service.
	EnvironmentProduction = "production"
)

// Config is the top-level configuration.
type Config struct {
	// Environment selects the authorization mode. One of "development" or
	// "production". Defaults to development.
	Environment string `hcl:"environment,optional"`

	// Addr is the listen address for the HTTP server.
	Addr string `hcl:"addr,optional"`

	// LogLevel is the hclog level name ("trace" ... "error").
	LogLevel string `hcl:"log_level,optional"`

	Auth       *Auth       `hcl:"auth,block"`
	Visibility *Visibility `hcl:"visibility,block"`
	Database   *Database   `hcl:"database,block"`
}

// Auth configures the authorization gate.
type Auth struct {
	// PolicyEndpoint is the base URL of the policy service, e.g.
	// "https://auth.example.gov.au". Required in production.
	PolicyEndpoint string `hcl:"policy_endpoint,optional"`

	// TimeoutSeconds bounds each outbound policy lookup. A lookup that
	// times out is a denial.
	TimeoutSeconds int `hcl:"timeout_seconds,optional"`
}

// Visibility configures what unprivileged callers can see.
type Visibility struct {
	// PublicSpaces is the allow-list of spaces whose documents are visible
	// without admin privilege. Empty means unprivileged callers see
	// nothing.
	PublicSpaces []string `hcl:"public_spaces,optional"`
}

// Database configures the persistence substrate.
type Database struct {
	// Driver is "postgres" or "sqlite".
	Driver string `hcl:"driver,optional"`

	// PostgreSQL settings.
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`

	// Path is the SQLite database file.
	Path string `hcl:"path,optional"`
}

// NewConfig parses the HCL file at path, applies defaults, and validates.
func NewConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Auth == nil {
		c.Auth = &Auth{}
	}
	if c.Auth.TimeoutSeconds == 0 {
		c.Auth.TimeoutSeconds = 10
	}
	if c.Visibility == nil {
		c.Visibility = &Visibility{}
	}
	if c.Database == nil {
		c.Database = &Database{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "catalogue.db"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
}

// Validate checks the configuration and aggregates every problem found.
// A production environment without a policy endpoint is rejected here so
// the misconfiguration stops startup instead of failing per request.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.Required, validation.In(
			EnvironmentDevelopment, EnvironmentProduction)),
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.LogLevel, validation.In(
			"trace", "debug", "info", "warn", "error")),
	); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Environment == EnvironmentProduction {
		if err := validation.ValidateStruct(c.Auth,
			validation.Field(&c.Auth.PolicyEndpoint,
				validation.Required.Error(
					"policy_endpoint is required in production"),
				is.URL),
		); err != nil {
			result = multierror.Append(result, err)
		}
	}

	switch c.Database.Driver {
	case "postgres":
		if err := validation.ValidateStruct(c.Database,
			validation.Field(&c.Database.Host, validation.Required),
			validation.Field(&c.Database.User, validation.Required),
			validation.Field(&c.Database.DBName, validation.Required),
			validation.Field(&c.Database.Port,
				validation.Required, validation.Min(1), validation.Max(65535)),
		); err != nil {
			result = multierror.Append(result, err)
		}
	case "sqlite":
		if err := validation.ValidateStruct(c.Database,
			validation.Field(&c.Database.Path, validation.Required),
		); err != nil {
			result = multierror.Append(result, err)
		}
	default:
		result = multierror.Append(result, fmt.Errorf(
			"unsupported database driver: %s (supported: postgres, sqlite)",
			c.Database.Driver))
	}

	return result.ErrorOrNil()
}
