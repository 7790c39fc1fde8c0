package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sukiejosh/vitedge/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vitedge.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultFunctionsDir is the default directory holding function files.
	DefaultFunctionsDir = "functions"

	// DefaultViteURL is the default address of the Vite dev server that
	// unmatched requests are proxied to.
	DefaultViteURL = "http://localhost:5173"

	// DefaultOutput is the default client build output directory.
	DefaultOutput = "dist"
)

// Config represents the complete vitedge.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// FunctionsDir is the directory containing function source files,
	// relative to the project directory.
	FunctionsDir string `json:"functionsDir,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Deploy contains static asset deployment configuration.
	Deploy DeployConfig `json:"deploy,omitempty"`

	// Output is the client build output directory.
	Output string `json:"output,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// ViteURL is the address of the Vite dev server. Requests that do not
	// match a function route are proxied there unchanged.
	ViteURL string `json:"viteUrl,omitempty"`

	// FunctionsURL is the address of the function runtime backend that
	// matched invocations are forwarded to. Empty disables forwarding.
	FunctionsURL string `json:"functionsUrl,omitempty"`

	// Ignore contains glob patterns excluded from watching.
	Ignore []string `json:"ignore,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics when true.
	Metrics bool `json:"metrics,omitempty"`
}

// DeployConfig contains static asset deployment settings.
type DeployConfig struct {
	// Bucket is the S3 bucket receiving the build output.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		FunctionsDir: DefaultFunctionsDir,
		Output:       DefaultOutput,
		Dev: DevConfig{
			Port:    DefaultPort,
			Host:    DefaultHost,
			ViteURL: DefaultViteURL,
			Metrics: true,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vitedge.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFromWorkingDir reads configuration from the current directory.
func LoadFromWorkingDir() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No vitedge.json found in " + filepath.Dir(path)).
				WithSuggestion("Create vitedge.json in the project root")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse vitedge.json: " + err.Error()).
			WithSuggestion("Check that vitedge.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// FunctionsPath returns the absolute path of the functions directory.
func (c *Config) FunctionsPath() string {
	if filepath.IsAbs(c.FunctionsDir) {
		return c.FunctionsDir
	}
	return filepath.Join(c.Dir(), c.FunctionsDir)
}

// OutputPath returns the absolute path of the build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(c.Dir(), c.Output)
}

// DevAddress returns the listen address for the dev server.
func (c *Config) DevAddress() string {
	return fmt.Sprintf("%s:%d", c.Dev.Host, c.Dev.Port)
}

// DevURL returns the browser-facing URL of the dev server.
func (c *Config) DevURL() string {
	return fmt.Sprintf("http://%s", c.DevAddress())
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.FunctionsDir == "" {
		c.FunctionsDir = DefaultFunctionsDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.ViteURL == "" {
		c.Dev.ViteURL = DefaultViteURL
	}
}
