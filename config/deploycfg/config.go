package deploycfg

// Package deploycfg builds the single configuration record handed to the
// provisioning driver. Configuration comes from three places, in increasing
// precedence: an optional declarative deploy file (imgappops.yml), the
// process environment plus the env file, and command line flags.

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yaegashi/imgappops/domain/model"
)

// Defaults for optional flags.
const (
	DefaultLocation   = "eastus"
	DefaultAppName    = "imgapp"
	DefaultTag        = "latest"
	DefaultEnvFile    = ".env"
	DefaultContextDir = "."
	DefaultConfigPath = "imgappops.yml"
)

// Environment variable names consumed by the CLI itself.
const (
	EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	EnvAuthMethod     = "AZURE_AUTH_METHOD"
)

// Config is the flat configuration record (see the Deployment model for the
// subset forwarded to the driver). Constructed once at startup; no global
// state.
type Config struct {
	ResourceGroup  string
	Location       string
	AppName        string
	Registry       string
	Tag            string
	Workspace      string
	ContextDir     string
	EnvFile        string
	SubscriptionID string
	AuthMethod     string
	Env            map[string]string // resolved app environment values
}

// File is the optional declarative deploy file (imgappops.yml).
type File struct {
	Version       int    `yaml:"version"`
	ResourceGroup string `yaml:"resourceGroup,omitempty"`
	Location      string `yaml:"location,omitempty"`
	App           string `yaml:"app,omitempty"`
	Registry      string `yaml:"registry,omitempty"`
	Tag           string `yaml:"tag,omitempty"`
	Workspace     string `yaml:"workspace,omitempty"`
	Context       string `yaml:"context,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Location:   DefaultLocation,
		AppName:    DefaultAppName,
		Tag:        DefaultTag,
		EnvFile:    DefaultEnvFile,
		ContextDir: DefaultContextDir,
		Env:        map[string]string{},
	}
}

// LoadFile parses the deploy file at path. A missing file is not an error
// and returns nil.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading deploy file %q: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing deploy file %q: %w", path, err)
	}
	return &f, nil
}

// ApplyFile merges non-empty deploy file entries into the config. Flags are
// applied afterwards by the command layer and win over file entries.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.ResourceGroup != "" {
		c.ResourceGroup = f.ResourceGroup
	}
	if f.Location != "" {
		c.Location = f.Location
	}
	if f.App != "" {
		c.AppName = f.App
	}
	if f.Registry != "" {
		c.Registry = f.Registry
	}
	if f.Tag != "" {
		c.Tag = f.Tag
	}
	if f.Workspace != "" {
		c.Workspace = f.Workspace
	}
	if f.Context != "" {
		c.ContextDir = f.Context
	}
}

// ResolveEnv resolves the app environment values and the CLI's own Azure
// settings. The env file (when present) supplies values the process
// environment does not already set; it is read, never exported, so nothing
// leaks into the process environment.
func (c *Config) ResolveEnv() error {
	fileEnv := map[string]string{}
	if c.EnvFile != "" {
		if _, err := os.Stat(c.EnvFile); err == nil {
			m, err := godotenv.Read(c.EnvFile)
			if err != nil {
				return fmt.Errorf("reading env file %q: %w", c.EnvFile, err)
			}
			fileEnv = m
		}
	}

	lookup := func(name string) string {
		if v := os.Getenv(name); v != "" {
			return v
		}
		return fileEnv[name]
	}

	if c.Env == nil {
		c.Env = map[string]string{}
	}
	for _, name := range model.RequiredEnvNames {
		c.Env[name] = lookup(name)
	}
	if c.SubscriptionID == "" {
		c.SubscriptionID = lookup(EnvSubscriptionID)
	}
	if c.AuthMethod == "" {
		c.AuthMethod = lookup(EnvAuthMethod)
	}
	return nil
}

// Validate checks the fail-fast gates before any cloud call is attempted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ResourceGroup) == "" {
		return fmt.Errorf("%w: --resource-group is required", model.ErrDeploymentInvalid)
	}
	d := &model.Deployment{Env: c.Env}
	if missing := d.RequiredEnvMissing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing required environment values: %s",
			model.ErrDeploymentInvalid, strings.Join(missing, ", "))
	}
	if strings.TrimSpace(c.SubscriptionID) == "" {
		return fmt.Errorf("%w: %s is required", model.ErrDeploymentInvalid, EnvSubscriptionID)
	}
	return nil
}

// Deployment converts the config into the driver-facing target state.
func (c *Config) Deployment() *model.Deployment {
	env := make(map[string]string, len(c.Env))
	for k, v := range c.Env {
		env[k] = v
	}
	return &model.Deployment{
		ResourceGroup: c.ResourceGroup,
		Location:      c.Location,
		AppName:       c.AppName,
		Registry:      c.Registry,
		Tag:           c.Tag,
		Workspace:     c.Workspace,
		ContextDir:    c.ContextDir,
		Env:           env,
	}
}

// Settings returns the provider driver settings map.
func (c *Config) Settings() map[string]string {
	return map[string]string{
		EnvSubscriptionID: c.SubscriptionID,
		"AZURE_LOCATION":  c.Location,
		EnvAuthMethod:     c.AuthMethod,
	}
}
