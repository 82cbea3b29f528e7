// Package config manages environment variables.
//
// It reads variables (optionally from a `.env` file), loads them into
// structured Go types and validates that required values are present so
// they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate the blocks the process cannot start without.
//   - Provide sane defaults for everything optional.
//
// The remote store block is special: a missing token/owner/repo must not
// stop the process. It is validated on its own (RemoteConfig.Validate) and
// every request reports the resulting ConfigurationError instead.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before anything in here reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Two env namespaces are read:

	- REMOTE_* keeps the historic variable names of the remote file store,
	  e.g. REMOTE_FILE_PATH -> remote.file_path -> Config.Remote.FilePath.
	- CONTACTS_* holds everything else. A double underscore separates
	  nesting levels, a single underscore stays part of the key:
	  CONTACTS_SERVER__READ_TIMEOUT -> server.read_timeout
	  CONTACTS_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
*/

const (
	remotePrefix  = "REMOTE_"
	servicePrefix = "CONTACTS_"

	// ServiceName tags logs and New Relic data.
	ServiceName = "contactbook"
)

// Store backends.
const (
	BackendGitHub = "github"
	BackendMemory = "memory"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from, the
// `validate:"..."` tags are enforced by go-playground/validator at load time.
// Remote is skipped there on purpose (see RemoteConfig.Validate).
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Remote        RemoteConfig         `koanf:"remote" validate:"-"`
	Export        ExportConfig         `koanf:"export" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// StoreConfig selects where the registry file lives.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=github memory"`
}

// RemoteConfig addresses the registry file on the remote file host.
type RemoteConfig struct {
	Token    string `koanf:"token" validate:"required"`
	Owner    string `koanf:"owner" validate:"required"`
	Repo     string `koanf:"repo" validate:"required"`
	Branch   string `koanf:"branch" validate:"required"`
	FilePath string `koanf:"file_path" validate:"required"`
	APIURL   string `koanf:"api_url" validate:"required,url"`
}

// ExportConfig controls the downloadable vCard document.
type ExportConfig struct {
	Filename    string `koanf:"filename" validate:"required"`
	Attribution string `koanf:"attribution" validate:"required"`
}

// Default returns a Config with every optional value filled in.
// Load unmarshals the environment on top of it.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        10,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Store: StoreConfig{Backend: BackendGitHub},
		Remote: RemoteConfig{
			Branch:   "main",
			FilePath: "data/contacts.json",
			APIURL:   "https://api.github.com/",
		},
		Export: ExportConfig{
			Filename:    "contacts.vcf",
			Attribution: "Added to the contact database",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load reads configuration from environment variables, unmarshals it into
// Config, validates it, applies defaults and returns the resulting config.
//
// It only fails on problems the service cannot run with at all. A missing
// remote token/owner/repo is reported later, per request.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(remotePrefix, ".", func(s string) string {
		return "remote." + strings.ToLower(strings.TrimPrefix(s, remotePrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load remote env variables: %w", err)
	}

	err = k.Load(env.ProviderWithValue(servicePrefix, ".", func(key, value string) (string, any) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, servicePrefix)), "__", ".")
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load service env variables: %w", err)
	}

	return fromKoanf(k)
}

// listKeys are the keys whose variables hold comma-separated lists.
var listKeys = map[string]struct{}{
	"server.cors_allowed_origins": {},
}

// splitList splits a comma-separated value, dropping blank items.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// fromKoanf finishes loading once the providers ran. Split out so tests can
// feed a koanf instance without touching the process environment.
func fromKoanf(k *koanf.Koanf) (*Config, error) {
	// Unmarshal only overwrites keys that are present, so defaults survive,
	// including the ones inside the Observability pointer.
	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are not user-configurable.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// IsProduction reports whether diagnostic details must be kept from clients.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

// RemoteRequired reports whether the selected backend needs RemoteConfig.
func (c *Config) RemoteRequired() bool {
	return c.Store.Backend == BackendGitHub
}
