package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-cms-animations/animation"
)

var (
	ErrStorageProviderUnknown    = errors.New("animations config: storage provider is invalid")
	ErrStorageDriverUnknown      = errors.New("animations config: storage driver is invalid")
	ErrStorageDSNRequired        = errors.New("animations config: storage dsn is required for the bun provider")
	ErrCacheTTLInvalid           = errors.New("animations config: cache ttl must be positive when cache is enabled")
	ErrLoggingProviderRequired   = errors.New("animations config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown    = errors.New("animations config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("animations config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("animations config: logging format is invalid")
	ErrDefinitionDirRequired     = errors.New("animations config: definition directory is required when definition files are enabled")
	ErrNavigationRouteIncomplete = errors.New("animations config: navigation needs both a group and a route")
	ErrDefinitionKeyRequired     = errors.New("animations config: configured definitions need a key or label")
)

// Config aggregates the settings of the animations module.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Cache      CacheConfig      `yaml:"cache"`
	Features   Features         `yaml:"features"`
	Logging    LoggingConfig    `yaml:"logging"`
	Navigation NavigationConfig `yaml:"navigation"`
	Animations AnimationsConfig `yaml:"animations"`
}

// StorageConfig selects where definitions and bindings live. The memory
// provider ignores Driver and DSN.
type StorageConfig struct {
	Provider    string `yaml:"provider"`
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// CacheConfig toggles the repository read cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger          bool `yaml:"logger"`
	DefinitionFiles bool `yaml:"definition_files"`
}

// LoggingConfig holds provider-specific logging options.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// NavigationConfig describes the go-urlkit route editors are sent back to
// after saving a selection. RouteConfig is only settable from code.
type NavigationConfig struct {
	RouteConfig *urlkit.Config `yaml:"-"`
	Group       string         `yaml:"group"`
	Route       string         `yaml:"route"`
	IDParam     string         `yaml:"id_param"`
}

// AnimationsConfig holds the domain settings.
type AnimationsConfig struct {
	// ContainerFields are the page fields the aggregator walks for blocks.
	ContainerFields []string `yaml:"container_fields"`
	SectionPrefix   string   `yaml:"section_prefix"`
	// FieldBlockTypes limits which block types carry the animation field.
	// Empty means every block type does.
	FieldBlockTypes []string           `yaml:"field_block_types"`
	Definitions     []DefinitionConfig `yaml:"definitions"`
	DefinitionDir   string             `yaml:"definition_dir"`
}

// DefinitionConfig declares a definition to bootstrap at start-up.
type DefinitionConfig struct {
	Key               string            `yaml:"key"`
	Label             string            `yaml:"label"`
	Description       string            `yaml:"description"`
	Icon              string            `yaml:"icon"`
	Status            animation.Status  `yaml:"status"`
	AllowedBlockTypes []string          `yaml:"allowed_block_types"`
	Fields            []animation.Field `yaml:"fields"`
	Code              string            `yaml:"code"`
}

// DefaultConfig returns the defaults: memory storage, a one minute cache and
// console logging.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite3",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Navigation: NavigationConfig{
			IDParam: "id",
		},
		Animations: AnimationsConfig{
			ContainerFields: []string{"story_blocks", "catalog_items"},
			SectionPrefix:   "paragraph-id-",
		},
	}
}

// LoadFile reads a YAML file over DefaultConfig and validates the result.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML over DefaultConfig and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Provider) {
	case "", "memory":
	case "bun":
		if !isSupportedDriver(normalize(cfg.Storage.Driver)) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	if (strings.TrimSpace(cfg.Navigation.Group) == "") != (strings.TrimSpace(cfg.Navigation.Route) == "") {
		return ErrNavigationRouteIncomplete
	}
	if cfg.Features.DefinitionFiles && strings.TrimSpace(cfg.Animations.DefinitionDir) == "" {
		return ErrDefinitionDirRequired
	}
	for i, def := range cfg.Animations.Definitions {
		if strings.TrimSpace(def.Key) == "" && strings.TrimSpace(def.Label) == "" {
			return fmt.Errorf("%w: position %d", ErrDefinitionKeyRequired, i)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite3", "sqlite", "postgres", "pg":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
