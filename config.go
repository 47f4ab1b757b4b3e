package animations

import "github.com/goliatone/go-cms-animations/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid           = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrDefinitionDirRequired     = runtimeconfig.ErrDefinitionDirRequired
	ErrNavigationRouteIncomplete = runtimeconfig.ErrNavigationRouteIncomplete
	ErrDefinitionKeyRequired     = runtimeconfig.ErrDefinitionKeyRequired
)

type (
	Config           = runtimeconfig.Config
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	Features         = runtimeconfig.Features
	LoggingConfig    = runtimeconfig.LoggingConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	AnimationsConfig = runtimeconfig.AnimationsConfig
	DefinitionConfig = runtimeconfig.DefinitionConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
