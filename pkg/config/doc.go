// Package config loads typed configuration from the environment, optional
// .env files and optional YAML files.
//
// It wraps github.com/joho/godotenv, github.com/caarlos0/env/v11 and
// gopkg.in/yaml.v3:
//
//   - Load parses the environment into a struct using env tags and caches
//     the result per type. The default .env file is read once, if present.
//   - LoadEnv reads explicit .env files before the first Load.
//   - LoadFile parses the environment and then overlays a YAML document,
//     so a config file can override individual settings. It is not cached.
//   - ResetCache clears the cache between tests.
//
// # Usage
//
//	var cfg jwtsession.Config
//	if err := config.LoadFile(&cfg, flagConfigPath); err != nil {
//		return err
//	}
//
// Fields need both tags to be set from either source:
//
//	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m" yaml:"idle_timeout"`
//
// # Errors
//
// Sentinel errors are joined with the underlying cause and can be matched
// with errors.Is: ErrParsingConfig, ErrConfigNotLoaded, ErrNilPointer,
// ErrLoadingEnvFile, ErrReadingFile and ErrParsingFile.
package config
