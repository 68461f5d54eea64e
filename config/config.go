// Package config loads wheelhost settings from a YAML file, WHEELHOST_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WHEELHOST_SERVER_PORT.
const EnvPrefix = "WHEELHOST"

// Store drivers.
const (
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Files  FilesConfig  `mapstructure:"files"`
	Store  StoreConfig  `mapstructure:"store"`
	Wasm   WasmConfig   `mapstructure:"wasm"`
	Wheel  WheelConfig  `mapstructure:"wheel"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// ServerConfig holds HTTP bridge configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	MaxBodySize  int64         `mapstructure:"max_body_size" validate:"gte=0"`
	// AllowedOrigins are the browser origins the bridge answers. Requests
	// without an Origin header are always accepted.
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

// FilesConfig limits the file commands. Empty roots and a zero size mean
// unrestricted.
type FilesConfig struct {
	AllowedRoots []string `mapstructure:"allowed_roots" validate:"dive,required"`
	MaxSize      int64    `mapstructure:"max_size" validate:"gte=0"`
}

// StoreConfig selects where the wheel state is persisted.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=yaml sqlite"`
	Path   string `mapstructure:"path"`
	// FileMode and DirMode apply to the yaml driver.
	FileMode uint32 `mapstructure:"file_mode" validate:"gt=0,lte=511"`
	DirMode  uint32 `mapstructure:"dir_mode" validate:"gt=0,lte=511"`
}

// WasmConfig holds guest transport configuration.
type WasmConfig struct {
	ModuleName     string `mapstructure:"module_name" validate:"required"`
	MaxRequestSize uint32 `mapstructure:"max_request_size" validate:"gt=0"`
}

// WheelConfig holds spin wheel settings.
type WheelConfig struct {
	PersistKey string `mapstructure:"persist_key" validate:"required"`
}

// Load reads configuration from path. An empty path looks for config.yaml in
// the user config directory and silently falls back to defaults when none
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if def := DefaultFile(); def != "" {
		v.SetConfigFile(def)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Driver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 1430)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_body_size", 1<<20)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:1420", "tauri://localhost", "http://tauri.localhost"})

	v.SetDefault("files.allowed_roots", []string{})
	v.SetDefault("files.max_size", 0)

	v.SetDefault("store.driver", DriverYAML)
	v.SetDefault("store.path", "")
	v.SetDefault("store.file_mode", 0o600)
	v.SetDefault("store.dir_mode", 0o755)

	v.SetDefault("wasm.module_name", "wheel_host")
	v.SetDefault("wasm.max_request_size", 1<<20)

	v.SetDefault("wheel.persist_key", "spinwheel:enabled")
}

// Validate checks the struct tags of c.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Dir returns the wheelhost directory under the user config directory, or ""
// when the platform has none.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "wheelhost")
}

// DefaultFile returns the config file looked up when no path is given.
func DefaultFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultStorePath returns the store location for driver.
func DefaultStorePath(driver string) string {
	name := "wheel.yaml"
	if driver == DriverSQLite {
		name = "wheel.db"
	}
	dir := Dir()
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
