package driver

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// Config is the storage configuration the facade is built from.
type Config struct {
	Provider string `mapstructure:"provider"`
	// DSN is the database/sql data source name.
	DSN string `mapstructure:"dsn"`
	// ForcedServerVersion skips version detection, e.g. "11.0".
	ForcedServerVersion         string `mapstructure:"forced_server_version"`
	ConnectionInitializationSQL string `mapstructure:"connection_initialization_sql"`
	EnsureConnectionIsAlive     bool   `mapstructure:"ensure_connection_is_alive"`
	// IsMultidatabase makes compiled statements qualify objects with their
	// catalog name.
	IsMultidatabase bool   `mapstructure:"multidatabase"`
	DefaultSchema   string `mapstructure:"default_schema"`

	// ConnectionHandlers are pointer-to-struct types implementing
	// ConnectionHandler. They can only be set from code.
	ConnectionHandlers []reflect.Type `mapstructure:"-"`
}

// LoadConfig reads configuration with the precedence env > file >
// defaults. Environment variables use the SQLDOM_ prefix, e.g.
// SQLDOM_PROVIDER. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SQLDOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderSQLite)
	v.SetDefault("dsn", "")
	v.SetDefault("forced_server_version", "")
	v.SetDefault("connection_initialization_sql", "")
	v.SetDefault("ensure_connection_is_alive", false)
	v.SetDefault("multidatabase", false)
	v.SetDefault("default_schema", "")
}
