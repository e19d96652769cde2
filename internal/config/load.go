package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "APTSEARCH"

var searchPaths = []string{".", "./config", "/etc/apartment-search"}

// legacyEnv maps config keys to the environment names used by older
// deployments of the service.
var legacyEnv = map[string][]string{
	"store.dsn":      {"DATABASE_URL"},
	"server.port":    {"PORT"},
	"store.host":     {"DB_HOST"},
	"store.port":     {"DB_PORT"},
	"store.user":     {"DB_USER"},
	"store.password": {"DB_PASS"},
	"store.name":     {"DB_NAME"},
}

// Load reads .env files, the optional config file at path (or config.yaml in
// the search paths) and the environment into a Config. Flags bound on v before
// the call take precedence over all of them.
func Load(v *viper.Viper, path string) (*Config, error) {
	loadDotEnv(path)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		envPrefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, envPrefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(path string) {
	files := []string{".env", ".env.local"}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	if path == "" {
		return
	}
	dir := filepath.Dir(path)
	for _, f := range files {
		_ = godotenv.Load(filepath.Join(dir, f))
	}
}
