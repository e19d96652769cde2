package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Store  StoreConfig  `mapstructure:"store"  yaml:"store"`
	Search SearchConfig `mapstructure:"search" yaml:"search"`
	Sample SampleConfig `mapstructure:"sample" yaml:"sample"`
	Log    LogConfig    `mapstructure:"log"    yaml:"log"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"             yaml:"port"`
	Mode            string `mapstructure:"mode"             yaml:"mode"`
	CORSOrigin      string `mapstructure:"cors_origin"      yaml:"cors_origin"`
	RateLimit       int    `mapstructure:"rate_limit"       yaml:"rate_limit"`
	RateBurst       int    `mapstructure:"rate_burst"       yaml:"rate_burst"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StoreConfig describes the listing database. Either DSN is set, or the
// connection parts are, in which case DSN is derived from them.
type StoreConfig struct {
	Driver          string `mapstructure:"driver"            yaml:"driver"`
	DSN             string `mapstructure:"dsn"               yaml:"dsn"`
	Host            string `mapstructure:"host"              yaml:"host"`
	Port            int    `mapstructure:"port"              yaml:"port"`
	User            string `mapstructure:"user"              yaml:"user"`
	Password        string `mapstructure:"password"          yaml:"password"`
	Name            string `mapstructure:"name"              yaml:"name"`
	SSLMode         string `mapstructure:"sslmode"           yaml:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"    yaml:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ProbeTimeout    string `mapstructure:"probe_timeout"     yaml:"probe_timeout"`
	ProbeInterval   string `mapstructure:"probe_interval"    yaml:"probe_interval"`
	QueryTimeout    string `mapstructure:"query_timeout"     yaml:"query_timeout"`
}

type SearchConfig struct {
	HardCap         int `mapstructure:"hard_cap"          yaml:"hard_cap"`
	DefaultPageSize int `mapstructure:"default_page_size" yaml:"default_page_size"`
}

type SampleConfig struct {
	// File is an optional CSV that replaces the built-in sample rows.
	File string `mapstructure:"file" yaml:"file"`
}

type LogConfig struct {
	Level     string            `mapstructure:"level"      yaml:"level"`
	Format    string            `mapstructure:"format"     yaml:"format"`
	File      string            `mapstructure:"file"       yaml:"file"`
	AddSource bool              `mapstructure:"add_source" yaml:"add_source"`
	Rotation  LogRotationConfig `mapstructure:"rotation"   yaml:"rotation"`
}

type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"    yaml:"max_size"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"     yaml:"max_age"`
	Compress   bool `mapstructure:"compress"    yaml:"compress"`
}

// Addr is the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Enabled reports whether any database was configured.
func (c StoreConfig) Enabled() bool {
	return c.DSN != "" || c.Host != ""
}

// ConnString returns DSN, or a postgres URL built from the connection parts.
func (c StoreConfig) ConnString() string {
	if c.DSN != "" || c.Host == "" {
		return c.DSN
	}

	host := c.Host
	if c.Port > 0 {
		host = fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   host,
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// Duration parses a config duration, returning def when s is empty or invalid.
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
