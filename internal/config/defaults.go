package config

import "github.com/spf13/viper"

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			CORSOrigin:      "*",
			RateLimit:       600,
			RateBurst:       60,
			ShutdownTimeout: "10s",
		},
		Store: StoreConfig{
			Driver:          "postgres",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: "30m",
			ProbeTimeout:    "2s",
			ProbeInterval:   "30s",
			QueryTimeout:    "10s",
		},
		Search: SearchConfig{
			HardCap:         500,
			DefaultPageSize: 12,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
			},
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.cors_origin", d.Server.CORSOrigin)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("store.host", d.Store.Host)
	v.SetDefault("store.port", d.Store.Port)
	v.SetDefault("store.user", d.Store.User)
	v.SetDefault("store.password", d.Store.Password)
	v.SetDefault("store.name", d.Store.Name)
	v.SetDefault("store.sslmode", d.Store.SSLMode)
	v.SetDefault("store.max_open_conns", d.Store.MaxOpenConns)
	v.SetDefault("store.max_idle_conns", d.Store.MaxIdleConns)
	v.SetDefault("store.conn_max_lifetime", d.Store.ConnMaxLifetime)
	v.SetDefault("store.probe_timeout", d.Store.ProbeTimeout)
	v.SetDefault("store.probe_interval", d.Store.ProbeInterval)
	v.SetDefault("store.query_timeout", d.Store.QueryTimeout)

	v.SetDefault("search.hard_cap", d.Search.HardCap)
	v.SetDefault("search.default_page_size", d.Search.DefaultPageSize)

	v.SetDefault("sample.file", d.Sample.File)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.add_source", d.Log.AddSource)
	v.SetDefault("log.rotation.max_size", d.Log.Rotation.MaxSize)
	v.SetDefault("log.rotation.max_backups", d.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age", d.Log.Rotation.MaxAge)
	v.SetDefault("log.rotation.compress", d.Log.Rotation.Compress)
}
