package config

const (
	defaultDataDir           = "~/.local/share/shortlist"
	defaultLogDir            = "~/.local/share/shortlist/logs"
	defaultAPIBind           = "127.0.0.1:7519"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultSessionTTLMinutes = 12 * 60
	defaultFeedBuffer        = 512
	defaultSessionPurgeSpec  = "@every 10m"
	defaultSeedUsername      = "admin"
	defaultSeedPassword      = "admin"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Auth: Auth{
			SessionTTLMinutes: defaultSessionTTLMinutes,
			SeedUsername:      defaultSeedUsername,
			SeedPassword:      defaultSeedPassword,
		},
		Feed: Feed{
			Buffer: defaultFeedBuffer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Maintenance: Maintenance{
			SessionPurge: defaultSessionPurgeSpec,
		},
	}
}
