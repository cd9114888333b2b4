package config

const (
	defaultDataDir           = "~/.local/share/modq"
	defaultLogDir            = "~/.local/share/modq/logs"
	defaultServerBind        = "127.0.0.1:7319"
	defaultServerURL         = "http://127.0.0.1:7319"
	defaultQueueCapacity     = 4
	defaultStatsPollInterval = 30
	defaultRequestTimeout    = 10
	defaultNotifyTimeout     = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Reviewer: Reviewer{
			ServerURL:         defaultServerURL,
			QueueCapacity:     defaultQueueCapacity,
			StatsPollInterval: defaultStatsPollInterval,
			RequestTimeout:    defaultRequestTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			HighRisk:       true,
			Decisions:      false,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
