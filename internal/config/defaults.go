package config

const (
	defaultImageDir     = "~/.local/share/easel/images"
	defaultDataDir      = "~/.local/share/easel/data"
	defaultLogDir       = "~/.local/share/easel/logs"
	defaultAPIBind      = "127.0.0.1:7351"
	defaultLeaseSeconds = 300
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ImageDir: defaultImageDir,
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Queue: Queue{
			LeaseSeconds: defaultLeaseSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
