package config

const (
	defaultConfigPath          = "~/.config/clipmark/config.toml"
	defaultDataDir             = "~/.local/share/clipmark"
	defaultLogDir              = "~/.local/share/clipmark/logs"
	defaultAPIBind             = "127.0.0.1:7488"
	defaultStorageBackend      = "file"
	defaultKeyPrefix           = "video_storage_"
	defaultTTLDays             = 30
	defaultMaxValueBytes       = 4096
	defaultRedisAddr           = "localhost:6379"
	defaultDebounceMillis      = 1000
	defaultPlaceholderDuration = 100
	defaultPlaybackBackend     = "none"
	defaultOEmbedURL           = "https://www.youtube.com/oembed"
	defaultValidationTimeout   = 10
	defaultExportDir           = "~/Videos/clipmark"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Storage: Storage{
			Backend:       defaultStorageBackend,
			KeyPrefix:     defaultKeyPrefix,
			TTLDays:       defaultTTLDays,
			MaxValueBytes: defaultMaxValueBytes,
			RedisAddr:     defaultRedisAddr,
		},
		Editor: Editor{
			DebounceMillis:      defaultDebounceMillis,
			PlaceholderDuration: defaultPlaceholderDuration,
		},
		Playback: Playback{
			Backend:   defaultPlaybackBackend,
			SeekAhead: true,
		},
		Validation: Validation{
			CheckAvailability: true,
			OEmbedURL:         defaultOEmbedURL,
			TimeoutSeconds:    defaultValidationTimeout,
		},
		Export: Export{
			OutputDir: defaultExportDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
