package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultLogDir           = "~/.local/share/livpconv/logs"
	defaultOutputDir        = "Converted_JPGs"
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultMaxRetries       = 3
	defaultJPEGQuality      = 92
	defaultBackend          = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir(),
			LogDir:     defaultLogDir,
			OutputDir:  defaultOutputDir,
		},
		Conversion: Conversion{
			MaxRetries:  defaultMaxRetries,
			JPEGQuality: defaultJPEGQuality,
			Backend:     defaultBackend,
			AutoOrient:  true,
			StripMeta:   true,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

func defaultStagingDir() string {
	return filepath.Join(os.TempDir(), "livpconv")
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "livpconv", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/livpconv/history.db"
	}
	return filepath.Join(home, ".local", "share", "livpconv", "history.db")
}
