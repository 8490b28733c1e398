package app

import (
	"strings"

	"github.com/verol11/qhse-app/pkg/logger"
)

// ConfigureLogging initialises the global logger from the server config,
// defaulting to info level and json encoding.
func ConfigureLogging(cfg ServerConfig) error {
	level := strings.TrimSpace(cfg.LogLevel)
	if level == "" {
		level = "info"
	}

	encoding := strings.TrimSpace(cfg.LogEncoding)
	if encoding == "" {
		encoding = "json"
	}

	return logger.Init(level, encoding)
}
