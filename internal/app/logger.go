package app

import (
	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/logger"
)

// InitializeLogger configures the global logger from the Log config section.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}
