// Command costctl runs ingredient imports, exports and reports against the
// costing database without going through the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/costeo/internal/config"
	"github.com/Simplici0/costeo/internal/logger"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lc := logger.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.Format = cfg.LogFormat
	if err := logger.Setup(lc); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		l := logger.WithComponent("cmd")
		l.Error().Err(err).Msg("command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
