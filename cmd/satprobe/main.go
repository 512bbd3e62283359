// main is the entry point of the satprobe command. It parses the
// configuration, probes the dedicated server once and exits with a code
// that reflects whether players are online (0), the server is empty (1)
// or the probe failed (2).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/satprobe/internal/config"
	"github.com/woozymasta/satprobe/internal/logger"
	"github.com/woozymasta/satprobe/internal/probe"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Debug().Str("server", cfg.Server.URL).Msg("Starting probe")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	outcome := probe.Run(ctx, cfg, os.Stdout)
	stop()

	os.Exit(int(outcome))
}
