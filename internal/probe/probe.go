// Package probe runs one authenticate-query-render cycle against a
// dedicated server and maps the outcome to a process exit code.
package probe

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/satprobe/internal/api"
	"github.com/woozymasta/satprobe/internal/config"
	"github.com/woozymasta/satprobe/internal/history"
	"github.com/woozymasta/satprobe/internal/logger"
	"github.com/woozymasta/satprobe/internal/render"
	"github.com/woozymasta/satprobe/internal/status"
)

// Outcome is the process exit code of a finished run.
type Outcome int

const (
	// PlayersOnline means the probe succeeded and players are connected.
	PlayersOnline Outcome = 0
	// NoPlayersOnline means the probe succeeded with an empty server.
	NoPlayersOnline Outcome = 1
	// Failed means a pipeline step failed and no report was produced.
	Failed Outcome = 2
)

// Run executes the full probe pipeline and writes the report to out.
// Any failure aborts the remaining steps; no partial report is ever
// written.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) Outcome {
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		log.Error().Err(err).Msg("Invalid output format")
		return Failed
	}

	client := api.NewClient(cfg.Server.URL, api.Options{
		Timeout:     cfg.Server.Timeout,
		InsecureTLS: cfg.Server.InsecureTLS,
	})

	log.Debug().Str("url", cfg.Server.URL).Msg("Authenticating")

	token, err := client.Authenticate(ctx, cfg.Server.Password)
	if err != nil {
		log.Error().Err(err).Msg("Authentication failed")
		return Failed
	}

	state, options, settings, err := fetchAll(ctx, client, token)
	if err != nil {
		log.Error().Err(err).Msg("Server query failed")
		return Failed
	}

	rec := status.Flatten(state, options, settings, cfg.Server.URL, time.Now())

	if cfg.History.Path != "" {
		appendHistory(cfg.History.Path, rec)
	}

	rep := &render.Report{
		Record:  rec,
		State:   state,
		Pending: options.Pending,
		Color:   colorEnabled(out, cfg.Output.NoColor),
	}
	if err := render.Write(out, format, rep); err != nil {
		log.Error().Err(err).Msg("Failed to write report")
		return Failed
	}

	if state.NumConnectedPlayers > 0 {
		return PlayersOnline
	}

	return NoPlayersOnline
}

// fetchAll issues the three read queries concurrently. They are
// independent of one another; the first failure cancels the rest and
// aborts the run.
func fetchAll(ctx context.Context, client *api.Client, token string) (*api.GameState, *api.ServerOptions, *api.AdvancedSettings, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		state    *api.GameState
		options  *api.ServerOptions
		settings *api.AdvancedSettings
	)

	errs := make([]error, 3)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		if state, errs[0] = client.QueryServerState(ctx, token); errs[0] != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if options, errs[1] = client.GetServerOptions(ctx, token); errs[1] != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if settings, errs[2] = client.GetAdvancedGameSettings(ctx, token); errs[2] != nil {
			cancel()
		}
	}()

	wg.Wait()

	// Prefer the root cause over errors produced by the cancellation.
	var firstErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		if !errors.Is(err, context.Canceled) {
			return nil, nil, nil, err
		}
	}
	if firstErr != nil {
		return nil, nil, nil, firstErr
	}

	return state, options, settings, nil
}

// appendHistory stores the sample in the history database. History is a
// best-effort extra; failures are logged but never suppress the report.
func appendHistory(path string, rec *status.Record) {
	histLog, err := history.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to open history database")
		return
	}
	defer func() {
		if err := histLog.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing history database")
		}
	}()

	written, err := histLog.Append(rec)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to append history sample")
		return
	}

	if written {
		log.Debug().Str("path", path).Msg("History sample stored")
	} else {
		log.Debug().Msg("History sample unchanged, skipped")
	}
}

// colorEnabled decides whether the console report may use ANSI colors:
// only when writing to a terminal and neither --no-color nor NO_COLOR
// asked to disable them.
func colorEnabled(w io.Writer, noColorFlag bool) bool {
	if noColorFlag || os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return logger.IsTerminal(f)
}
