// Package config handles the parsing and validation of application
// configuration from command-line arguments and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/satprobe/internal/logger"
	"github.com/woozymasta/satprobe/internal/render"
	"github.com/woozymasta/satprobe/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Server  Server        `group:"Server Options" env-namespace:"SATPROBE"`
	Output  Output        `group:"Output Options" env-namespace:"SATPROBE"`
	History History       `group:"History Options" env-namespace:"SATPROBE"`
	Logger  logger.Config `group:"Logger Options" namespace:"log" env-namespace:"SATPROBE_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds connection settings for the dedicated server API.
type Server struct {
	// betteralign:ignore

	URL         string        `short:"s" long:"server-url" env:"SERVER_URL" description:"Base URL of the dedicated server API" default:"https://localhost:7777"`
	Password    string        `short:"p" long:"password" env:"PASSWORD" description:"Administrator password"`
	Timeout     time.Duration `long:"timeout" env:"TIMEOUT" description:"HTTP request timeout" default:"30s"`
	InsecureTLS bool          `short:"k" long:"insecure-tls" env:"INSECURE_TLS" description:"Accept any server TLS certificate, needed for the default self-signed one"`
}

// Output holds report rendering settings.
type Output struct {
	// betteralign:ignore

	Format  string `short:"o" long:"output-format" env:"OUTPUT_FORMAT" description:"Report format (console, json, csv or table)" default:"console"`
	NoColor bool   `long:"no-color" env:"NO_COLOR" description:"Disable colors in console output"`
}

// History holds the optional probe history settings.
type History struct {
	// betteralign:ignore

	Path string `long:"history-db" env:"HISTORY_DB" description:"SQLite file to append probe samples to (disabled when empty)"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the process on --help and --version (exit 0) and on
// invalid configuration (exit 2).
func Parse() *Config {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	return cfg
}

func parseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate enforces what the flag tags cannot express: the password must
// come from somewhere and the output format must be known.
func (c *Config) validate() error {
	if c.Server.Password == "" {
		return errors.New(
			"required flag `-p, --password' or environment variable `SATPROBE_PASSWORD` was not specified")
	}

	if _, err := render.ParseFormat(c.Output.Format); err != nil {
		return err
	}

	return nil
}
