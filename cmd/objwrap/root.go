package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/objwrap/pkg/objwrap/observability"
)

// app carries the state shared by all subcommands.
type app struct {
	v       *viper.Viper
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:       viper.New(),
		out:     out,
		errOut:  errOut,
		metrics: observability.NewMetricsRecorder(),
		spans:   observability.NewSpanManager(),
	}

	root := &cobra.Command{
		Use:           "objwrap",
		Short:         "Inspect and update schema-fixed key/value documents",
		Long:          `objwrap loads a YAML or JSON document whose top-level keys form a fixed schema. Values of existing keys can be read, searched and changed; keys can never be added.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml or json)")
	flags.String("db", "objwrap.db", "SQLite snapshot database path")
	flags.String("output", "table", "output format: table or json")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		a.newCheckCmd(),
		a.newShowCmd(),
		a.newGetCmd(),
		a.newFindCmd(),
		a.newSetCmd(),
		a.newHistoryCmd(),
		a.newRestoreCmd(),
	)

	return root
}

// setup reads the config file and environment and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("OBJWRAP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level, err := parseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	switch a.output() {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q", a.output())
	}
	return nil
}

func (a *app) output() string {
	return strings.ToLower(a.v.GetString("output"))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
