package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/objwrap/pkg/objwrap"
	"github.com/randalmurphal/objwrap/pkg/objwrap/config"
	"github.com/randalmurphal/objwrap/pkg/objwrap/observability"
	"github.com/randalmurphal/objwrap/pkg/objwrap/selfcheck"
	"github.com/randalmurphal/objwrap/pkg/objwrap/snapshot"
)

var (
	// errChecksFailed is returned by check; the NG lines are already printed.
	errChecksFailed = errors.New("self-check failed")

	// errKeyNotInSchema is returned when get or set names a key the document does not have.
	errKeyNotInSchema = errors.New("key is not in schema")

	// errNoDatabase is returned by read-only commands when --db does not exist.
	errNoDatabase = errors.New("snapshot database does not exist")
)

// traced runs fn inside a command span.
func (a *app) traced(name string, fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, span := a.spans.StartCommandSpan(ctx, name)
		defer func() { a.spans.EndSpanWithError(span, err) }()
		return fn(ctx, args)
	}
}

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the wrapper self-check scenarios",
		Args:  cobra.NoArgs,
		RunE: a.traced("check", func(_ context.Context, _ []string) error {
			results := selfcheck.Run(objwrap.WithLogger(a.logger), objwrap.WithMetrics(a.metrics))
			if failed := selfcheck.Report(results, a.out, a.errOut); failed > 0 {
				return fmt.Errorf("%w: %d of %d", errChecksFailed, failed, len(results))
			}
			return nil
		}),
	}
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print every key and value of a document",
		Args:  cobra.ExactArgs(1),
		RunE: a.traced("show", func(ctx context.Context, args []string) error {
			cfg, err := a.loadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			return a.printWrapper(cfg.Wrapper())
		}),
	}
}

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE KEY",
		Short: "Print the value of one key",
		Args:  cobra.ExactArgs(2),
		RunE: a.traced("get", func(ctx context.Context, args []string) error {
			cfg, err := a.loadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			v, ok := cfg.Wrapper().Get(args[1])
			if !ok {
				return fmt.Errorf("%w: %q", errKeyNotInSchema, args[1])
			}
			if a.output() == "json" {
				return a.printJSON(v)
			}
			fmt.Fprintln(a.out, formatValue(v))
			return nil
		}),
	}
}

func (a *app) newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find FILE VALUE",
		Short: "Print every key whose value equals VALUE",
		Long:  `VALUE is decoded like a YAML scalar, so 42 matches the integer 42 and "42" (quoted) matches the string. When the decoded value matches nothing, VALUE is tried again as a plain string, so 02 finds "02".`,
		Args:  cobra.ExactArgs(2),
		RunE: a.traced("find", func(ctx context.Context, args []string) error {
			cfg, err := a.loadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			w := cfg.Wrapper()
			value := config.ParseValue(args[1])
			keys := w.FindKeys(value)
			if _, isString := value.(string); len(keys) == 0 && !isString {
				keys = w.FindKeys(args[1])
			}
			if a.output() == "json" {
				return a.printJSON(keys)
			}
			for _, k := range keys {
				fmt.Fprintln(a.out, k)
			}
			return nil
		}),
	}
}

func (a *app) newSetCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "set FILE KEY VALUE",
		Short: "Change the value of an existing key and save a snapshot",
		Long:  `set loads FILE, changes KEY to VALUE and records the resulting state as a snapshot in the database. FILE itself is not modified. KEY must already exist in the document.`,
		Args:  cobra.ExactArgs(3),
		RunE: a.traced("set", func(ctx context.Context, args []string) error {
			cfg, err := a.loadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			w := cfg.Wrapper()
			current, _ := w.Get(args[1])
			if !w.Set(args[1], config.ParseValueLike(current, args[2])) {
				return fmt.Errorf("%w: %q", errKeyNotInSchema, args[1])
			}

			rec, err := snapshot.Capture(w, documentName(args[0], name))
			if err != nil {
				return err
			}
			archive, closeStore, err := a.openArchive(false)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := archive.Put(ctx, rec); err != nil {
				return err
			}
			fmt.Fprintln(a.out, rec.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "snapshot name (default: file name without extension)")
	return cmd
}

func (a *app) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history NAME",
		Short: "List saved snapshots for a document name",
		Args:  cobra.ExactArgs(1),
		RunE: a.traced("history", func(ctx context.Context, args []string) error {
			archive, closeStore, err := a.openArchive(true)
			if err != nil {
				return err
			}
			defer closeStore()

			infos, err := archive.History(ctx, args[0])
			if err != nil {
				return err
			}
			if a.output() == "json" {
				return a.printJSON(infos)
			}
			if len(infos) == 0 {
				fmt.Fprintf(a.out, "No snapshots for %s\n", args[0])
				return nil
			}

			table := tablewriter.NewWriter(a.out)
			table.Header("Seq", "ID", "Timestamp", "Size")
			for _, info := range infos {
				if err := table.Append(
					fmt.Sprintf("%d", info.Sequence),
					info.ID,
					info.Timestamp.Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%d B", info.Size),
				); err != nil {
					return err
				}
			}
			return table.Render()
		}),
	}
}

func (a *app) newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore NAME [ID]",
		Short: "Print a saved snapshot (the latest when ID is omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.traced("restore", func(ctx context.Context, args []string) error {
			archive, closeStore, err := a.openArchive(true)
			if err != nil {
				return err
			}
			defer closeStore()

			id := ""
			if len(args) == 2 {
				id = args[1]
			}
			rec, err := archive.Get(ctx, args[0], id)
			if err != nil {
				return err
			}
			w, err := snapshot.Restore[any](rec, objwrap.WithLogger(a.logger), objwrap.WithMetrics(a.metrics))
			if err != nil {
				return err
			}
			return a.printWrapper(w)
		}),
	}
}

// loadDocument parses path into a Config named after the file.
func (a *app) loadDocument(ctx context.Context, path string) (config.Config, error) {
	cfg, err := config.FromFile(path,
		objwrap.WithName(documentName(path, "")),
		objwrap.WithLogger(a.logger),
		objwrap.WithMetrics(a.metrics),
	)
	if err != nil {
		return config.Config{}, err
	}
	a.spans.AddSpanEvent(ctx, "document.loaded",
		attribute.String("path", path),
		attribute.Int("keys", cfg.Wrapper().Len()),
	)
	observability.LogDocumentLoaded(a.logger, path, cfg.Wrapper().Len())
	return cfg, nil
}

// openArchive opens the --db store. With mustExist, a missing database file
// is an error instead of being created.
func (a *app) openArchive(mustExist bool) (*snapshot.Archive, func(), error) {
	path := a.v.GetString("db")
	if mustExist && path != ":memory:" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", errNoDatabase, path)
		}
	}
	store, err := snapshot.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, err
	}
	archive := snapshot.NewArchive(store,
		snapshot.WithLogger(a.logger),
		snapshot.WithMetrics(a.metrics),
		snapshot.WithSpans(a.spans),
	)
	return archive, func() { _ = store.Close() }, nil
}

func (a *app) printWrapper(w *objwrap.Wrapper[any]) error {
	if a.output() == "json" {
		return a.printJSON(w)
	}
	table := tablewriter.NewWriter(a.out)
	table.Header("Key", "Value")
	for k, v := range w.All() {
		if err := table.Append(k, formatValue(v)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// documentName returns override, or the base name of path without extension.
func documentName(path, override string) string {
	if override != "" {
		return override
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// formatValue prints strings bare and everything else as JSON.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
