// Package cli implements the entryctl command: entry queries against a database from the shell.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/greghart/dbentry/internal/config"
	"github.com/greghart/dbentry/queryp"
	"github.com/greghart/dbentry/sqlp"
	"github.com/spf13/cobra"
)

var Version = "0.1.0"

// options are the persistent flags, shared by every subcommand.
type options struct {
	configFile string
	driver     string
	dsn        string
	dialect    string
	logLevel   string
	dryRun     bool
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd returns the entryctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "entryctl",
		Short: "Run entry queries against a database",
		Long: `entryctl builds select, insert, update and delete queries from entries, and runs them
against a database/sql driver (sqlite3, postgres, pgx or sqlserver).

Properties are given as NAME[:type]=VALUE, where type is one of the entry column types
(text by default) and the literal NULL is an absent value.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file")
	flags.StringVar(&opts.driver, "driver", "", "database/sql driver name (default sqlite3)")
	flags.StringVar(&opts.dsn, "dsn", "", "data source name")
	flags.StringVar(&opts.dialect, "dialect", "", "SQL dialect, derived from the driver when empty")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the statements instead of running them")

	rootCmd.AddCommand(newSelectCmd(opts))
	rootCmd.AddCommand(newInsertCmd(opts))
	rootCmd.AddCommand(newUpdateCmd(opts))
	rootCmd.AddCommand(newDeleteCmd(opts))
	return rootCmd
}

// loadConfig applies the flags set on cmd over the config file.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = o.driver
	}
	if flags.Changed("dsn") {
		cfg.DSN = o.dsn
	}
	if flags.Changed("dialect") {
		cfg.Dialect = o.dialect
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// session is what a subcommand runs with: either a builder to print statements with, or an open
// executor.
type session struct {
	dialect queryp.Dialect
	builder *queryp.Builder
	ex      *sqlp.Executor
	logger  *slog.Logger
	close   func() error
}

func (o *options) open(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dialect, err := cfg.ResolveDialect()
	if err != nil {
		return nil, err
	}
	s := &session{
		dialect: dialect,
		builder: queryp.NewBuilder(dialect),
		close:   func() error { return nil },
	}
	if o.dryRun {
		return s, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if s.logger, err = cfg.Logger(cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	db, err := sqlp.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}
	s.ex = sqlp.NewExecutor(db, dialect, sqlp.WithLogger(s.logger))
	s.close = db.Close
	s.logger.Debug("opened database", "driver", cfg.Driver, "dialect", dialect.Name)
	return s, nil
}

// run opens a session for the command, and closes it once fn is done.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(cmd.Context(), s)
}

// printQuery prints the statements q runs as for the session's dialect, each followed by its
// arguments.
func (s *session) printQuery(cmd *cobra.Command, q *queryp.Query) error {
	w := cmd.OutOrStdout()
	for _, n := range q.Named(s.dialect) {
		query, args := n.Execute()
		if _, err := fmt.Fprintf(w, "%s\n-- args: %v\n", query, args); err != nil {
			return err
		}
	}
	return nil
}
