package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/greghart/dbentry/entryp"
	"github.com/greghart/dbentry/queryp"
	"github.com/spf13/cobra"
)

func newSelectCmd(opts *options) *cobra.Command {
	var cols, where []string
	var top int
	cmd := &cobra.Command{
		Use:   "select TABLE --col NAME[:type]...",
		Short: "Select rows of a table",
		Long:  `Selects the given columns of every row matching all --where properties, and prints them as a table.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cols) == 0 {
				return errors.New("select needs at least one --col")
			}
			props, err := parseProperties(cols, parseColumn)
			if err != nil {
				return err
			}
			template, err := entryp.New(args[0], props...)
			if err != nil {
				return err
			}
			search, err := parseProperties(where, parseProperty)
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if s.ex == nil {
					q, err := s.builder.Select(template, top, search...)
					if err != nil {
						return err
					}
					return s.printQuery(cmd, q)
				}
				rows, err := template.Get(ctx, s.ex, top, search...)
				if err != nil {
					return err
				}
				return printEntries(cmd.OutOrStdout(), template.Names(), rows)
			})
		},
	}
	cmd.Flags().StringArrayVar(&cols, "col", nil, "column to select, as NAME[:type]")
	cmd.Flags().StringArrayVar(&where, "where", nil, "property rows must match, as NAME[:type]=VALUE")
	cmd.Flags().IntVar(&top, "top", 0, "maximum number of rows, all when 0")
	return cmd
}

func newInsertCmd(opts *options) *cobra.Command {
	var sets []string
	var identity string
	cmd := &cobra.Command{
		Use:   "insert TABLE --set NAME[:type]=VALUE...",
		Short: "Insert a row into a table",
		Long: `Inserts a row holding the --set properties, and prints the number of rows affected.
With --identity, prints the identity the row was given instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := entryFromSets(args[0], sets)
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if s.ex == nil {
					build := s.builder.Insert
					if identity != "" {
						build = func(entries ...*entryp.Entry) (*queryp.Query, error) {
							return s.builder.InsertIdentity(entries[0])
						}
					}
					q, err := build(entry)
					if err != nil {
						return err
					}
					return s.printQuery(cmd, q)
				}
				if identity == "" {
					n, err := s.ex.InsertEntries(ctx, entry)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", n)
					return err
				}
				u := entryp.AsUnique[int64](identity, entry)
				if err := u.Insert(ctx, s.ex); err != nil {
					return err
				}
				id, _ := u.ID()
				s.logger.Info("inserted row", "table", entry.Table(), identity, id)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s=%d\n", identity, id)
				return err
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "property to insert, as NAME[:type]=VALUE")
	cmd.Flags().StringVar(&identity, "identity", "", "auto incremented primary key column to print")
	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	var sets, where []string
	cmd := &cobra.Command{
		Use:   "update TABLE --set NAME[:type]=VALUE... --where NAME[:type]=VALUE...",
		Short: "Update rows of a table",
		Long:  `Sets the --set properties on every row matching all --where properties, and prints the number of rows affected.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := entryFromSets(args[0], sets)
			if err != nil {
				return err
			}
			search, err := parseProperties(where, parseProperty)
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if s.ex == nil {
					q, err := s.builder.Update(entry, search...)
					if err != nil {
						return err
					}
					return s.printQuery(cmd, q)
				}
				n, err := entry.Update(ctx, s.ex, search...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", n)
				return err
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "property to set, as NAME[:type]=VALUE")
	cmd.Flags().StringArrayVar(&where, "where", nil, "property rows must match, as NAME[:type]=VALUE")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	var where []string
	cmd := &cobra.Command{
		Use:   "delete TABLE --where NAME[:type]=VALUE...",
		Short: "Delete rows of a table",
		Long:  `Deletes every row matching all --where properties, and prints the number of rows affected.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := entryp.New(args[0])
			if err != nil {
				return err
			}
			search, err := parseProperties(where, parseProperty)
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if s.ex == nil {
					q, err := s.builder.Delete(entry, search...)
					if err != nil {
						return err
					}
					return s.printQuery(cmd, q)
				}
				n, err := entry.Delete(ctx, s.ex, search...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", n)
				return err
			})
		},
	}
	cmd.Flags().StringArrayVar(&where, "where", nil, "property rows must match, as NAME[:type]=VALUE")
	return cmd
}

////////////////////////////////////////////////////////////////////////////////

func entryFromSets(table string, sets []string) (*entryp.Entry, error) {
	if len(sets) == 0 {
		return nil, errors.New("at least one --set is required")
	}
	props, err := parseProperties(sets, parseProperty)
	if err != nil {
		return nil, err
	}
	return entryp.New(table, props...)
}

// printEntries prints the entries as a tab aligned table, with a header of their names.
func printEntries(out io.Writer, names []string, entries []*entryp.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(names, "\t"))
	for _, e := range entries {
		values := make([]string, len(names))
		for i, name := range names {
			values[i] = formatValue(e.Value(name))
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	return w.Flush()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return Null
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return "0x" + hex.EncodeToString(v)
	}
	return fmt.Sprint(v)
}
