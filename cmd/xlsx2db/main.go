// Command xlsx2db loads every worksheet of an xlsx workbook into a
// PostgreSQL table named after the worksheet.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cmcgovern/handy-scripts/internal/core"
	"github.com/spf13/cobra"
)

// Exit statuses.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks errors caused by bad command-line input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// options holds flags shared by every command.
type options struct {
	databaseURL string
	onRowError  string
	verbose     bool
	jsonOutput  bool
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	reportError(os.Stderr, err)
	return exitCode(err)
}

// reportError prints err and, when it maps to a known code, the
// user-facing message with its suggested action.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, "error:", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.FormatUserError(err))
	}
}

func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue), strings.HasPrefix(err.Error(), "unknown command"):
		return exitUsage
	default:
		return exitError
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var (
		file string
		undo bool
	)

	root := &cobra.Command{
		Use:   "xlsx2db -f book.xlsx [-x]",
		Short: "Load xlsx worksheets into PostgreSQL tables",
		Long: `xlsx2db creates one table per worksheet (named after the worksheet) and
inserts every row below the header row. Cells are matched to header fields
by column letter, so sparse rows load correctly.

With -x the tables the workbook would create are dropped instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return usagef("a workbook is required (-f book.xlsx)")
			}
			if undo {
				return runUndo(cmd, opts, file)
			}
			return runImport(cmd, opts, file)
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	pf.StringVar(&opts.onRowError, "on-row-error", "", "What to do with a bad row: abort or skip (overrides IMPORT_ON_ROW_ERROR)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")

	root.Flags().StringVarP(&file, "file", "f", "", "Workbook to load")
	root.Flags().BoolVarP(&undo, "undo", "x", false, "Drop the workbook's tables instead of loading")

	root.AddCommand(newImportCmd(opts), newUndoCmd(opts), newServeCmd(opts))
	return root
}

func newImportCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import -f book.xlsx",
		Short: "Load every worksheet of a workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return usagef("a workbook is required (-f book.xlsx)")
			}
			return runImport(cmd, opts, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Workbook to load")
	return cmd
}

func newUndoCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "undo -f book.xlsx",
		Short: "Drop the tables a workbook would create",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return usagef("a workbook is required (-f book.xlsx)")
			}
			return runUndo(cmd, opts, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Workbook whose tables to drop")
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP import API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}
