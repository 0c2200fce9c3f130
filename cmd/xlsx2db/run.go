package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/cmcgovern/handy-scripts/internal/config"
	"github.com/cmcgovern/handy-scripts/internal/core"
	"github.com/cmcgovern/handy-scripts/internal/logging"
	"github.com/cmcgovern/handy-scripts/internal/storage"
	"github.com/cmcgovern/handy-scripts/internal/web"
	"github.com/cmcgovern/handy-scripts/internal/workbook"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// loadConfig reads .env, the environment and flag overrides, then sets up logging.
func loadConfig(opts *options) (*config.Config, error) {
	// Overload so .env wins over the inherited environment.
	envErr := godotenv.Overload()

	overrides := map[string]string{
		"DATABASE_URL":        opts.databaseURL,
		"IMPORT_ON_ROW_ERROR": opts.onRowError,
	}
	if opts.verbose {
		overrides["LOG_LEVEL"] = "debug"
	}

	cfg, err := config.LoadFrom(config.WithOverrides(os.LookupEnv, overrides))
	if err != nil {
		return nil, &usageError{err: err}
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file")
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	return cfg, nil
}

// connect opens the pool and builds the import service.
func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *core.Service, error) {
	pool, err := storage.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	service, err := core.NewService(storage.New(pool), cfg.Import)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, service, nil
}

func runImport(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	wb, err := workbook.Open(path)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets, err := wb.Sheets()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, service, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	result, err := service.Import(ctx, filepath.Base(path), sheets)
	if result == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		if encErr := writeJSON(out, result); encErr != nil {
			return encErr
		}
	} else {
		printImport(out, result)
	}

	if err != nil {
		return fmt.Errorf("%d of %d worksheets failed", countFailed(result), len(result.Sheets))
	}
	return nil
}

func runUndo(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	wb, err := workbook.Open(path)
	if err != nil {
		return err
	}
	names := wb.SheetNames()
	wb.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, service, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	results, err := service.Undo(ctx, names)
	if results == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		if encErr := writeJSON(out, results); encErr != nil {
			return encErr
		}
	} else {
		printUndo(out, results)
	}
	return err
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	pool, service, err := connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	server := web.NewServer(service, storage.New(pool), cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCh:
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := service.LimiterStatus(); status.Active > 0 {
		slog.Info("waiting for imports to complete", "active", status.Active)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}

func countFailed(result *core.ImportResult) int {
	n := 0
	for _, s := range result.Sheets {
		if s.Phase == core.PhaseFailed {
			n++
		}
	}
	return n
}

func printImport(w io.Writer, result *core.ImportResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tTABLE\tINSERTED\tSKIPPED\tSTATUS")
	for _, s := range result.Sheets {
		status := string(s.Phase)
		switch {
		case core.IsUserFacing(s.Err):
			status += ": " + core.FormatUserError(s.Err)
		case s.Error != "":
			status += ": " + s.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.Sheet, s.Table, s.Inserted, s.Skipped, status)
	}
	tw.Flush()

	for _, s := range result.Sheets {
		for _, fr := range s.FailedRows {
			fmt.Fprintf(w, "skipped %s row %d: %s\n", s.Sheet, fr.Row, fr.Reason)
		}
	}
	fmt.Fprintf(w, "run %s: %d rows in %s\n", result.RunID, result.Inserted(), result.Duration.Round(time.Millisecond))
}

func printUndo(w io.Writer, results []core.UndoResult) {
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s: %s\n", r.Table, r.Error)
			continue
		}
		fmt.Fprintf(w, "dropped %s\n", r.Table)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
