// Command extracti18n walks a directory of JS/TS source, rewrites sentinel
// i18n hook usage into its production form, and reports the extracted
// message catalog (spec §2.12).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxhq/extracti18n/internal/batch"
	"github.com/oxhq/extracti18n/internal/config"
	"github.com/oxhq/extracti18n/internal/core"
	"github.com/oxhq/extracti18n/internal/logging"
	"github.com/oxhq/extracti18n/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "extracti18n",
		Short:         "Extract and rewrite next-intl sentinel i18n hooks",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging and verbose SQL logging")
	rootCmd.PersistentFlags().Bool("json", false, "emit JSON Lines logs instead of human-readable ones")
	rootCmd.PersistentFlags().String("manifest", "", "manifest database DSN; empty disables the manifest")

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Walk a directory, rewrite sentinel hooks, and report the extracted catalog",
		RunE:  runExtract,
	}
	extractCmd.Flags().String("path", ".", "root directory to scan")
	extractCmd.Flags().StringSlice("include", nil, "glob patterns to include")
	extractCmd.Flags().StringSlice("exclude", []string{"**/node_modules/**", "**/.git/**"}, "glob patterns to exclude")
	extractCmd.Flags().Bool("dev", false, "emit development-mode fallback arguments")
	extractCmd.Flags().Bool("dry-run", false, "compute diffs without writing files")
	extractCmd.Flags().Int("concurrency", 8, "number of files to process concurrently")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print a prior run's summary and cross-file duplicate catalog ids from the manifest",
		RunE:  runReport,
	}
	reportCmd.Flags().String("run", "", "run id to report on; empty reports the most recent run")

	rootCmd.AddCommand(extractCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.JSONOutput)
	log.Info("starting extraction run", logging.Fields{"path": cfg.Path, "dev": cfg.IsDevelopment, "dryRun": cfg.DryRun})

	var manifest *store.Manifest
	var runID string
	ctx := context.Background()
	if cfg.ManifestDSN != "" {
		db, err := store.Connect(cfg.ManifestDSN, cfg.Debug)
		if err != nil {
			return fmt.Errorf("connecting to manifest: %w", err)
		}
		manifest = store.NewManifest(db)
		runID, err = manifest.CreateRun(ctx, cfg.Path, cfg.IsDevelopment, cfg.DryRun)
		if err != nil {
			return fmt.Errorf("creating run: %w", err)
		}
	}

	walker := batch.NewWalker()
	files, err := walker.Walk(ctx, batch.Scope{
		Path:    cfg.Path,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", cfg.Path, err)
	}

	runner := batch.NewRunner(batch.RunnerConfig{
		IsDevelopment: cfg.IsDevelopment,
		DryRun:        cfg.DryRun,
		Concurrency:   cfg.Concurrency,
	})
	results := runner.Run(ctx, files)
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	var failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
			log.Error("failed to process file", logging.Fields{"path": result.Path, "error": result.Err.Error()})
		}
		if manifest != nil {
			if err := manifest.RecordFile(ctx, runID, result.Path, result.Output, result.Written, result.Err); err != nil {
				log.Warning("failed to record file in manifest", logging.Fields{"path": result.Path, "error": err.Error()})
			}
		}
		if cfg.DryRun && result.Diff != "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.Diff)
		}
	}

	if manifest != nil {
		duplicates, err := manifest.Duplicates(ctx, runID)
		if err != nil {
			log.Warning("failed to compute duplicate ids", logging.Fields{"error": err.Error()})
		}
		for _, dup := range duplicates {
			log.Warning("catalog id used for more than one message", logging.Fields{"id": dup.ID, "messages": dup.Messages, "files": dup.FilePaths})
		}
	}

	summary := buildSummary(results)
	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	if failed > 0 {
		return core.CLIError{Code: core.ErrCodeParseFailure, Message: fmt.Sprintf("%d file(s) failed to process", failed)}
	}
	return nil
}

// runReport loads a prior run from the manifest and prints its summary plus
// any cross-file duplicate catalog ids, without touching source files.
func runReport(cmd *cobra.Command, args []string) error {
	dsn, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return err
	}
	if dsn == "" {
		dsn = os.Getenv("EXTRACTI18N_MANIFEST_DSN")
	}
	if dsn == "" {
		return core.CLIError{Code: core.ErrCodeInvalidConfig, Message: "report requires --manifest (or EXTRACTI18N_MANIFEST_DSN) pointing at a prior run's database"}
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}

	level := logging.LevelInfo
	if debug {
		level = logging.LevelDebug
	}
	log := logging.New(level, jsonOutput)

	ctx := context.Background()
	db, err := store.Connect(dsn, debug)
	if err != nil {
		return fmt.Errorf("connecting to manifest: %w", err)
	}
	manifest := store.NewManifest(db)

	var run store.Run
	if runID == "" {
		run, err = manifest.LatestRun(ctx)
	} else {
		run, err = manifest.RunByID(ctx, runID)
	}
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	duplicates, err := manifest.Duplicates(ctx, run.ID)
	if err != nil {
		log.Warning("failed to compute duplicate ids", logging.Fields{"error": err.Error()})
	}

	report := reportSummary{
		RunID:        run.ID,
		RootPath:     run.RootPath,
		CreatedAt:    run.CreatedAt,
		FileCount:    run.FileCount,
		MessageCount: run.MessageCount,
		Duplicates:   duplicates,
	}
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

// reportSummary is the report subcommand's printed payload: one run's
// totals plus whatever catalog ids disagreed across files.
type reportSummary struct {
	RunID        string              `json:"runId"`
	RootPath     string              `json:"rootPath"`
	CreatedAt    time.Time           `json:"createdAt"`
	FileCount    int                 `json:"fileCount"`
	MessageCount int                 `json:"messageCount"`
	Duplicates   []store.DuplicateID `json:"duplicates,omitempty"`
}

// runSummary is the final JSON report printed after a run completes.
type runSummary struct {
	FilesProcessed int `json:"filesProcessed"`
	FilesWritten   int `json:"filesWritten"`
	MessageCount   int `json:"messageCount"`
	Failed         int `json:"failed"`
}

func buildSummary(results []batch.FileResult) runSummary {
	var s runSummary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.FilesProcessed++
		if r.Written {
			s.FilesWritten++
		}
		s.MessageCount += len(r.Output.Messages)
	}
	return s
}
