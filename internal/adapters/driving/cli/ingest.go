package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/membox/internal/core/domain"
)

var (
	ingestGlob     string
	ingestForce    bool
	ingestMinChars int
	ingestJSON     bool

	reindexGlob     string
	reindexForce    bool
	reindexMinChars int
	reindexJSON     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index a file or directory",
	Long: `Extracts pages from a file, or every file in a directory matching --glob,
and stores them as chunks. Files whose content fingerprint is unchanged are
skipped unless --force is given.`,
	Args: exactArgs(1),
	RunE: runIngest,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [path]",
	Short: "Rebuild chunks for a path or every known document",
	Long: `Re-indexes a file or directory, or every document already in the store
when no path is given. Chunks are rebuilt even when unchanged unless
--force=false is passed.`,
	Args: maxArgs(1),
	RunE: runReindex,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestGlob, "glob", domain.DefaultGlob, "file pattern when ingesting a directory")
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "rebuild chunks even when unchanged")
	ingestCmd.Flags().IntVar(&ingestMinChars, "min-chars", domain.DefaultMinChars, "minimum characters per chunk (0 = one chunk per page)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)

	reindexCmd.Flags().StringVar(&reindexGlob, "glob", domain.DefaultGlob, "file pattern when reindexing a directory")
	reindexCmd.Flags().BoolVar(&reindexForce, "force", true, "rebuild chunks even when unchanged")
	reindexCmd.Flags().IntVar(&reindexMinChars, "min-chars", domain.DefaultMinChars, "minimum characters per chunk (0 = one chunk per page)")
	reindexCmd.Flags().BoolVar(&reindexJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(reindexCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	opts := indexOptions(cmd, ingestGlob, ingestMinChars, ingestForce)
	result, err := indexService.IndexPath(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return outputBatch(cmd, result, ingestJSON)
}

func runReindex(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	opts := indexOptions(cmd, reindexGlob, reindexMinChars, reindexForce)
	result, err := indexService.Reindex(context.Background(), path, opts)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return outputBatch(cmd, result, reindexJSON)
}

// indexOptions takes unset flags from the configured indexing defaults.
func indexOptions(cmd *cobra.Command, glob string, minChars int, force bool) domain.IndexOptions {
	if !cmd.Flags().Changed("glob") && appSettings.Indexing.Glob != "" {
		glob = appSettings.Indexing.Glob
	}
	if !cmd.Flags().Changed("min-chars") {
		minChars = appSettings.Indexing.MinChars
	}
	return domain.IndexOptions{
		Force:    force,
		MinChars: minChars,
		Glob:     glob,
	}
}

// outputBatch prints the batch and reports an error when any document failed.
func outputBatch(cmd *cobra.Command, result *domain.BatchResult, asJSON bool) error {
	if asJSON {
		if err := printJSON(cmd, result); err != nil {
			return err
		}
	} else {
		outputBatchTable(cmd, result)
	}

	if n := len(result.Errors); n > 0 {
		return fmt.Errorf("%d of %d documents failed", n, result.Total)
	}
	return nil
}

func outputBatchTable(cmd *cobra.Command, result *domain.BatchResult) {
	if result.Total == 0 {
		cmd.Println("No matching files.")
		return
	}

	for _, r := range result.Results {
		cmd.Printf("  %-9s %s (%d chunks)\n", r.Status, r.Locator, r.Chunks)
	}
	for _, e := range result.Errors {
		cmd.Printf("  %-9s %s: %s\n", "failed", e.Locator, e.Error)
	}
	cmd.Println()
	cmd.Printf("Indexed %d, unchanged %d, failed %d (total %d)\n",
		result.Indexed, result.Unchanged, len(result.Errors), result.Total)
}
