package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/membox/internal/adapters/driving/watch"
	"github.com/custodia-labs/membox/internal/core/domain"
)

var (
	watchGlob     string
	watchMinChars int
	watchInitial  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Index files in a directory as they change",
	Long: `Watches a directory (not recursively) and indexes files matching --glob
when they are created, written or renamed into it. Removing a file deletes
its document. Bursts of events on the same file are coalesced.`,
	Args: exactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchGlob, "glob", domain.DefaultGlob, "file pattern to watch")
	watchCmd.Flags().IntVar(&watchMinChars, "min-chars", domain.DefaultMinChars, "minimum characters per chunk")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "index existing files before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	if documentService == nil {
		return errors.New("document service not configured")
	}

	opts := indexOptions(cmd, watchGlob, watchMinChars, false)
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchInitial {
		result, err := indexService.IndexPath(ctx, args[0], opts)
		if err != nil {
			return fmt.Errorf("initial index failed: %w", err)
		}
		outputBatchTable(cmd, result)
	}

	w, err := watch.New(watch.Config{
		Dir:      args[0],
		Glob:     opts.Glob,
		MinChars: opts.MinChars,
		Debounce: time.Duration(appSettings.Watch.DebounceMillis) * time.Millisecond,
	}, indexService, documentService)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	w.OnEvent(func(e watch.Event) {
		if e.Err != nil {
			cmd.Printf("  %-9s %s: %v\n", "failed", e.Path, e.Err)
			return
		}
		cmd.Printf("  %-9s %s\n", e.Action, e.Path)
	})

	cmd.Printf("Watching %s for %s (Ctrl+C to stop)\n", args[0], opts.Glob)
	return w.Run(ctx)
}
