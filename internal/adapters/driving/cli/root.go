// Package cli implements the membox command line.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

// Exit codes returned by Execute.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUserError = 2
)

// skipWiring marks commands that run without opening the store.
const skipWiring = "membox/skip-wiring"

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services bundles the driving ports the commands use.
type Services struct {
	Index     driving.IndexService
	Search    driving.SearchService
	Related   driving.RelatedService
	Documents driving.DocumentService
	Settings  driving.SettingsService

	// Config is the resolved configuration; flag defaults come from it.
	Config domain.AppSettings
}

// GlobalOptions carries the persistent flags.
type GlobalOptions struct {
	Verbose   bool
	DataDir   string
	ConfigDir string
}

// Wiring builds services once persistent flags are parsed.
// The returned func releases whatever the services hold open.
type Wiring func(opts GlobalOptions) (*Services, func() error, error)

var (
	indexService    driving.IndexService
	searchService   driving.SearchService
	relatedService  driving.RelatedService
	documentService driving.DocumentService
	settingsService driving.SettingsService
	appSettings     = domain.DefaultAppSettings()

	wiring  Wiring
	release func() error
	globals GlobalOptions
)

var rootCmd = &cobra.Command{
	Use:   "membox",
	Short: "Local document memory with lexical and semantic retrieval",
	Long: `membox ingests documents (PDF, DOCX, Markdown, HTML, text), splits them into
page-ranged chunks, and serves lexical (BM25) and semantic-lite (hashed
embedding) retrieval over them from the CLI, an HTTP API, an MCP server,
or a terminal UI.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "print pipeline details")
	rootCmd.PersistentFlags().StringVar(&globals.DataDir, "data-dir", "", "directory holding the database (default ~/.membox/data)")
	rootCmd.PersistentFlags().StringVar(&globals.ConfigDir, "config", "", "directory holding config.toml (default ~/.membox)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	})
}

// SetServices installs ready-made services, bypassing wiring.
func SetServices(s *Services) {
	indexService = s.Index
	searchService = s.Search
	relatedService = s.Related
	documentService = s.Documents
	settingsService = s.Settings
	appSettings = s.Config
}

// SetWiring sets how services are built after flags are parsed.
func SetWiring(w Wiring) {
	wiring = w
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	defer func() {
		if release == nil {
			return
		}
		if err := release(); err != nil {
			logger.Warn("closing resources: %v", err)
		}
		release = nil
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case domain.IsUserError(err):
		return ExitUserError
	default:
		return ExitFailure
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globals.Verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if cmd.Annotations[skipWiring] == "true" || wiring == nil || release != nil {
		return nil
	}

	svc, closer, err := wiring(globals)
	if err != nil {
		return err
	}
	SetServices(svc)
	release = closer
	return nil
}

// exactArgs is cobra.ExactArgs reporting a user error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs reporting a user error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return nil
	}
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// terminalWidth returns the width of stdout when cmd writes to a terminal,
// or zero when output is redirected.
func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
