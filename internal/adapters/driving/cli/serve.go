package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/membox/internal/adapters/driving/http"
	"github.com/custodia-labs/membox/internal/logger"
)

var (
	serveHost string
	servePort int
	serveJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the JSON API:

  POST /ingest     index a file or directory
  POST /search     lexical, semantic or hybrid search
  POST /reindex    rebuild a path or every document
  POST /related    nearest chunks to a text, chunk or page
  GET  /documents  list indexed documents
  GET  /documents/:id
  GET  /health

The listener defaults to the configured server.host and server.port
(MEMBOX_HOST and MEMBOX_PORT override them).`,
	Args: exactArgs(0),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from settings)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from settings)")
	serveCmd.Flags().BoolVar(&serveJSON, "json-logs", false, "write logs as JSON")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server := http.NewServer(http.Ports{
		Index:    indexService,
		Search:   searchService,
		Related:  relatedService,
		Document: documentService,
	}, version)

	host := appSettings.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := appSettings.Server.Port
	if servePort > 0 {
		port = servePort
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	if serveJSON {
		logger.SetJSON(true)
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("membox API listening on http://%s\n", addr)
	return server.Listen(ctx, addr)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
