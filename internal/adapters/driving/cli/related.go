package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/membox/internal/core/domain"
)

var (
	relatedQuery     string
	relatedChunkID   string
	relatedDoc       string
	relatedPage      int
	relatedLimit     int
	relatedModel     string
	relatedDim       int
	relatedBootstrap bool
	relatedShow      int
	relatedJSON      bool
)

var relatedCmd = &cobra.Command{
	Use:   "related",
	Short: "Find chunks similar to a text, chunk or page",
	Long: `Embeds a query source and lists its nearest chunks by cosine similarity.
Give exactly one of --query, --chunk-id, or --doc with --page.

Chunks of the source document are embedded on demand. Searching with --query
needs existing embeddings; --bootstrap embeds every chunk once when the space
is empty.`,
	Args: exactArgs(0),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().StringVar(&relatedQuery, "query", "", "free text to compare against")
	relatedCmd.Flags().StringVar(&relatedChunkID, "chunk-id", "", "use an existing chunk as the query")
	relatedCmd.Flags().StringVar(&relatedDoc, "doc", "", "document ID or path (with --page)")
	relatedCmd.Flags().IntVar(&relatedPage, "page", 0, "page number within --doc")
	relatedCmd.Flags().IntVarP(&relatedLimit, "topk", "n", domain.DefaultTopK, "number of neighbours")
	relatedCmd.Flags().StringVar(&relatedModel, "model", "", "embedding model (default from settings)")
	relatedCmd.Flags().IntVar(&relatedDim, "dim", 0, "embedding dimensions (default from settings)")
	relatedCmd.Flags().BoolVar(&relatedBootstrap, "bootstrap", false, "embed all chunks when no embeddings exist")
	relatedCmd.Flags().IntVar(&relatedShow, "show", domain.DefaultShowChars, "characters of each hit to show")
	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, _ []string) error {
	if relatedService == nil {
		return errors.New("related service not configured")
	}
	if err := checkRelatedSource(); err != nil {
		return err
	}

	resp, err := relatedService.Related(context.Background(), domain.RelatedQuery{
		Text:       relatedQuery,
		ChunkID:    relatedChunkID,
		DocumentID: relatedDoc,
		Page:       relatedPage,
		Limit:      relatedLimit,
		Model:      relatedModel,
		Dim:        relatedDim,
		Bootstrap:  relatedBootstrap,
		Show:       relatedShow,
	})
	if err != nil {
		return fmt.Errorf("related failed: %w", err)
	}

	if relatedJSON {
		return printJSON(cmd, resp)
	}

	if resp.SeedChunkID != "" {
		cmd.Printf("Seed chunk %s (%s)\n", resp.SeedChunkID, resp.Model)
	} else {
		cmd.Printf("Query %q (%s)\n", resp.Source, resp.Model)
	}
	cmd.Println()
	outputHits(cmd, resp.Hits)
	return nil
}

// checkRelatedSource requires exactly one of the query sources.
func checkRelatedSource() error {
	sources := 0
	for _, set := range []bool{relatedQuery != "", relatedChunkID != "", relatedDoc != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return fmt.Errorf("%w: one of --query, --chunk-id or --doc with --page is required", domain.ErrMalformedQuery)
	case sources > 1:
		return fmt.Errorf("%w: --query, --chunk-id and --doc are mutually exclusive", domain.ErrInvalidInput)
	case relatedDoc != "" && relatedPage <= 0:
		return fmt.Errorf("%w: --doc requires a positive --page", domain.ErrInvalidInput)
	case relatedDoc == "" && relatedPage != 0:
		return fmt.Errorf("%w: --page requires --doc", domain.ErrInvalidInput)
	}
	return nil
}
