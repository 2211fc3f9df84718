package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/membox/internal/core/domain"
)

var (
	searchLimit         int
	searchDoc           string
	searchPathPrefix    string
	searchSnippetTokens int
	searchMaxChars      int
	searchMode          string
	searchBootstrap     bool
	searchJSON          bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Ranks chunks against a query. The default lexical mode uses BM25 over
the full-text index; semantic mode compares hashed embeddings; hybrid
fuses both rankings.`,
	Args: exactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "topk", "n", domain.DefaultTopK, "maximum number of results (1-100)")
	searchCmd.Flags().StringVar(&searchDoc, "doc", "", "restrict to a document ID or path")
	searchCmd.Flags().StringVar(&searchPathPrefix, "path-prefix", "", "restrict to documents under this path")
	searchCmd.Flags().IntVar(&searchSnippetTokens, "snippet-tokens", domain.DefaultSnippetTokens, "snippet window in tokens")
	searchCmd.Flags().IntVar(&searchMaxChars, "max-chars", domain.DefaultMaxChars, "truncate text previews to this many characters")
	searchCmd.Flags().StringVar(&searchMode, "mode", string(domain.SearchModeLexical), "lexical, semantic or hybrid")
	searchCmd.Flags().BoolVar(&searchBootstrap, "bootstrap", false, "embed all chunks when no embeddings exist (semantic modes)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:         searchLimit,
		DocumentID:    searchDoc,
		PathPrefix:    searchPathPrefix,
		SnippetTokens: searchSnippetTokens,
		MaxChars:      searchMaxChars,
		Mode:          domain.SearchMode(searchMode),
		Bootstrap:     searchBootstrap,
	}
	if !cmd.Flags().Changed("topk") {
		opts.Limit = appSettings.Search.TopK
	}
	if !cmd.Flags().Changed("snippet-tokens") {
		opts.SnippetTokens = appSettings.Search.SnippetTokens
	}
	if !cmd.Flags().Changed("max-chars") {
		opts.MaxChars = appSettings.Search.MaxChars
	}
	if opts.Limit < 1 || opts.Limit > domain.MaxTopK {
		return fmt.Errorf("%w: --topk must be within 1..%d", domain.ErrInvalidInput, domain.MaxTopK)
	}

	resp, err := searchService.Search(context.Background(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, resp)
	}
	outputHits(cmd, resp.Hits)
	return nil
}

// outputHits prints hits as a numbered list. Previews are cut to the
// terminal width when writing to one.
func outputHits(cmd *cobra.Command, hits []domain.SearchHit) {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return
	}

	width := terminalWidth(cmd)
	cmd.Println("Results:")
	cmd.Println()
	for i := range hits {
		h := &hits[i]
		title := h.Title
		if title == "" {
			title = h.DocumentID
		}

		cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, h.Score)
		cmd.Printf("      %s  %s\n", h.Locator, pageRange(h.PageStart, h.PageEnd))
		if h.Snippet != "" {
			cmd.Printf("      %s\n", fitWidth(h.Snippet, width, 6))
		} else if h.TextPreview != "" {
			cmd.Printf("      %s\n", fitWidth(h.TextPreview, width, 6))
		}
		cmd.Printf("      chunk %s\n", h.ChunkID)
		cmd.Println()
	}
}

func pageRange(start, end int) string {
	if start == end {
		return fmt.Sprintf("p.%d", start)
	}
	return fmt.Sprintf("pp.%d-%d", start, end)
}

// fitWidth flattens s to one line and cuts it to width minus indent runes.
// A width of zero leaves the text whole.
func fitWidth(s string, width, indent int) string {
	line := []rune(flatten(s))
	limit := width - indent
	if width <= 0 || limit <= 1 || len(line) <= limit {
		return string(line)
	}
	return string(line[:limit-1]) + "…"
}

func flatten(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || r == ' ' {
			if !space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = true
			continue
		}
		space = false
		out = append(out, r)
	}
	if n := len(out); n > 0 && out[n-1] == ' ' {
		out = out[:n-1]
	}
	return string(out)
}
