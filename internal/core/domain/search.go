package domain

// SearchMode selects the retrieval path for a query.
type SearchMode string

// Available search modes.
const (
	// SearchModeLexical ranks with the full-text engine (BM25).
	SearchModeLexical SearchMode = "lexical"

	// SearchModeSemantic ranks by cosine similarity of hashed embeddings.
	SearchModeSemantic SearchMode = "semantic"

	// SearchModeHybrid fuses lexical and semantic rankings.
	SearchModeHybrid SearchMode = "hybrid"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeLexical, SearchModeSemantic, SearchModeHybrid:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeLexical:
		return "Lexical (BM25 keyword search)"
	case SearchModeSemantic:
		return "Semantic (hashed embedding similarity)"
	case SearchModeHybrid:
		return "Hybrid (lexical + semantic)"
	default:
		return "Unknown"
	}
}

// Search defaults and bounds.
const (
	DefaultTopK          = 10
	MaxTopK              = 100
	DefaultSnippetTokens = 24
	DefaultMaxChars      = 400
	DefaultShowChars     = 200
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of hits.
	Limit int

	// DocumentID restricts hits to one document.
	DocumentID string

	// PathPrefix restricts hits to documents whose locator starts with it.
	PathPrefix string

	// SnippetTokens is the snippet window size in tokens.
	SnippetTokens int

	// MaxChars truncates each hit's text preview.
	MaxChars int

	// Mode selects lexical, semantic or hybrid retrieval.
	Mode SearchMode

	// Bootstrap allows semantic modes to embed every chunk when none are stored.
	Bootstrap bool
}

// WithDefaults fills zero fields and clamps the limit.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultTopK
	}
	if o.Limit > MaxTopK {
		o.Limit = MaxTopK
	}
	if o.SnippetTokens <= 0 {
		o.SnippetTokens = DefaultSnippetTokens
	}
	if o.MaxChars <= 0 {
		o.MaxChars = DefaultMaxChars
	}
	if o.Mode == "" {
		o.Mode = SearchModeLexical
	}
	return o
}

// SearchHit is a single ranked chunk.
type SearchHit struct {
	Locator     string  `json:"path"`
	Title       string  `json:"title"`
	DocumentID  string  `json:"document_id"`
	ChunkID     string  `json:"chunk_id"`
	PageStart   int     `json:"page_start"`
	PageEnd     int     `json:"page_end"`
	Score       float64 `json:"score"`
	Snippet     string  `json:"snippet,omitempty"`
	TextPreview string  `json:"text_preview"`
}

// SearchResponse carries the hits for a query.
type SearchResponse struct {
	Query string      `json:"query"`
	Mode  SearchMode  `json:"mode"`
	Hits  []SearchHit `json:"hits"`
}

// RelatedQuery describes a semantic lookup. Exactly one source is set:
// Text, ChunkID, or DocumentID together with Page.
type RelatedQuery struct {
	// Text is a literal query.
	Text string

	// ChunkID uses an existing chunk's text as the query.
	ChunkID string

	// DocumentID and Page select the chunk covering (or nearest to) a page.
	DocumentID string
	Page       int

	// Limit is the number of neighbours to return.
	Limit int

	// Model and Dim select the embedding space. Zero values use the embedder's.
	Model string
	Dim   int

	// Bootstrap embeds every chunk once when the space is empty.
	Bootstrap bool

	// Show truncates each hit's preview.
	Show int
}

// HasText reports whether the query is a literal text query.
func (q RelatedQuery) HasText() bool {
	return q.ChunkID == "" && q.DocumentID == ""
}

// RelatedResponse carries the neighbours of a query source.
type RelatedResponse struct {
	// Source describes what was embedded: the query text or the seed chunk.
	Source string `json:"source"`

	// SeedChunkID is set when the query came from a chunk or page.
	SeedChunkID string `json:"seed_chunk_id,omitempty"`

	// Model is the embedding space that was searched.
	Model string `json:"model"`

	Hits []SearchHit `json:"hits"`
}

// LexicalScore maps a BM25 rank statistic to a display score 1/(1+rank).
// Lower ranks give higher scores. The mapping has a pole at rank -1, where
// it returns 0 so the score stays finite.
func LexicalScore(rank float64) float64 {
	d := 1 + rank
	if d == 0 {
		return 0
	}
	return 1 / d
}
