package domain

// IndexStatus is the outcome of indexing a single document.
type IndexStatus string

// Index outcomes.
const (
	// IndexStatusIndexed means chunks were (re)built.
	IndexStatusIndexed IndexStatus = "indexed"

	// IndexStatusUnchanged means the fingerprint matched and nothing was touched.
	IndexStatusUnchanged IndexStatus = "unchanged"
)

// Default indexing parameters.
const (
	DefaultMinChars = 200
	DefaultGlob     = "*.pdf"
)

// IndexOptions configures an indexing run.
type IndexOptions struct {
	// Force rebuilds chunks even when the fingerprint is unchanged.
	Force bool

	// MinChars is the chunker's minimum unit size.
	MinChars int

	// Glob selects files when the target is a directory.
	Glob string
}

// WithDefaults fills zero fields with the package defaults.
// MinChars is left as given so callers can request one unit per page.
func (o IndexOptions) WithDefaults() IndexOptions {
	if o.Glob == "" {
		o.Glob = DefaultGlob
	}
	return o
}

// IndexResult reports what happened to one document.
type IndexResult struct {
	DocumentID string      `json:"document_id"`
	Locator    string      `json:"path"`
	Status     IndexStatus `json:"status"`
	Chunks     int         `json:"chunks"`
}

// IndexError records a per-document failure in a batch.
type IndexError struct {
	Locator string `json:"path"`
	Error   string `json:"error"`
}

// BatchResult aggregates a multi-document run.
type BatchResult struct {
	Total     int           `json:"total"`
	Indexed   int           `json:"indexed"`
	Unchanged int           `json:"unchanged"`
	Results   []IndexResult `json:"results"`
	Errors    []IndexError  `json:"errors"`
}

// NewBatchResult returns an empty batch with non-nil slices.
func NewBatchResult() *BatchResult {
	return &BatchResult{
		Results: []IndexResult{},
		Errors:  []IndexError{},
	}
}

// Add records a successful result.
func (b *BatchResult) Add(r IndexResult) {
	b.Total++
	switch r.Status {
	case IndexStatusIndexed:
		b.Indexed++
	case IndexStatusUnchanged:
		b.Unchanged++
	}
	b.Results = append(b.Results, r)
}

// Fail records a failed document.
func (b *BatchResult) Fail(locator string, err error) {
	b.Total++
	b.Errors = append(b.Errors, IndexError{Locator: locator, Error: err.Error()})
}
