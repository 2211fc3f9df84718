package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document, chunk or page does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles a media type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractionFailed indicates no extraction strategy produced text.
	// In batch mode it is recorded per document and siblings continue.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyEmbeddingSpace indicates a semantic query found no stored
	// vectors for the model and bootstrapping was not requested.
	ErrEmptyEmbeddingSpace = errors.New("no embeddings stored for model")

	// ErrMalformedQuery indicates an empty or blank query.
	// It is raised before storage is touched.
	ErrMalformedQuery = errors.New("malformed query")
)

// IsUserError reports whether err was caused by the caller rather than the system.
// Front ends use it to pick exit codes and status classes.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrMalformedQuery) ||
		errors.Is(err, ErrEmptyEmbeddingSpace)
}
