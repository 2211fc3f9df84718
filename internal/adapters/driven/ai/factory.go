// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/membox/internal/adapters/driven/embedding/hashed"
	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.EmbeddingProvider = (*Provider)(nil)

// hashedPrefix marks model names served by the feature-hashing embedder.
const hashedPrefix = "hashed"

// CreateEmbeddingService creates the embedding service described by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		defaults := domain.DefaultAppSettings().Embedding
		settings = &defaults
	}
	return NewProvider().ForModel(settings.Model, settings.Dimensions)
}

// Provider resolves embedding services by model name.
type Provider struct{}

// NewProvider creates a new embedding provider.
func NewProvider() *Provider {
	return &Provider{}
}

// ForModel returns a service for model producing dim-wide vectors.
// A zero dim uses the model default.
func (p *Provider) ForModel(model string, dim int) (driven.EmbeddingService, error) {
	if model == "" {
		model = hashed.DefaultModel
	}
	if dim < 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dim)
	}

	if strings.HasPrefix(model, hashedPrefix) {
		return hashed.NewEmbeddingService(hashed.Config{
			Model:      model,
			Dimensions: dim,
		}), nil
	}

	return nil, fmt.Errorf("%w: embedding model %q", domain.ErrUnsupportedType, model)
}
