// Package hashed provides a deterministic feature-hashing embedding service.
//
// Each token is hashed with BLAKE2b (8-byte digest). The first four bytes,
// read little-endian, pick a coordinate modulo the dimension and the low
// bit of the fifth byte picks the sign. The summed vector is L2-normalised.
// Collisions are accepted in exchange for fixed memory and no vocabulary.
package hashed

import (
	"context"
	"encoding/binary"
	"math"
	"regexp"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "hashed-bow"
	DefaultDimensions = 768
)

// digestSize is the BLAKE2b output length in bytes.
const digestSize = 8

// tokenPattern matches ASCII word runs and CJK ideograph runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9_]+|[\x{4e00}-\x{9fff}]+`)

// Config holds configuration for the hashed embedding service.
type Config struct {
	// Model is the name vectors are stored under (default: hashed-bow).
	Model string

	// Dimensions is the embedding vector size (default: 768).
	Dimensions int
}

// EmbeddingService generates feature-hashed embeddings.
// It holds no mutable state and is safe for concurrent use.
type EmbeddingService struct {
	model      string
	dimensions int
}

// NewEmbeddingService creates a new hashed embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector embedding for the given text.
// Text without tokens yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Vector(text, s.dimensions), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = Vector(text, s.dimensions)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model name.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Tokenize lowercases text and returns its ASCII word and ideograph runs.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Vector computes the normalised hashed bag-of-words vector for text.
func Vector(text string, dim int) []float32 {
	if dim <= 0 {
		return []float32{}
	}

	acc := make([]float64, dim)
	for _, tok := range Tokenize(text) {
		idx, sign := bucket(tok, dim)
		acc[idx] += sign
	}

	var sum float64
	for _, x := range acc {
		sum += x * x
	}
	norm := math.Sqrt(sum)

	out := make([]float32, dim)
	if norm == 0 {
		return out
	}
	for i, x := range acc {
		out[i] = float32(x / norm)
	}
	return out
}

// bucket returns the coordinate and sign a token contributes to.
func bucket(tok string, dim int) (int, float64) {
	h, _ := blake2b.New(digestSize, nil) // fixed size with no key cannot fail
	h.Write([]byte(tok))
	sum := h.Sum(nil)

	idx := int(binary.LittleEndian.Uint32(sum[:4]) % uint32(dim))
	if sum[4]&1 == 1 {
		return idx, -1
	}
	return idx, 1
}
