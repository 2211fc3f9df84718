package hashed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}

func TestNewEmbeddingService_Custom(t *testing.T) {
	svc := NewEmbeddingService(Config{Model: "hashed-small", Dimensions: 64})

	assert.Equal(t, "hashed-small", svc.ModelName())
	assert.Equal(t, 64, svc.Dimensions())
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"lowercases", "Hello WORLD", []string{"hello", "world"}},
		{"underscores and digits", "var_1 = x2;", []string{"var_1", "x2"}},
		{"punctuation separates", "a-b.c", []string{"a", "b", "c"}},
		{"ideograph runs", "学习中文 abc", []string{"学习中文", "abc"}},
		{"mixed adjacency", "abc中文def", []string{"abc", "中文", "def"}},
		{"accented letters are separators", "café", []string{"caf"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.text))
		})
	}
}

func TestVector_KnownAnswer(t *testing.T) {
	// blake2b-64("hello") = a7b6eda801e5347d -> index 7, sign -1
	// blake2b-64("world") = 5831c37fa7d6930f -> index 0, sign -1
	got := Vector("hello world", 8)

	inv := float32(-1 / math.Sqrt2)
	expected := []float32{inv, 0, 0, 0, 0, 0, 0, inv}
	require.Len(t, got, 8)
	for i := range expected {
		assert.InDelta(t, expected[i], got[i], 1e-6, "coordinate %d", i)
	}
}

func TestVector_Deterministic(t *testing.T) {
	a := Vector("hello world", 8)
	b := Vector("hello world", 8)

	assert.Equal(t, a, b)
}

func TestVector_ZeroForNoTokens(t *testing.T) {
	for _, text := range []string{"", "   ", "!!! ---", "éèê"} {
		v := Vector(text, 16)
		assert.Equal(t, make([]float32, 16), v, "text %q", text)
	}
}

func TestVector_UnitNorm(t *testing.T) {
	texts := []string{
		"the quick brown fox",
		"repeated repeated repeated",
		"中文 and english",
		"a",
	}
	for _, text := range texts {
		v := Vector(text, 32)
		assert.InDelta(t, 1.0, norm(v), 1e-6, "text %q", text)
	}
}

func TestVector_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Vector("Hello World", 64), Vector("hello world", 64))
}

func TestVector_NonPositiveDim(t *testing.T) {
	assert.Empty(t, Vector("hello", 0))
}

func TestEmbed(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 8})

	v, err := svc.Embed(context.Background(), "hello world")

	require.NoError(t, err)
	assert.Equal(t, Vector("hello world", 8), v)
}

func TestEmbed_CancelledContext(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Embed(ctx, "hello")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmbedBatch(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 16})

	out, err := svc.EmbedBatch(context.Background(), []string{"alpha", "beta", ""})

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, Vector("alpha", 16), out[0])
	assert.Equal(t, Vector("beta", 16), out[1])
	assert.Equal(t, make([]float32, 16), out[2])
}
