package domain

// Embedding is a vector derived from a chunk under one model.
// The (ChunkID, Model) pair identifies it; writes replace the prior vector.
type Embedding struct {
	// ChunkID is the chunk the vector was computed from.
	ChunkID string

	// Model names the embedding function (e.g. "hashed-bow").
	Model string

	// Dim is the model's declared dimensionality.
	Dim int

	// Vector holds the values. Stored vectors are L2-normalised.
	Vector []float32
}

// EmbeddingMatrix is a dense snapshot of every stored vector for a model.
type EmbeddingMatrix struct {
	// IDs lists chunk IDs in row order.
	IDs []string

	// Dim is the width of every row.
	Dim int

	// Data is row-major with len(IDs)*Dim values.
	Data []float32
}

// Len returns the number of rows.
func (m *EmbeddingMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.IDs)
}

// Row returns the i-th vector without copying.
func (m *EmbeddingMatrix) Row(i int) []float32 {
	return m.Data[i*m.Dim : (i+1)*m.Dim]
}
