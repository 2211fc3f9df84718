package vector

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matrix(rows ...[]float32) (ids []string, data []float32, dim int) {
	dim = len(rows[0])
	for i, r := range rows {
		ids = append(ids, fmt.Sprintf("r%d", i))
		data = append(data, Normalize(r)...)
	}
	return ids, data, dim
}

func TestTopK_OrdersDescending(t *testing.T) {
	ids, data, dim := matrix(
		[]float32{0, 1},
		[]float32{1, 0},
		[]float32{1, 1},
	)

	got := TopK([]float32{1, 0}, ids, data, dim, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)
	assert.Equal(t, "r0", got[2].ID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
}

func TestTopK_NormalisesQueryOnly(t *testing.T) {
	ids := []string{"a"}
	data := []float32{2, 0} // deliberately not unit length

	got := TopK([]float32{10, 0}, ids, data, 2, 1)

	require.Len(t, got, 1)
	assert.InDelta(t, 2.0, got[0].Score, 1e-6)
}

func TestTopK_LengthIsMinKRows(t *testing.T) {
	ids, data, dim := matrix([]float32{1, 0}, []float32{0, 1})

	assert.Len(t, TopK([]float32{1, 1}, ids, data, dim, 1), 1)
	assert.Len(t, TopK([]float32{1, 1}, ids, data, dim, 2), 2)
	assert.Len(t, TopK([]float32{1, 1}, ids, data, dim, 50), 2)
	assert.Empty(t, TopK([]float32{1, 1}, ids, data, dim, 0))
	assert.Empty(t, TopK([]float32{1, 1}, nil, nil, dim, 5))
}

func TestTopK_TiesKeepRowOrder(t *testing.T) {
	ids, data, dim := matrix(
		[]float32{1, 0},
		[]float32{0, 1},
		[]float32{1, 0},
		[]float32{1, 0},
	)

	full := TopK([]float32{1, 0}, ids, data, dim, 4)
	require.Len(t, full, 4)
	assert.Equal(t, []string{"r0", "r2", "r3", "r1"}, []string{full[0].ID, full[1].ID, full[2].ID, full[3].ID})

	partial := TopK([]float32{1, 0}, ids, data, dim, 2)
	require.Len(t, partial, 2)
	assert.Equal(t, "r0", partial[0].ID)
	assert.Equal(t, "r2", partial[1].ID)
}

func TestTopK_PartialMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n, dim = 200, 16

	ids := make([]string, n)
	var data []float32
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("row-%03d", i)
		row := make([]float32, dim)
		for j := range row {
			row[j] = rng.Float32()*2 - 1
		}
		data = append(data, Normalize(row)...)
	}
	query := make([]float32, dim)
	for j := range query {
		query[j] = rng.Float32()*2 - 1
	}

	full := TopK(query, ids, data, dim, n)
	for _, k := range []int{1, 5, 17, 199} {
		partial := TopK(query, ids, data, dim, k)
		require.Len(t, partial, k)
		assert.Equal(t, full[:k], partial, "k=%d", k)
		assert.True(t, sort.SliceIsSorted(partial, func(i, j int) bool {
			return partial[i].Score > partial[j].Score
		}))
	}
}

func TestTopK_QueryDimensionFitted(t *testing.T) {
	ids, data, dim := matrix([]float32{1, 0, 0}, []float32{0, 1, 0})

	got := TopK([]float32{0, 1}, ids, data, dim, 1)

	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}
