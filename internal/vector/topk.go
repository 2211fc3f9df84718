package vector

import (
	"container/heap"
	"sort"
)

// Scored pairs a row ID with its similarity to the query.
type Scored struct {
	ID    string
	Score float64
	row   int
}

// TopK scores every row of a row-major matrix against query and returns the
// best min(k, rows) in descending order. Equal scores keep row order.
//
// Only the query is normalised; rows are expected to be unit length already.
// When k is smaller than the row count a bounded min-heap keeps the k best,
// so only those survivors are sorted.
func TopK(query []float32, ids []string, data []float32, dim, k int) []Scored {
	n := len(ids)
	if k <= 0 || n == 0 || dim <= 0 {
		return []Scored{}
	}

	q := Normalize(Fit(query, dim))

	if k >= n {
		all := make([]Scored, n)
		for i := range ids {
			all[i] = Scored{ID: ids[i], Score: Dot(q, data[i*dim:(i+1)*dim]), row: i}
		}
		sortScored(all)
		return all
	}

	h := make(minHeap, 0, k)
	for i := range ids {
		s := Scored{ID: ids[i], Score: Dot(q, data[i*dim:(i+1)*dim]), row: i}
		if len(h) < k {
			heap.Push(&h, s)
			continue
		}
		// Later rows never win a tie against the heap root.
		if s.Score > h[0].Score {
			h[0] = s
			heap.Fix(&h, 0)
		}
	}

	out := []Scored(h)
	sortScored(out)
	return out
}

func sortScored(s []Scored) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].row < s[j].row
	})
}

// minHeap orders by worst-first: lowest score, then latest row.
type minHeap []Scored

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].row > h[j].row
}

func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(Scored)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
