package vector

import (
	"encoding/binary"
	"math"
)

// Encode converts a vector to little-endian float32 bytes for storage.
func Encode(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Decode converts stored bytes back to a vector of exactly dim values.
// Extra values are dropped and missing ones are zero, so a model whose
// dimension changed between runs still reads cleanly.
func Decode(data []byte, dim int) []float32 {
	if dim < 0 {
		dim = 0
	}
	out := make([]float32, dim)
	n := min(len(data)/4, dim)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
