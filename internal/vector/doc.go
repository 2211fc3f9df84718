// Package vector provides the dense-vector primitives behind semantic search:
// normalisation, brute-force cosine top-k selection, and the little-endian
// float32 blob codec used for persistence.
package vector
