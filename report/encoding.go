package report

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeCentroids encodes cluster centers into a BLOB: a little-endian
// uint32 count and dimension header followed by IEEE 754 float32 values in
// row order. Nil input encodes to nil.
func EncodeCentroids(centroids [][]float32) ([]byte, error) {
	if len(centroids) == 0 {
		return nil, nil
	}
	dim := len(centroids[0])
	b := make([]byte, 8, 8+len(centroids)*dim*4)
	binary.LittleEndian.PutUint32(b[0:4], uint32(len(centroids)))
	binary.LittleEndian.PutUint32(b[4:8], uint32(dim))
	for i, c := range centroids {
		if len(c) != dim {
			return nil, fmt.Errorf("report: centroid %d has %d values, want %d", i, len(c), dim)
		}
		for _, v := range c {
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			b = append(b, buf[:]...)
		}
	}
	return b, nil
}

// DecodeCentroids decodes a BLOB produced by EncodeCentroids.
func DecodeCentroids(b []byte) ([][]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) < 8 {
		return nil, fmt.Errorf("report: centroid blob too short (%d bytes)", len(b))
	}
	n := int(binary.LittleEndian.Uint32(b[0:4]))
	dim := int(binary.LittleEndian.Uint32(b[4:8]))
	if want := 8 + n*dim*4; len(b) != want {
		return nil, fmt.Errorf("report: centroid blob is %d bytes, want %d for %dx%d", len(b), want, n, dim)
	}
	out := make([][]float32, n)
	off := 8
	for i := range out {
		c := make([]float32, dim)
		for j := range c {
			c[j] = math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
			off += 4
		}
		out[i] = c
	}
	return out, nil
}
