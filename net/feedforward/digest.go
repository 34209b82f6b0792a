package feedforward

import "crypto/sha256"
import "encoding/binary"
import "math"

// Digest returns a SHA-256 fingerprint of the weights and biases. Two
// networks with the same layout and bit-identical parameters share it.
func (f *FeedforwardNetwork) Digest() [32]byte {
	h := sha256.New()
	var buf [8]byte
	for _, d := range f.dims {
		binary.LittleEndian.PutUint64(buf[:], uint64(d))
		h.Write(buf[:])
	}
	for _, p := range f.Params() {
		r, c := p.Value.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.Value.At(i, j)))
				h.Write(buf[:])
			}
		}
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
