package recording

import (
	"encoding/binary"
	"math"
)

// Level computes the RMS energy of a 16-bit little-endian mono PCM chunk,
// normalized to 0..1. It is a read-only tap for the decorative waveform; it
// never influences transcript or control flow.
func Level(pcm []byte) float64 {
	if len(pcm) < 2 {
		return 0
	}
	var sumSquares float64
	count := 0
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		sumSquares += float64(v) * float64(v)
		count++
	}
	if count == 0 {
		return 0
	}
	rms := math.Sqrt(sumSquares / float64(count))
	return rms / 32768.0
}
