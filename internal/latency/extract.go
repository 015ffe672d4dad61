// internal/latency/extract.go
package latency

// NotFound is the sentinel reported when the response bit never appears in
// the capture window. Distinct from a measured latency of zero.
const NotFound = -1.0

// Extract scans a captured sample buffer for the first sample with any bit
// of mask set and converts that index to elapsed seconds from the trigger
// instant (sample index 0). Single forward pass; the first match wins,
// because the earliest observed response is the latency.
//
// Returns NotFound if no sample matches.
func Extract(samples []byte, sampleRateHz float64, mask byte) float64 {
	i, ok := FirstAssertion(samples, mask)
	if !ok {
		return NotFound
	}
	return float64(i) / sampleRateHz
}

// FirstAssertion returns the index of the first sample with any bit of
// mask set.
func FirstAssertion(samples []byte, mask byte) (int, bool) {
	for i, s := range samples {
		if s&mask != 0 {
			return i, true
		}
	}
	return 0, false
}
