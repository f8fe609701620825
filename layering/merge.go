package layering

// MergeLayers composes maps ordered from strongest to weakest, returning a
// new map that keeps entries from stronger layers while filling any missing
// keys from weaker ones. Inputs are never mutated.
func MergeLayers[K comparable, V any](layers ...map[K]V) map[K]V {
	size := 0
	for _, layer := range layers {
		if len(layer) > size {
			size = len(layer)
		}
	}
	merged := make(map[K]V, size)
	for i := len(layers) - 1; i >= 0; i-- {
		for key, value := range layers[i] {
			merged[key] = value
		}
	}
	return merged
}

// Provenance reports, for every key of the merged result, the index of the
// layer that supplied it.
func Provenance[K comparable, V any](layers ...map[K]V) map[K]int {
	out := map[K]int{}
	for i := len(layers) - 1; i >= 0; i-- {
		for key := range layers[i] {
			out[key] = i
		}
	}
	return out
}
