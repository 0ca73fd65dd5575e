package common

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// DistinctBy returns the keys of s in first-seen order, without repeats.
func DistinctBy[S ~[]E, E any, K comparable](s S, key func(E) K) []K {
	seen := make(map[K]struct{}, len(s))
	out := make([]K, 0, len(s))

	for _, e := range s {
		k := key(e)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, k)
	}

	return out
}
