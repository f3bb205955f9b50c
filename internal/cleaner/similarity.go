package cleaner

// TitleSimilarity scores two titles in [0,1] by Jaccard overlap of their
// bigram sets after normalization. Symmetric. Character shingles rather than
// word tokens: the titles are Japanese and carry no reliable word boundaries.
func TitleSimilarity(left, right string) float64 {
	normalizedLeft := NormalizeTitle(left)
	normalizedRight := NormalizeTitle(right)
	if normalizedLeft == normalizedRight {
		return 1.0
	}
	return bigramJaccard(bigramSet(normalizedLeft), bigramSet(normalizedRight))
}

// bigramSet returns the set of contiguous two-rune substrings. Strings
// shorter than two runes produce an empty set.
func bigramSet(normalized string) map[string]struct{} {
	runes := []rune(normalized)
	if len(runes) < 2 {
		return nil
	}

	set := make(map[string]struct{}, len(runes)-1)
	for i := 0; i+2 <= len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

func bigramJaccard(left, right map[string]struct{}) float64 {
	if len(left) == 0 || len(right) == 0 {
		return 0
	}

	intersection := 0
	for gram := range left {
		if _, ok := right[gram]; ok {
			intersection++
		}
	}

	union := len(left) + len(right) - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
