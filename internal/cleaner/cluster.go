package cleaner

import (
	"runtime"
	"sort"
	"sync"
)

// SimilarityThreshold is the strict lower bound for two titles to be treated
// as duplicates. A pair scoring exactly this value is NOT a match.
const SimilarityThreshold = 0.75

// minParallelScanSpan is the remaining-record count below which the inner
// scan stays on one goroutine.
const minParallelScanSpan = 256

// Cluster is one duplicate group. Members are in load order and the first
// member is the anchor every other member was compared against.
type Cluster struct {
	Members []Record
}

func (c Cluster) Anchor() Record {
	return c.Members[0]
}

type titleShingles struct {
	normalized string
	bigrams    map[string]struct{}
}

// BuildClusters partitions records (already junk-filtered, load order
// preserved) into duplicate clusters. Greedy star scan: each unprocessed
// record in turn anchors a cluster and claims every later unprocessed record
// whose title similarity with the anchor exceeds the threshold. Members are
// only ever compared to their anchor, so a cluster is a star, not a clique.
//
// Anchors advance sequentially; only the inner scan fans out, and it reads
// nothing but the immutable snapshot and already-committed processed marks.
func BuildClusters(records []Record) []Cluster {
	shingles := make([]titleShingles, len(records))
	for i, rec := range records {
		normalized := NormalizeTitle(rec.Title)
		shingles[i] = titleShingles{
			normalized: normalized,
			bigrams:    bigramSet(normalized),
		}
	}

	processed := make([]bool, len(records))
	clusters := make([]Cluster, 0, len(records))

	for i := range records {
		if processed[i] {
			continue
		}

		matched := scanSimilarToAnchor(shingles, processed, i)

		members := make([]Record, 0, len(matched)+1)
		members = append(members, records[i])
		for _, j := range matched {
			processed[j] = true
			members = append(members, records[j])
		}
		processed[i] = true

		clusters = append(clusters, Cluster{Members: members})
	}

	return clusters
}

// scanSimilarToAnchor returns the indexes after anchor whose titles exceed
// the threshold against the anchor, in ascending order. Read-only over
// shingles and processed.
func scanSimilarToAnchor(shingles []titleShingles, processed []bool, anchor int) []int {
	start := anchor + 1
	span := len(shingles) - start
	if span <= 0 {
		return nil
	}

	workers := runtime.NumCPU()
	if span < minParallelScanSpan || workers <= 1 {
		return scanSimilarRange(shingles, processed, anchor, start, len(shingles))
	}
	if workers > span {
		workers = span
	}

	chunk := (span + workers - 1) / workers
	results := make([][]int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := start + w*chunk
		hi := lo + chunk
		if hi > len(shingles) {
			hi = len(shingles)
		}
		if lo >= hi {
			continue
		}

		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			results[w] = scanSimilarRange(shingles, processed, anchor, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	var matched []int
	for _, part := range results {
		matched = append(matched, part...)
	}
	sort.Ints(matched)
	return matched
}

func scanSimilarRange(shingles []titleShingles, processed []bool, anchor, lo, hi int) []int {
	anchorShingles := shingles[anchor]

	var matched []int
	for j := lo; j < hi; j++ {
		if processed[j] {
			continue
		}
		if similarityFromShingles(anchorShingles, shingles[j]) > SimilarityThreshold {
			matched = append(matched, j)
		}
	}
	return matched
}

// similarityFromShingles mirrors TitleSimilarity over precomputed shingles.
func similarityFromShingles(left, right titleShingles) float64 {
	if left.normalized == right.normalized {
		return 1.0
	}
	return bigramJaccard(left.bigrams, right.bigrams)
}
