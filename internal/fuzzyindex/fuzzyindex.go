// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fuzzyindex builds an in-memory TF-IDF vector space over
// character trigrams of normalized artist+recording names and answers
// nearest-neighbor queries by sparse inner product. It is never
// persisted: the Resolver rebuilds it once per run.
package fuzzyindex

import (
	"math"

	"github.com/metabrainz/listenbrainz-content-resolver/internal/normalize"
)

// Entry is one row fed into Build: an artist/recording pair and the local
// recording id it resolves to.
type Entry struct {
	ArtistName    string
	RecordingName string
	RecordingID   int64
}

// Match is the nearest-neighbor result for one query.
type Match struct {
	RecordingID int64
	Confidence  float64
	Found       bool
}

// sparseVector is a sorted-by-term-id list of (term, weight) pairs. L2
// normalized so inner products directly yield cosine similarity.
type sparseVector struct {
	terms   []int
	weights []float64
}

func (v sparseVector) dot(o sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.terms) && j < len(o.terms) {
		switch {
		case v.terms[i] == o.terms[j]:
			sum += v.weights[i] * o.weights[j]
			i++
			j++
		case v.terms[i] < o.terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Index is a built, queryable fuzzy-match index. The zero value is not
// usable; construct via Build.
type Index struct {
	vocabulary map[string]int
	idf        []float64
	vectors    []sparseVector
	ids        []int64
}

// Build vectorizes entries into a TF-IDF space (min_df=1, i.e. every
// n-gram seen at least once is kept) and constructs the index. Entries
// with an empty artist or recording name are silently skipped.
func Build(entries []Entry) (*Index, error) {
	vocabulary := make(map[string]int)
	docGrams := make([][]string, 0, len(entries))
	ids := make([]int64, 0, len(entries))
	docFreq := make(map[string]int)

	for _, e := range entries {
		if e.ArtistName == "" || e.RecordingName == "" {
			continue
		}

		artistKey, err := normalize.TokenKey(e.ArtistName)
		if err != nil {
			return nil, err
		}
		recordingKey, err := normalize.TokenKey(e.RecordingName)
		if err != nil {
			return nil, err
		}

		grams := normalize.NGrams(artistKey + recordingKey)
		if len(grams) == 0 {
			continue
		}

		seen := make(map[string]bool, len(grams))
		for _, g := range grams {
			if _, ok := vocabulary[g]; !ok {
				vocabulary[g] = len(vocabulary)
			}
			if !seen[g] {
				docFreq[g]++
				seen[g] = true
			}
		}

		docGrams = append(docGrams, grams)
		ids = append(ids, e.RecordingID)
	}

	n := len(docGrams)
	idf := make([]float64, len(vocabulary))
	for gram, id := range vocabulary {
		// Standard smoothed IDF; min_df=1 means every term in the
		// vocabulary already satisfies the document-frequency floor.
		idf[id] = math.Log(float64(n)/float64(docFreq[gram])) + 1
	}

	vectors := make([]sparseVector, n)
	for i, grams := range docGrams {
		vectors[i] = vectorize(grams, vocabulary, idf)
	}

	return &Index{vocabulary: vocabulary, idf: idf, vectors: vectors, ids: ids}, nil
}

// vectorize turns a gram multiset into an L2-normalized, term-id-sorted
// sparse TF-IDF vector against a fixed vocabulary. Grams absent from
// vocabulary are dropped (unseen at query time).
func vectorize(grams []string, vocabulary map[string]int, idf []float64) sparseVector {
	counts := make(map[int]int)
	for _, g := range grams {
		id, ok := vocabulary[g]
		if !ok {
			continue
		}
		counts[id]++
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sortInts(ids)

	weights := make([]float64, len(ids))
	var norm float64
	for i, id := range ids {
		w := float64(counts[id]) * idf[id]
		weights[i] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range weights {
			weights[i] /= norm
		}
	}

	return sparseVector{terms: ids, weights: weights}
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// Search returns the k=1 nearest neighbor for each of artistName/
// recordingName, using the fitted vocabulary. An empty index (built from
// zero entries) yields zero-confidence matches for every query.
func (idx *Index) Search(artistName, recordingName string) (Match, error) {
	if artistName == "" || recordingName == "" {
		return Match{}, nil
	}

	artistKey, err := normalize.TokenKey(artistName)
	if err != nil {
		return Match{}, err
	}
	recordingKey, err := normalize.TokenKey(recordingName)
	if err != nil {
		return Match{}, err
	}

	grams := normalize.NGrams(artistKey + recordingKey)
	query := vectorize(grams, idx.vocabulary, idx.idf)

	var best float64
	var bestID int64
	found := false
	for i, v := range idx.vectors {
		// The ANN this stands in for scores by negated inner product
		// (smaller distance = more similar); confidence is the absolute
		// value of that score, so a plain max-dot-product scan here
		// reproduces the same ranking and the same confidence value.
		d := v.dot(query)
		if !found || d > best {
			best = d
			bestID = idx.ids[i]
			found = true
		}
	}

	if !found {
		return Match{Confidence: 0}, nil
	}
	return Match{RecordingID: bestID, Confidence: math.Abs(best), Found: true}, nil
}

// Len returns the number of documents in the index.
func (idx *Index) Len() int {
	return len(idx.vectors)
}
