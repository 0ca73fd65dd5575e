package match

import "sort"

// Candidate is one reference key scored against a query key.
type Candidate struct {
	Key   string
	Score int
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Rank scores every key in pool against query and returns the candidates
// sorted by score (descending), then by key (ascending) so that equal scores
// always resolve to the lexicographically smallest key.
func Rank(query string, pool []string, scorer Scorer) CandidateList {
	candidates := make(CandidateList, 0, len(pool))

	for _, key := range pool {
		candidates = append(candidates, Candidate{
			Key:   key,
			Score: scorer(query, key),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by key for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Key < c[j].Key
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// Ties returns the leading run of candidates sharing the best score.
func (c CandidateList) Ties() CandidateList {
	if len(c) == 0 {
		return nil
	}

	n := 1
	for n < len(c) && c[n].Score == c[0].Score {
		n++
	}

	return c[:n]
}
