package image

import (
	"sort"
	"strings"
)

// DefaultRelatedLimit caps the related list when callers pass no limit
const DefaultRelatedLimit = 5

const (
	categoryMatchScore = 10
	sharedKeywordScore = 2
)

// Related ranks candidates by similarity to the reference record and returns
// at most limit entries, best first. A candidate scores 10 for an exact
// category match plus 2 per keyword shared with the reference
// (case-insensitive exact match; each candidate keyword counts once).
// Zero-score candidates and the reference itself are dropped. The sort is
// stable, so ties keep the input order.
func Related(ref *ImageRecord, candidates []*ImageRecord, limit int) []*ImageRecord {
	if ref == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	refKeywords := make(map[string]struct{}, len(ref.Keywords))
	for _, kw := range ref.Keywords {
		refKeywords[strings.ToLower(kw)] = struct{}{}
	}

	type scoredRecord struct {
		record *ImageRecord
		score  int
	}

	var ranked []scoredRecord
	for _, candidate := range candidates {
		if candidate == nil || candidate.ID == ref.ID {
			continue
		}
		s := score(ref, candidate, refKeywords)
		if s == 0 {
			continue
		}
		ranked = append(ranked, scoredRecord{record: candidate, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]*ImageRecord, len(ranked))
	for i, entry := range ranked {
		result[i] = entry.record
	}
	return result
}

func score(ref, candidate *ImageRecord, refKeywords map[string]struct{}) int {
	s := 0
	if candidate.Category == ref.Category {
		s += categoryMatchScore
	}
	s += sharedKeywordScore * sharedKeywordCount(candidate, refKeywords)
	return s
}

// sharedKeywordCount counts the candidate's distinct keywords that have at
// least one case-insensitive match among the reference's keywords.
func sharedKeywordCount(candidate *ImageRecord, refKeywords map[string]struct{}) int {
	if len(refKeywords) == 0 {
		return 0
	}
	counted := make(map[string]struct{}, len(candidate.Keywords))
	shared := 0
	for _, kw := range candidate.Keywords {
		lower := strings.ToLower(kw)
		if _, dup := counted[lower]; dup {
			continue
		}
		counted[lower] = struct{}{}
		if _, ok := refKeywords[lower]; ok {
			shared++
		}
	}
	return shared
}
