package enhancer

import (
	"sort"
	"strings"
	"unicode"
)

// stopWords are excluded from local keyword extraction.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {},
	"and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"because": {}, "been": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "had": {},
	"has": {}, "have": {}, "her": {}, "his": {}, "how": {}, "i": {},
	"if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {},
	"just": {}, "like": {}, "may": {}, "more": {}, "most": {}, "my": {},
	"no": {}, "not": {}, "of": {}, "on": {}, "one": {}, "or": {},
	"other": {}, "our": {}, "out": {}, "over": {}, "she": {}, "should": {},
	"so": {}, "some": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "to": {}, "up": {}, "use": {}, "used": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},
}

// ExtractKeywords returns up to limit keywords from the texts, ranked by
// frequency with stop words filtered. Ties are broken alphabetically so the
// result is deterministic.
func ExtractKeywords(texts []string, limit int) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			if len(w) < 3 {
				continue
			}
			if _, ok := stopWords[w]; ok {
				continue
			}
			counts[w]++
		}
	}

	keywords := make([]string, 0, len(counts))
	for w := range counts {
		keywords = append(keywords, w)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// SynthesizeTopic builds a topic label from extracted keywords. With no
// keywords available it falls back to the deterministic placeholder
// "Cluster <id>".
func SynthesizeTopic(keywords []string, clusterID string) string {
	switch {
	case len(keywords) >= 2:
		return keywords[0] + " and " + keywords[1]
	case len(keywords) == 1:
		return keywords[0]
	default:
		return "Cluster " + clusterID
	}
}

const maxLocalSummaryLength = 200

// LeadSentence returns the first sentence of the first snippet, truncated.
// Used as the local summary heuristic.
func LeadSentence(snippets []string) string {
	if len(snippets) == 0 {
		return ""
	}
	s := strings.TrimSpace(snippets[0])
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			s = s[:i+1]
			break
		}
	}
	if len(s) > maxLocalSummaryLength {
		s = strings.TrimSpace(s[:maxLocalSummaryLength])
	}
	return s
}
