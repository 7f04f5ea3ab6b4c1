// Package scorer ranks catalog programs against a free-text statement of
// interests using weighted keyword matching.
package scorer

import (
	"sort"
	"strings"

	"github.com/egor/engadvisor/models"
)

// Limit is the maximum number of results returned by Score.
const Limit = 5

// Weights are the score contributions of each keyword tier.
type Weights struct {
	Primary     int
	Secondary   int
	Career      int
	Industry    int
	ProgramName int
}

// DefaultWeights returns the weights the advisor ships with.
func DefaultWeights() Weights {
	return Weights{
		Primary:     3,
		Secondary:   2,
		Career:      2,
		Industry:    1,
		ProgramName: 2,
	}
}

// Score ranks programs against query with the default weights.
func Score(query string, programs []models.Program) []models.MatchResult {
	return DefaultWeights().Score(query, programs)
}

// Score ranks programs against query. Results are ordered by score
// descending with ties kept in catalog order; zero scores are dropped and
// at most Limit results are returned.
//
// Tiers do not match the same way. Primary, secondary and industry phrases
// and program-name words match as substrings of the query, while a career
// phrase matches when any of its words is a whole word of the query.
func (w Weights) Score(query string, programs []models.Program) []models.MatchResult {
	q := strings.ToLower(query)
	queryTokens := make(map[string]struct{})
	for _, tok := range strings.Fields(q) {
		queryTokens[tok] = struct{}{}
	}

	var matches []models.MatchResult
	for i := range programs {
		p := &programs[i]
		score := 0
		var matched []string

		for _, kw := range p.PrimaryKeywords {
			if strings.Contains(q, strings.ToLower(kw)) {
				score += w.Primary
				matched = append(matched, kw)
			}
		}

		for _, kw := range p.SecondaryKeywords {
			if strings.Contains(q, strings.ToLower(kw)) {
				score += w.Secondary
				matched = append(matched, kw)
			}
		}

		for _, career := range p.CareerFocus {
			if anyToken(strings.Fields(strings.ToLower(career)), queryTokens) {
				score += w.Career
				matched = append(matched, career)
			}
		}

		for _, industry := range p.IndustryApplications {
			if strings.Contains(q, strings.ToLower(industry)) {
				score += w.Industry
				matched = append(matched, industry)
			}
		}

		for _, word := range strings.Fields(strings.ToLower(p.Name)) {
			if strings.Contains(q, word) {
				score += w.ProgramName
				matched = append(matched, word)
			}
		}

		if score > 0 {
			matches = append(matches, models.MatchResult{
				Program:         p,
				Score:           score,
				MatchedKeywords: matched,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > Limit {
		matches = matches[:Limit]
	}
	return matches
}

func anyToken(words []string, tokens map[string]struct{}) bool {
	for _, w := range words {
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}
