// Package search implements relevance scoring and recent-query tracking
// for the search engine. Scoring is a pure heuristic over two text fields
// so it can be unit tested without a datastore.
package search

import "strings"

// Weights control how much each kind of match contributes to a score.
type Weights struct {
	Primary       int // primary field contains the query
	PrimaryPrefix int // primary field starts with the query, on top of Primary
	Secondary     int // secondary field contains the query
	Starred       int // flat bonus for starred items
}

// DeckWeights score a deck by title (primary) and description (secondary).
var DeckWeights = Weights{Primary: 10, PrimaryPrefix: 5, Secondary: 5}

// CardWeights score a flashcard by front (primary) and back (secondary),
// with a small bonus for starred cards.
var CardWeights = Weights{Primary: 8, PrimaryPrefix: 4, Secondary: 6, Starred: 2}

// Candidate is one item under consideration for a query.
type Candidate struct {
	Primary   string
	Secondary string
	Starred   bool
}

// Match is the outcome of scoring a candidate.
type Match struct {
	Score int
	// PrimaryMatched reports whether the primary field contributed;
	// it decides the match-type label even when the secondary also hit.
	PrimaryMatched bool
}

// Score applies w to c for the given query. Matching is case-insensitive
// and the query is expected to be pre-trimmed. A zero score means no match.
func Score(c Candidate, query string, w Weights) Match {
	q := strings.ToLower(query)
	primary := strings.ToLower(c.Primary)
	secondary := strings.ToLower(c.Secondary)

	var m Match
	if strings.Contains(primary, q) {
		m.Score += w.Primary
		m.PrimaryMatched = true
		if strings.HasPrefix(primary, q) {
			m.Score += w.PrimaryPrefix
		}
	}
	if secondary != "" && strings.Contains(secondary, q) {
		m.Score += w.Secondary
	}
	if m.Score > 0 && c.Starred {
		m.Score += w.Starred
	}
	return m
}
