// Package search implements quick-find over the cards of a board snapshot.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/jask/kanban/internal/board"
)

// Hit is one matching card and where it sits.
type Hit struct {
	Location board.Location
	Issue    board.Issue
}

type cards []Hit

func (c cards) String(i int) string { return strings.ToLower(c[i].Issue.Content) }
func (c cards) Len() int            { return len(c) }

// Find ranks cards whose content matches query. Fuzzy subsequence matches
// win; when there are none, cards with a word within a small edit distance of
// the query are returned in board order.
func Find(snap board.Snapshot, query string) []Hit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	all := flatten(snap)
	if len(all) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(q, all)
	if len(matches) > 0 {
		out := make([]Hit, 0, len(matches))
		for _, m := range matches {
			out = append(out, all[m.Index])
		}
		return out
	}

	tolerance := max(1, utf8.RuneCountInString(q)/4)
	var out []Hit
	for _, h := range all {
		if closeWord(strings.ToLower(h.Issue.Content), q, tolerance) {
			out = append(out, h)
		}
	}
	return out
}

func flatten(snap board.Snapshot) cards {
	var out cards
	for _, col := range board.Columns() {
		for i, issue := range snap.Columns[col] {
			out = append(out, Hit{Location: board.Location{Column: col, Index: i}, Issue: issue})
		}
	}
	return out
}

func closeWord(content, q string, tolerance int) bool {
	for _, w := range strings.Fields(content) {
		if levenshtein.ComputeDistance(w, q) <= tolerance {
			return true
		}
	}
	return false
}
