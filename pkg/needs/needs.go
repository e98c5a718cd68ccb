// Package needs resolves the free-text "needs" lists of blocks against the
// names of the blocks currently in a store.
//
// Resolution is advisory. Stored needs are never rewritten when a block is
// renamed or deleted, so a dependency can silently dangle; [Dangling] lists
// those references so the editor can warn about them.
package needs

import (
	"slices"
	"strings"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

// Parse splits a comma separated needs list into trimmed, non-empty names,
// preserving order.
func Parse(raw string) []string {
	return block.SplitList(raw)
}

// Join stores a picker selection back into the raw form. Names are kept as
// given, resolved or not.
func Join(selected []string) string {
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return block.JoinList(out)
}

// Resolve returns the entries of raw that name an existing block, in input
// order.
func Resolve(raw string, names map[string]bool) []string {
	var out []string
	for _, n := range Parse(raw) {
		if names[n] {
			out = append(out, n)
		}
	}
	return out
}

// Candidate is one option of the edit form's dependency picker.
type Candidate struct {
	Name     string `json:"name"`
	BlockID  string `json:"block_id"`
	Selected bool   `json:"selected"`
}

// Candidates returns the picker options for block id: every other block in
// the store, in list order, with the ones already in the block's needs
// marked as selected. A name shared by several blocks is offered once.
// Nested children are candidates too; they compile to jobs of their own.
// Container-only groups are skipped since they never become jobs.
func Candidates(s *block.Store, id string) ([]Candidate, bool) {
	self, ok := s.Get(id)
	if !ok {
		return nil, false
	}
	current := Parse(self.Needs)
	seen := make(map[string]bool)
	out := []Candidate{}
	for _, b := range s.List() {
		if b.ID == id || b.Name == "" || seen[b.Name] || s.Catalog().IsContainerOnly(b.Type) {
			continue
		}
		seen[b.Name] = true
		out = append(out, Candidate{
			Name:     b.Name,
			BlockID:  b.ID,
			Selected: slices.Contains(current, b.Name),
		})
	}
	return out, true
}

// Names returns the candidate names in order.
func Names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// Reference is a stored need that does not resolve.
type Reference struct {
	BlockID string `json:"block_id"`
	Job     string `json:"job"`
	Need    string `json:"need"`
}

// Dangling lists every stored need that names no live block, in store order.
func Dangling(s *block.Store) []Reference {
	names := s.Names()
	var out []Reference
	for _, b := range s.List() {
		for _, n := range Parse(b.Needs) {
			if !names[n] {
				out = append(out, Reference{BlockID: b.ID, Job: b.Name, Need: n})
			}
		}
	}
	return out
}
