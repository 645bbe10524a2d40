// Package prefix computes the shortest unique prefix of each ID in a set,
// used to highlight the typeable part of change IDs the way jj itself does.
package prefix

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// MinLen is the minimum prefix length to show (for readability)
const MinLen = 1

// commonLen returns the length of the shared prefix of two strings.
func commonLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Compute returns, for each ID, the minimum number of leading characters
// that distinguishes it from every other ID in the set. After sorting, only
// the two neighbors of an ID can share its longest common prefix, so one
// pass over the sorted order suffices.
func Compute(ids []string) map[string]int {
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			sorted = append(sorted, id)
		}
	}
	sort.Strings(sorted)

	result := make(map[string]int, len(sorted))
	for i, id := range sorted {
		need := MinLen
		if i > 0 {
			if n := commonLen(id, sorted[i-1]) + 1; n > need {
				need = n
			}
		}
		if i < len(sorted)-1 {
			if n := commonLen(id, sorted[i+1]) + 1; n > need {
				need = n
			}
		}
		if need > len(id) {
			need = len(id)
		}
		result[id] = need
	}
	return result
}

// Format renders an ID with its unique prefix in one style and the rest in
// another.
func Format(id string, prefixLen int, prefixStyle, restStyle lipgloss.Style) string {
	if id == "" {
		return ""
	}
	if prefixLen < MinLen {
		prefixLen = MinLen
	}
	if prefixLen >= len(id) {
		return prefixStyle.Render(id)
	}
	return prefixStyle.Render(id[:prefixLen]) + restStyle.Render(id[prefixLen:])
}

// IDSet holds the computed prefix lengths for one set of IDs.
type IDSet struct {
	prefixes map[string]int
}

// NewIDSet computes prefixes for the given IDs.
func NewIDSet(ids []string) *IDSet {
	return &IDSet{prefixes: Compute(ids)}
}

// PrefixLen returns the unique prefix length for the given ID, or MinLen
// for IDs outside the set.
func (s *IDSet) PrefixLen(id string) int {
	if n, ok := s.prefixes[id]; ok {
		return n
	}
	return MinLen
}

// Format renders the ID with its unique prefix highlighted.
func (s *IDSet) Format(id string, prefixStyle, restStyle lipgloss.Style) string {
	return Format(id, s.PrefixLen(id), prefixStyle, restStyle)
}
