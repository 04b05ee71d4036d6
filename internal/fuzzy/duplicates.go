package fuzzy

import (
	"fmt"
	"sort"
)

const (
	// DefaultSuggestThreshold is the WRatio at which a new name is flagged as a likely typo.
	DefaultSuggestThreshold = 90
	// DefaultGroupThreshold is the TokenSortRatio at which stored names are grouped.
	DefaultGroupThreshold = 80
)

// FindPotentialDuplicates checks every candidate that is not already a known name against
// the known names and returns one advisory message per candidate whose closest known name
// scores at least threshold. It never fails; with no known names it returns nothing.
func FindPotentialDuplicates(candidates, known []string, threshold int) []string {
	knownSet := make(map[string]struct{}, len(known))
	for _, k := range known {
		knownSet[k] = struct{}{}
	}

	var msgs []string
	for _, name := range candidates {
		if _, ok := knownSet[name]; ok {
			continue
		}
		best, s, ok := ExtractOne(name, known, WRatio)
		if !ok || s < threshold {
			continue
		}
		msgs = append(msgs, fmt.Sprintf(`"%s" is not an existing player. Did you mean "%s"?`, name, best))
	}
	return msgs
}

// FindDuplicateGroups clusters names in a single greedy pass. Each name not yet placed in a
// group seeds a group of every name, grouped or not, whose TokenSortRatio against the seed
// is at least threshold. Groups of two or more are kept, sorted, and their members are not
// used as seeds again.
//
// The result is not a transitive closure: it depends on input order and a name can appear
// in more than one group.
func FindDuplicateGroups(names []string, threshold int) [][]string {
	processed := make(map[string]struct{})
	var groups [][]string
	for _, seed := range names {
		if _, ok := processed[seed]; ok {
			continue
		}
		members := make(map[string]struct{})
		for _, other := range names {
			if TokenSortRatio(seed, other) >= threshold {
				members[other] = struct{}{}
			}
		}
		if len(members) < 2 {
			continue
		}
		group := make([]string, 0, len(members))
		for m := range members {
			group = append(group, m)
			processed[m] = struct{}{}
		}
		sort.Strings(group)
		groups = append(groups, group)
	}
	return groups
}
