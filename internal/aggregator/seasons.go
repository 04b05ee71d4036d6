package aggregator

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-teamsheet/internal/model"
)

// seasonLabelRe matches labels like "2015-16" or "2015 - 2016".
var seasonLabelRe = regexp.MustCompile(`^\s*(\d{4})\s*-\s*(\d{2,4})\s*$`)

// CollectSeasons returns the distinct non-empty season labels of matches, most recent first.
func CollectSeasons(matches []model.Match) []string {
	seen := make(map[string]struct{})
	var seasons []string
	for _, m := range matches {
		if m.Season == "" {
			continue
		}
		if _, ok := seen[m.Season]; ok {
			continue
		}
		seen[m.Season] = struct{}{}
		seasons = append(seasons, m.Season)
	}
	SortSeasons(seasons)
	if seasons == nil {
		return []string{}
	}
	return seasons
}

// SortSeasons orders labels in place by the year in their first four characters, descending.
// If any label has no leading year the whole slice is sorted lexicographically ascending
// instead; the two orderings are never mixed.
func SortSeasons(seasons []string) {
	if !yearOrdered(seasons) {
		sort.Strings(seasons)
		return
	}
	sort.SliceStable(seasons, func(i, j int) bool {
		yi, _ := seasonYear(seasons[i])
		yj, _ := seasonYear(seasons[j])
		if yi != yj {
			return yi > yj
		}
		return seasons[i] < seasons[j]
	})
}

// yearOrdered reports whether every label has a leading year, which is when SortSeasons
// orders newest first rather than lexicographically.
func yearOrdered(seasons []string) bool {
	for _, s := range seasons {
		if _, ok := seasonYear(s); !ok {
			return false
		}
	}
	return true
}

// seasonYear parses the integer formed by the first four characters of the trimmed label.
func seasonYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 4 {
		s = s[:4]
	}
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return y, true
}

// PreviousSeason returns the label before season: the next entry in the ordered index, or,
// when season is last or absent, the arithmetic predecessor of a "YYYY-YY" label. The
// arithmetic form is returned even if no match carries it. Returns "" when neither applies.
func PreviousSeason(index []string, season string) string {
	for i, s := range index {
		if s != season {
			continue
		}
		if i+1 < len(index) {
			return index[i+1]
		}
		break
	}
	m := seasonLabelRe.FindStringSubmatch(season)
	if m == nil {
		return ""
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d-%02d", start-1, start%100)
}
