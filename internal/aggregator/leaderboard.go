package aggregator

import (
	"sort"
	"strings"

	"github.com/pable/go-teamsheet/internal/model"
)

// PlayerCounts returns all-time counters for every player with at least one appearance.
func PlayerCounts(snap *model.Snapshot) []model.PlayerCount {
	idx := newIndex(snap)
	counts := make(map[int64]*model.PlayerCount)
	for _, a := range snap.Appearances {
		c, ok := counts[a.PlayerID]
		if !ok {
			c = &model.PlayerCount{PlayerID: a.PlayerID, Name: idx.playerNames[a.PlayerID]}
			counts[a.PlayerID] = c
		}
		if model.IsStart(a.Position) {
			c.Starts++
		} else {
			c.Bench++
		}
		c.Total++
	}
	out := make([]model.PlayerCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	SortLeaderboard(out)
	return out
}

// Appearances filters, orders and truncates the all-time leaderboard.
// Unknown sort fields fall back to total; ties are always broken by name.
func Appearances(snap *model.Snapshot, q model.AppearanceQuery) []model.PlayerCount {
	rows := PlayerCounts(snap)
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		filtered := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Name), needle) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	key := func(r model.PlayerCount) int {
		switch q.SortBy {
		case "starts":
			return r.Starts
		case "bench":
			return r.Bench
		default:
			return r.Total
		}
	}
	asc := q.Order == "asc"
	sort.SliceStable(rows, func(i, j int) bool {
		if q.SortBy == "name" {
			if asc {
				return rows[i].Name < rows[j].Name
			}
			return rows[i].Name > rows[j].Name
		}
		ki, kj := key(rows[i]), key(rows[j])
		if ki != kj {
			if asc {
				return ki < kj
			}
			return ki > kj
		}
		return rows[i].Name < rows[j].Name
	})

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows
}

// Milestones lists players whose next appearance is a multiple of every, closest to the
// biggest milestone first.
func Milestones(counts []model.PlayerCount, every int) []model.Milestone {
	if every <= 0 {
		return nil
	}
	var out []model.Milestone
	for _, c := range counts {
		if (c.Total+1)%every == 0 {
			out = append(out, model.Milestone{Name: c.Name, Total: c.Total, Next: c.Total + 1})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Next != out[j].Next {
			return out[i].Next > out[j].Next
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Overview summarises the snapshot and lists up to recent matches, newest first.
func Overview(snap *model.Snapshot, recent int) model.Overview {
	ov := model.Overview{
		TotalPlayers:     len(snap.Players),
		TotalMatches:     len(snap.Matches),
		TotalAppearances: len(snap.Appearances),
		Seasons:          len(CollectSeasons(snap.Matches)),
	}
	matches := make([]model.Match, len(snap.Matches))
	copy(matches, snap.Matches)
	SortNewestFirst(matches)
	if recent > 0 && len(matches) > recent {
		matches = matches[:recent]
	}
	ov.Recent = matches
	return ov
}

// SortNewestFirst orders matches by date, newest first, with undated matches last in
// their original order.
func SortNewestFirst(matches []model.Match) {
	SortMatchesByDate(matches)
	dated := 0
	for dated < len(matches) {
		if _, ok := model.ParseDate(matches[dated].Date); !ok {
			break
		}
		dated++
	}
	for i, j := 0, dated-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}
}
