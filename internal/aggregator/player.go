package aggregator

import (
	"sort"

	"github.com/pable/go-teamsheet/internal/model"
)

// PlayerStats builds the career view for the player with exactly this name. It returns
// false when the name is unknown or the player has no appearances.
func PlayerStats(snap *model.Snapshot, name string) (*model.PlayerStats, bool) {
	idx := newIndex(snap)
	id, ok := idx.playerByName[name]
	if !ok {
		return nil, false
	}
	apps := idx.appsByPlayer[id]
	if len(apps) == 0 {
		return nil, false
	}

	out := &model.PlayerStats{Name: name, Total: len(apps)}
	shirts := make(map[int]int)
	for _, a := range apps {
		m := idx.matches[a.MatchID]
		if model.IsStart(a.Position) {
			out.Starts++
		} else {
			out.Bench++
		}
		if model.IsExactWin(m.Result) {
			out.Wins++
		}
		shirts[a.Position]++

		if d, ok := model.ParseDate(m.Date); ok {
			if out.FirstDate.IsZero() || d.Before(out.FirstDate) {
				out.FirstDate = d
			}
			if out.LastDate.IsZero() || d.After(out.LastDate) {
				out.LastDate = d
			}
		}
		out.Appearances = append(out.Appearances, model.PlayerAppearance{Match: m, Position: a.Position})
	}
	out.WinPct = pct(out.Wins, out.Total)
	out.ByShirt = shirtDistribution(shirts, out.Total)

	// Newest first; undated rows sink to the bottom.
	sort.SliceStable(out.Appearances, func(i, j int) bool {
		ti, oki := model.ParseDate(out.Appearances[i].Match.Date)
		tj, okj := model.ParseDate(out.Appearances[j].Match.Date)
		if oki && okj {
			return ti.After(tj)
		}
		return oki && !okj
	})
	return out, true
}
