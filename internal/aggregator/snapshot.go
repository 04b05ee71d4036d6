package aggregator

import (
	"sort"

	"github.com/pable/go-teamsheet/internal/model"
)

// snapshotIndex is a lookup view built once per aggregation call.
type snapshotIndex struct {
	matches      map[int64]model.Match
	appsByMatch  map[int64][]model.Appearance
	appsByPlayer map[int64][]model.Appearance
	playerNames  map[int64]string
	playerByName map[string]int64
}

func newIndex(snap *model.Snapshot) *snapshotIndex {
	idx := &snapshotIndex{
		matches:      make(map[int64]model.Match, len(snap.Matches)),
		appsByMatch:  make(map[int64][]model.Appearance),
		appsByPlayer: make(map[int64][]model.Appearance),
		playerNames:  make(map[int64]string, len(snap.Players)),
		playerByName: make(map[string]int64, len(snap.Players)),
	}
	for _, m := range snap.Matches {
		idx.matches[m.ID] = m
	}
	for _, p := range snap.Players {
		idx.playerNames[p.ID] = p.Name
		idx.playerByName[p.Name] = p.ID
	}
	for _, a := range snap.Appearances {
		idx.appsByMatch[a.MatchID] = append(idx.appsByMatch[a.MatchID], a)
		idx.appsByPlayer[a.PlayerID] = append(idx.appsByPlayer[a.PlayerID], a)
		if _, ok := idx.playerNames[a.PlayerID]; !ok && a.PlayerName != "" {
			idx.playerNames[a.PlayerID] = a.PlayerName
			idx.playerByName[a.PlayerName] = a.PlayerID
		}
	}
	return idx
}

// shirtDistribution turns a per-shirt counter into rows ordered by shirt number.
// Percentages use denominator, not the per-shirt count.
func shirtDistribution(counts map[int]int, denominator int) []model.ShirtCount {
	out := make([]model.ShirtCount, 0, len(counts))
	for num, cnt := range counts {
		pct := 0.0
		if denominator > 0 {
			pct = float64(cnt) / float64(denominator) * 100
		}
		out = append(out, model.ShirtCount{Number: num, Count: cnt, Pct: pct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}
