// Package stats is the entry point for everything the CLI does with teamsheet data. It reads
// a snapshot of the store, runs the pure aggregations over it and caches the results until
// the next write.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pable/go-teamsheet/internal/aggregator"
	"github.com/pable/go-teamsheet/internal/fuzzy"
	"github.com/pable/go-teamsheet/internal/model"
)

// Store is the persistence the service needs. *storage.DB implements it.
type Store interface {
	LoadSnapshot(ctx context.Context) (*model.Snapshot, error)
	PlayerNames(ctx context.Context) ([]string, error)
	RecordTeamsheet(ctx context.Context, sheet model.Teamsheet) (int64, error)
	ImportTeamsheets(ctx context.Context, sheets []model.Teamsheet) (int, error)
	UpdateTeamsheet(ctx context.Context, id int64, sheet model.Teamsheet) error
	DeleteMatch(ctx context.Context, id int64) error
	LatestTeamsheet(ctx context.Context) (*model.Teamsheet, error)
	MergePlayers(ctx context.Context, names []string, canonical string) (*model.MergeResult, error)
	MergeHistory(ctx context.Context) ([]model.MergeAudit, error)
}

// Options tunes the fuzzy thresholds and milestone interval.
type Options struct {
	SuggestThreshold int
	GroupThreshold   int
	MilestoneEvery   int
}

// DefaultOptions returns the thresholds used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SuggestThreshold: fuzzy.DefaultSuggestThreshold,
		GroupThreshold:   fuzzy.DefaultGroupThreshold,
		MilestoneEvery:   50,
	}
}

// Service answers statistics queries and applies writes. It is safe for concurrent use.
type Service struct {
	store Store
	log   *zap.Logger
	opts  Options

	mu      sync.RWMutex
	gen     uint64 // bumped by invalidate
	snap    *model.Snapshot
	seasons map[string]*model.SeasonStats
}

// NewService wires a store and logger. A nil logger disables logging.
func NewService(store Store, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, opts: opts}
}

// snapshot returns the cached snapshot, loading it from the store on a miss.
func (s *Service) snapshot(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	snap, gen := s.snap, s.gen
	s.mu.RUnlock()
	if snap != nil {
		s.log.Debug("snapshot cache hit")
		return snap, nil
	}

	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	// A write that committed during the load has invalidated since gen was read; the
	// snapshot is still returned to this caller but never cached.
	s.mu.Lock()
	switch {
	case s.gen != gen:
	case s.snap == nil:
		s.snap = snap
		s.seasons = make(map[string]*model.SeasonStats)
	default:
		snap = s.snap
	}
	s.mu.Unlock()
	s.log.Debug("snapshot loaded",
		zap.Int("matches", len(snap.Matches)),
		zap.Int("players", len(snap.Players)),
		zap.Int("appearances", len(snap.Appearances)))
	return snap, nil
}

// invalidate drops every cached aggregate. Called after each successful write.
func (s *Service) invalidate() {
	s.mu.Lock()
	s.gen++
	s.snap = nil
	s.seasons = nil
	s.mu.Unlock()
}

// CollectSeasons returns the season index, most recent first.
func (s *Service) CollectSeasons(ctx context.Context) ([]string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregator.CollectSeasons(snap.Matches), nil
}

// ComputeSeasonStats returns the aggregate for one season. An empty label means the most
// recent season. Seasons with no matches return model.ErrNotFound.
// The result is shared with the cache and must not be modified.
func (s *Service) ComputeSeasonStats(ctx context.Context, season string) (*model.SeasonStats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if season == "" {
		index := aggregator.CollectSeasons(snap.Matches)
		if len(index) == 0 {
			return nil, fmt.Errorf("no seasons recorded: %w", model.ErrNotFound)
		}
		season = index[0]
	}

	s.mu.RLock()
	cached, ok := s.seasons[season]
	s.mu.RUnlock()
	if ok {
		s.log.Debug("season cache hit", zap.String("season", season))
		return cached, nil
	}

	st, ok := aggregator.SeasonStats(snap, season)
	if !ok {
		return nil, fmt.Errorf("season %q: %w", season, model.ErrNotFound)
	}
	s.mu.Lock()
	// Only cache against the snapshot the stats were computed from.
	if s.snap == snap && s.seasons != nil {
		s.seasons[season] = st
	}
	s.mu.Unlock()
	return st, nil
}

// GetPlayerStats returns the career view of one player by exact name.
func (s *Service) GetPlayerStats(ctx context.Context, name string) (*model.PlayerStats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ps, ok := aggregator.PlayerStats(snap, name)
	if !ok {
		return nil, fmt.Errorf("player %q: %w", name, model.ErrNotFound)
	}
	return ps, nil
}

// Appearances returns the filtered all-time leaderboard.
func (s *Service) Appearances(ctx context.Context, q model.AppearanceQuery) ([]model.PlayerCount, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregator.Appearances(snap, q), nil
}

// Milestones lists players one appearance away from a multiple of every. Zero or less
// uses the configured interval.
func (s *Service) Milestones(ctx context.Context, every int) ([]model.Milestone, error) {
	if every <= 0 {
		every = s.opts.MilestoneEvery
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregator.Milestones(aggregator.PlayerCounts(snap), every), nil
}

// Overview summarises the store with the given number of recent matches.
func (s *Service) Overview(ctx context.Context, recent int) (model.Overview, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return model.Overview{}, err
	}
	return aggregator.Overview(snap, recent), nil
}

// DuplicateGroups clusters stored player names and attaches each member's appearance
// counts. Zero or less uses the configured threshold.
func (s *Service) DuplicateGroups(ctx context.Context, threshold int) ([]model.DuplicateGroup, error) {
	if threshold <= 0 {
		threshold = s.opts.GroupThreshold
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]model.PlayerCount, len(snap.Players))
	names := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		byName[p.Name] = model.PlayerCount{PlayerID: p.ID, Name: p.Name}
		names = append(names, p.Name)
	}
	for _, c := range aggregator.PlayerCounts(snap) {
		byName[c.Name] = c
	}
	sort.Strings(names)

	var out []model.DuplicateGroup
	for _, g := range fuzzy.FindDuplicateGroups(names, threshold) {
		dg := model.DuplicateGroup{Members: make([]model.PlayerCount, len(g))}
		for i, n := range g {
			dg.Members[i] = byName[n]
		}
		out = append(out, dg)
	}
	return out, nil
}

// ListMatches returns the matches of one season (or all when season is empty), newest
// first, with the number of players on each teamsheet.
func (s *Service) ListMatches(ctx context.Context, season string) ([]model.Match, map[int64]int, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	var matches []model.Match
	for _, m := range snap.Matches {
		if season == "" || m.Season == season {
			matches = append(matches, m)
		}
	}
	aggregator.SortNewestFirst(matches)

	counts := make(map[int64]int, len(matches))
	for _, a := range snap.Appearances {
		counts[a.MatchID]++
	}
	return matches, counts, nil
}

// CheckTeamsheet returns an advisory for each submitted name that is new but close to an
// existing player.
func (s *Service) CheckTeamsheet(ctx context.Context, names []string) ([]string, error) {
	known, err := s.store.PlayerNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	var candidates []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			candidates = append(candidates, n)
		}
	}
	return fuzzy.FindPotentialDuplicates(candidates, known, s.opts.SuggestThreshold), nil
}

// LatestTeamsheet returns the most recent match as a template for the next one.
func (s *Service) LatestTeamsheet(ctx context.Context) (*model.Teamsheet, error) {
	return s.store.LatestTeamsheet(ctx)
}

// MergeHistory returns past merges, newest first.
func (s *Service) MergeHistory(ctx context.Context) ([]model.MergeAudit, error) {
	return s.store.MergeHistory(ctx)
}
