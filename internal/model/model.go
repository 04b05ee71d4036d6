// Package model holds the teamsheet domain types shared by storage, aggregation and reporting.
package model

import "time"

const (
	// MaxPositions is the number of shirts on a teamsheet (15 starters + 5 bench).
	MaxPositions = 20
	// StartingPositions is the highest shirt number that counts as a start.
	StartingPositions = 15
)

// IsStart reports whether a shirt number belongs to the starting XV.
func IsStart(position int) bool {
	return position <= StartingPositions
}

// Player is a named identity. Name is the case-sensitive identity key.
type Player struct {
	ID   int64
	Name string
}

// Match is one fixture. Date is kept as stored text; use ParseDate to interpret it.
type Match struct {
	ID               int64
	League           string
	Season           string
	Date             string
	Opposition       string
	Location         string
	Result           string
	GuildfordPoints  *int
	OppositionPoints *int
}

// PointsFor returns the club's score, treating an absent value as 0.
func (m Match) PointsFor() int {
	if m.GuildfordPoints == nil {
		return 0
	}
	return *m.GuildfordPoints
}

// PointsAgainst returns the opposition's score, treating an absent value as 0.
func (m Match) PointsAgainst() int {
	if m.OppositionPoints == nil {
		return 0
	}
	return *m.OppositionPoints
}

// Appearance binds one player to one match at a shirt number.
type Appearance struct {
	ID         int64
	MatchID    int64
	PlayerID   int64
	PlayerName string
	Position   int
}

// Snapshot is a full read of the store taken at the start of an aggregation.
type Snapshot struct {
	Matches     []Match
	Players     []Player
	Appearances []Appearance
}

// Teamsheet is the input for recording a match. Players[i] wears shirt i+1; blanks are vacant.
type Teamsheet struct {
	League           string   `yaml:"league"`
	Season           string   `yaml:"season"`
	Date             string   `yaml:"date"`
	Opposition       string   `yaml:"opposition"`
	Location         string   `yaml:"location"`
	Result           string   `yaml:"result"`
	GuildfordPoints  *int     `yaml:"guildford_points"`
	OppositionPoints *int     `yaml:"opposition_points"`
	Players          []string `yaml:"players"`
}

// ---- Aggregated results ----

// PlayerCount is a per-player appearance counter.
type PlayerCount struct {
	PlayerID int64
	Name     string
	Starts   int
	Bench    int
	Total    int
}

// ShirtCount is the number of appearances in one shirt and its share of the denominator.
type ShirtCount struct {
	Number int
	Count  int
	Pct    float64
}

// SeasonStats is the aggregate view of one season.
type SeasonStats struct {
	Season           string
	TotalMatches     int
	Wins             int
	Draws            int
	Losses           int
	WinPct           float64
	PointsFor        int
	PointsAgainst    int
	AvgPointsFor     int
	AvgPointsAgainst int

	Leaderboard      []PlayerCount
	ShirtDist        []ShirtCount
	TotalAppearances int
	TotalPlayersUsed int

	Debutants  []string
	DebutCount int
	DebutPct   float64

	PreviousSeason string
	Leavers        []string
	LeaversCount   int
	LeaversPct     float64

	Matches          []Match
	AvailableSeasons []string
}

// PlayerAppearance is one row of a player's history.
type PlayerAppearance struct {
	Match    Match
	Position int
}

// PlayerStats is the career view of one player.
type PlayerStats struct {
	Name        string
	Total       int
	Starts      int
	Bench       int
	Wins        int
	WinPct      float64
	FirstDate   time.Time // zero when no appearance has a parseable date
	LastDate    time.Time
	ByShirt     []ShirtCount
	Appearances []PlayerAppearance
}

// AppearanceQuery filters and orders the all-time appearance leaderboard.
type AppearanceQuery struct {
	Search string
	SortBy string // name, total, starts, bench
	Order  string // asc, desc
	Limit  int    // 0 = no limit
}

// Milestone flags a player whose next appearance reaches a round number.
type Milestone struct {
	Name  string
	Total int
	Next  int
}

// Overview is the dashboard summary of the whole store.
type Overview struct {
	TotalPlayers     int
	TotalMatches     int
	TotalAppearances int
	Seasons          int
	Recent           []Match
}

// DuplicateGroup is a set of similar names with their appearance totals.
type DuplicateGroup struct {
	Members []PlayerCount
}

// MergeResult reports a committed merge.
type MergeResult struct {
	Canonical   string
	Merged      []string
	MergedCount int
	Reassigned  int
	AuditID     string
}

// MergeAudit is one row of the merge history.
type MergeAudit struct {
	ID         string
	Canonical  string
	Merged     []string
	Reassigned int
	CreatedAt  time.Time
}
