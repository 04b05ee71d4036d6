package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-teamsheet/internal/model"
)

const legacyCSV = `League,Season,Date,Opposition,Location,Result,GRFC,Opp,Notes,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18
Counties 1, 2015-16, 05/09/2015, Old Rivals, Home, Win 20-10, 20, 10, , Alice, Bob, ,Carol
,,,,,,,,
Counties 1,2015-16,,Farnham,Away,Loss,,,,Alice
Counties 1,2015-16,12/09/15,Farnham,Away,Loss,W/O,,,Alice,Bob,Carol,Dave,Erin,Finn,Gus,Hal,Ivy,Jo,Kit,Lee,Max,Ned,Oz,Pat,Quin,Ray
`

func TestReadCSV(t *testing.T) {
	res, err := ReadCSV(strings.NewReader(legacyCSV))
	require.NoError(t, err)
	require.Len(t, res.Sheets, 2)
	assert.Equal(t, []int{4}, res.Skipped, "row without a date is skipped")

	first := res.Sheets[0]
	assert.Equal(t, "Counties 1", first.League)
	assert.Equal(t, "2015-16", first.Season)
	assert.Equal(t, "05/09/2015", first.Date)
	assert.Equal(t, "Win 20-10", first.Result)
	require.NotNil(t, first.GuildfordPoints)
	assert.Equal(t, 20, *first.GuildfordPoints)
	assert.Equal(t, []string{"Alice", "Bob", "", "Carol"}, first.Players, "players start at the first numeric header")

	second := res.Sheets[1]
	assert.Nil(t, second.GuildfordPoints, "non-numeric points are absent")
	assert.Len(t, second.Players, 18)
	assert.Equal(t, "Ray", second.Players[17])
}

func TestReadCSVWithoutNumericHeader(t *testing.T) {
	in := "a,b,c,d,e,f,g,h,p\nL,S,2016-01-02,O,H,Draw,5,5,Alice,Bob\n"
	res, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Sheets, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, res.Sheets[0].Players)
}

func TestReadCSVEmpty(t *testing.T) {
	res, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, res.Sheets)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	pf := 20
	sheets := []model.Teamsheet{{
		League: "Counties 1", Season: "2015-16", Date: "2015-09-05",
		Opposition: "Old Rivals, the", Location: "Home", Result: "Win",
		GuildfordPoints: &pf,
		Players:         []string{"Alice", "", "Bob"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sheets))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "League,Season,Date,Opposition,Location,Result,Guildford Points,Opposition Points,1,2,"))
	assert.True(t, strings.HasSuffix(lines[0], ",20"))

	res, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, res.Sheets, 1)
	got := res.Sheets[0]
	assert.Equal(t, "05/09/2015", got.Date, "exported as DD/MM/YYYY")
	assert.Equal(t, "Old Rivals, the", got.Opposition)
	require.Len(t, got.Players, model.MaxPositions)
	assert.Equal(t, "Alice", got.Players[0])
	assert.Equal(t, "Bob", got.Players[2])
	assert.Nil(t, got.OppositionPoints)
}

func TestSheetsFromSnapshot(t *testing.T) {
	snap := &model.Snapshot{
		Matches: []model.Match{
			{ID: 1, Season: "2015-16", Date: "2015-09-05"},
			{ID: 2, Season: "2015-16", Date: "2015-09-12"},
		},
		Appearances: []model.Appearance{
			{MatchID: 1, PlayerName: "Alice", Position: 2},
			{MatchID: 2, PlayerName: "Bob", Position: 16},
		},
	}
	sheets := SheetsFromSnapshot(snap)
	require.Len(t, sheets, 2)
	assert.Equal(t, "Alice", sheets[0].Players[1])
	assert.Equal(t, "Bob", sheets[1].Players[15])
	assert.Len(t, sheets[1].Players, model.MaxPositions)
}

func TestSheetYAML(t *testing.T) {
	pf, pa := 20, 10
	sheet := model.Teamsheet{
		League: "Counties 1", Season: "2015-16", Date: "05/09/2015",
		Opposition: "Old Rivals", Result: "Win 20-10",
		GuildfordPoints: &pf, OppositionPoints: &pa,
		Players: []string{"Alice", "", "Bob"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSheet(&buf, sheet))
	assert.Contains(t, buf.String(), "guildford_points: 20")

	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	got, err := ReadSheetFile(path)
	require.NoError(t, err)
	assert.Equal(t, sheet, got)
}

func TestReadSheetRejects(t *testing.T) {
	_, err := ReadSheet(strings.NewReader("seasn: 2015-16\n"))
	assert.Error(t, err, "unknown keys are errors")

	_, err = ReadSheet(strings.NewReader(""))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = ReadSheetFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
