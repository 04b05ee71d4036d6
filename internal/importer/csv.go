// Package importer moves teamsheets in and out of the store: the legacy spreadsheet CSV
// layout (one row per match, player columns headed 1..20) and single-sheet YAML files.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pable/go-teamsheet/internal/model"
)

// metaColumns are the match fields that precede the player columns, in order.
var metaColumns = []string{
	"League", "Season", "Date", "Opposition", "Location", "Result",
	"Guildford Points", "Opposition Points",
}

// CSVResult is the outcome of reading a legacy CSV file.
type CSVResult struct {
	Sheets []model.Teamsheet
	// Skipped holds the line numbers of rows without a date.
	Skipped []int
}

// ReadCSV parses the legacy layout. Match fields are positional; player columns start at
// the first header that is a number, or at column 9 when no header is. Blank lines are
// ignored and at most 20 player columns are read.
func ReadCSV(r io.Reader) (*CSVResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return &CSVResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	playerStart := playerStartIndex(header)

	res := &CSVResult{}
	lineNum := 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if blank(record) {
			continue
		}

		sheet := parseRecord(record, playerStart)
		if strings.TrimSpace(sheet.Date) == "" {
			res.Skipped = append(res.Skipped, lineNum)
			continue
		}
		res.Sheets = append(res.Sheets, sheet)
	}
	return res, nil
}

func playerStartIndex(header []string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, err := strconv.Atoi(h); err == nil {
			return i
		}
	}
	return len(metaColumns)
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRecord(record []string, playerStart int) model.Teamsheet {
	col := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	sheet := model.Teamsheet{
		League:           col(0),
		Season:           col(1),
		Date:             col(2),
		Opposition:       col(3),
		Location:         col(4),
		Result:           col(5),
		GuildfordPoints:  model.ParsePoints(col(6)),
		OppositionPoints: model.ParsePoints(col(7)),
	}
	for i := 0; i < model.MaxPositions && playerStart+i < len(record); i++ {
		sheet.Players = append(sheet.Players, col(playerStart+i))
	}
	return sheet
}

// WriteCSV writes sheets in the legacy layout with all 20 player columns.
func WriteCSV(w io.Writer, sheets []model.Teamsheet) error {
	writer := csv.NewWriter(w)

	header := append([]string{}, metaColumns...)
	for i := 1; i <= model.MaxPositions; i++ {
		header = append(header, strconv.Itoa(i))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, s := range sheets {
		row := []string{
			s.League, s.Season, model.FormatDate(s.Date), s.Opposition, s.Location, s.Result,
			pointsText(s.GuildfordPoints), pointsText(s.OppositionPoints),
		}
		players := make([]string, model.MaxPositions)
		copy(players, s.Players)
		row = append(row, players...)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func pointsText(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// SheetsFromSnapshot rebuilds one teamsheet per stored match, in storage order.
func SheetsFromSnapshot(snap *model.Snapshot) []model.Teamsheet {
	byMatch := make(map[int64][]model.Appearance)
	for _, a := range snap.Appearances {
		byMatch[a.MatchID] = append(byMatch[a.MatchID], a)
	}
	out := make([]model.Teamsheet, 0, len(snap.Matches))
	for _, m := range snap.Matches {
		sheet := model.Teamsheet{
			League:           m.League,
			Season:           m.Season,
			Date:             m.Date,
			Opposition:       m.Opposition,
			Location:         m.Location,
			Result:           m.Result,
			GuildfordPoints:  m.GuildfordPoints,
			OppositionPoints: m.OppositionPoints,
			Players:          make([]string, model.MaxPositions),
		}
		for _, a := range byMatch[m.ID] {
			if a.Position >= 1 && a.Position <= model.MaxPositions {
				sheet.Players[a.Position-1] = a.PlayerName
			}
		}
		out = append(out, sheet)
	}
	return out
}
