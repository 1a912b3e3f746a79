// Package csvio implements the bulk roster import and leaderboard export
// CSV contracts.
package csvio

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/pkg/metrics"
)

// rosterColumns is the exact, order-sensitive roster header.
var rosterColumns = []string{"teamName", "teamNumber", "description"}

// RowError reports one rejected roster row. Row is the 1-based data row
// index, header excluded.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult collects what a roster batch produced. A batch with bad
// rows still creates every good team; nothing is rolled back and no row
// is dropped without a diagnostic.
type ImportResult struct {
	Created []model.Team `json:"created"`
	Errors  []RowError   `json:"errors"`
}

// TeamCreator is the slice of the store the importer needs.
type TeamCreator interface {
	AddTeam(ctx context.Context, eventID, name string, number int, description string) (model.Team, error)
}

// ImportRoster parses a roster CSV and creates one team per valid row.
//
// Only a malformed header, an empty payload, or a batch larger than
// maxRows fail the whole call (wrapping model.ErrValidation); everything
// row-level lands in the result's Errors. Rows are applied in file order,
// so on a number collision inside the batch the first row wins and later
// ones are reported.
func ImportRoster(ctx context.Context, store TeamCreator, eventID string, data []byte, maxRows int) (ImportResult, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // field-count errors are row-level, handled here
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return ImportResult{}, fmt.Errorf("%w: %w", model.ErrValidation, ErrEmptyRoster)
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: roster is not CSV: %v", model.ErrValidation, err)
	}
	if err := checkHeader(header); err != nil {
		return ImportResult{}, err
	}

	// The whole payload is parsed before the store is touched, so an
	// oversized batch is rejected without creating any teams.
	res := ImportResult{Created: []model.Team{}, Errors: []RowError{}}
	var rows []rosterRow
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil && len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			// Blank line, not worth a diagnostic and not counted
			// against the cap.
			continue
		}
		row++
		if maxRows > 0 && row > maxRows {
			return ImportResult{}, fmt.Errorf("%w: roster exceeds %d rows", model.ErrValidation, maxRows)
		}
		if err != nil {
			res.reject(row, "malformed CSV row")
			continue
		}
		if len(record) != len(rosterColumns) {
			res.reject(row, fmt.Sprintf("expected %d fields, got %d", len(rosterColumns), len(record)))
			continue
		}

		name := strings.TrimSpace(record[0])
		desc := strings.TrimSpace(record[2])
		number, convErr := strconv.Atoi(strings.TrimSpace(record[1]))
		switch {
		case name == "":
			res.reject(row, "teamName must not be empty")
			continue
		case desc == "":
			res.reject(row, "description must not be empty")
			continue
		case convErr != nil:
			res.reject(row, fmt.Sprintf("teamNumber %q is not an integer", record[1]))
			continue
		case number <= 0:
			res.reject(row, fmt.Sprintf("teamNumber must be positive, got %d", number))
			continue
		}
		rows = append(rows, rosterRow{row: row, name: name, number: number, desc: desc})
	}

	metrics.RecordImportBatch()

	for _, pr := range rows {
		team, err := store.AddTeam(ctx, eventID, pr.name, pr.number, pr.desc)
		if err != nil {
			// The event vanishing mid-batch is not a row problem.
			if errors.Is(err, model.ErrNotFound) {
				return ImportResult{}, err
			}
			res.reject(pr.row, err.Error())
			continue
		}
		res.Created = append(res.Created, team)
		metrics.RecordImportRowOK()
	}

	// Store-level rejects land after the parse-level ones; diagnostics
	// stay in file order either way.
	sort.Slice(res.Errors, func(i, j int) bool { return res.Errors[i].Row < res.Errors[j].Row })

	return res, nil
}

// rosterRow is one syntactically valid roster row awaiting creation.
type rosterRow struct {
	row    int
	name   string
	number int
	desc   string
}

func (r *ImportResult) reject(row int, reason string) {
	r.Errors = append(r.Errors, RowError{Row: row, Reason: reason})
	metrics.RecordImportRowFailed()
}

func checkHeader(header []string) error {
	if len(header) != len(rosterColumns) {
		return fmt.Errorf("%w: header must be %q", model.ErrValidation, strings.Join(rosterColumns, ","))
	}
	for i, col := range rosterColumns {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("%w: header must be %q", model.ErrValidation, strings.Join(rosterColumns, ","))
		}
	}
	return nil
}
