package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// rosterColumns is the required column count: student number, full name,
// department, phone, email — in that order.
const rosterColumns = 5

// RosterImportResult summarizes a roster import pass
type RosterImportResult struct {
	TotalRows int      `json:"totalRows"`
	Imported  int      `json:"imported"`
	Errors    []string `json:"errors"`
}

// ParseRoster reads eligible voters from a CSV stream. The expected format is
// exactly five ordered columns (student number, full name, department, phone,
// email); a header row is optional and skipped when present. Rows that fail
// validation are reported in the result and do not abort the import.
func ParseRoster(r io.Reader, electionID primitive.ObjectID) ([]*models.Voter, *RosterImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row for a clearer error message

	result := &RosterImportResult{Errors: []string{}}
	var voters []*models.Voter
	seen := make(map[string]bool)
	first := true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error reading row: %v", err))
			continue
		}

		if first {
			first = false
			if isRosterHeader(row) {
				continue
			}
		}

		result.TotalRows++

		if len(row) != rosterColumns {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: expected %d columns, got %d", result.TotalRows, rosterColumns, len(row)))
			continue
		}

		studentNo := NormalizeIdentity(row[0])
		fullName := strings.TrimSpace(row[1])
		department := strings.TrimSpace(row[2])
		phone := strings.TrimSpace(row[3])
		email := NormalizeIdentity(row[4])

		if studentNo == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing student number", result.TotalRows))
			continue
		}
		if email == "" || !strings.Contains(email, "@") {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid email %q", result.TotalRows, row[4]))
			continue
		}
		if seen[studentNo] {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: duplicate student number %s", result.TotalRows, studentNo))
			continue
		}
		seen[studentNo] = true

		now := time.Now()
		voters = append(voters, &models.Voter{
			ElectionID: electionID,
			StudentNo:  studentNo,
			FullName:   fullName,
			Department: department,
			Phone:      phone,
			Email:      email,
			HasVoted:   false,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		result.Imported++
	}

	return voters, result, nil
}

// isRosterHeader reports whether a first row looks like a header rather than
// data. The email column is the discriminator: real rows carry an address.
func isRosterHeader(row []string) bool {
	if len(row) != rosterColumns {
		return true
	}
	return !strings.Contains(row[rosterColumns-1], "@")
}
