package contract

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"data-france/core/database"
	"data-france/feature/contract/models"
)

// Report is the result of a database contract check.
type Report struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the drift found on one table.
type TableReport struct {
	MissingColumns        []string `json:"missing_columns"`
	TypeMismatches        []string `json:"type_mismatches"`
	NullabilityMismatches []string `json:"nullability_mismatches"`
	Status                string   `json:"status"` // "ok", "error"
}

// CheckDatabase verifies that every downstream table can receive its artifact: each
// artifact column exists, integer and date columns have a compatible type, and columns
// the artifact may leave NULL accept NULL.
func CheckDatabase(db *gorm.DB, tables ...models.Model) (*Report, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if len(tables) == 0 {
		tables = models.All()
	}

	report := &Report{
		Matched: true,
		Tables:  make(map[string]TableReport, len(tables)),
	}

	for _, model := range tables {
		name := model.TableName()
		actualCols, err := database.GetTableColumns(db, name)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", name, err))
			report.Matched = false
			continue
		}

		tbl := checkTable(Columns(model), actualCols)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[name] = tbl
	}

	return report, nil
}

func checkTable(expected []Column, actualCols []database.ColumnInfo) TableReport {
	tbl := TableReport{
		MissingColumns:        []string{},
		TypeMismatches:        []string{},
		NullabilityMismatches: []string{},
		Status:                "ok",
	}

	actual := make(map[string]database.ColumnInfo, len(actualCols))
	for _, col := range actualCols {
		actual[col.Field] = col
	}

	for _, col := range expected {
		act, exists := actual[col.Name]
		if !exists {
			tbl.MissingColumns = append(tbl.MissingColumns, col.Name)
			tbl.Status = "error"
			continue
		}

		// soft check, int matches int(11), bigint and integer
		if col.Type != "" && !strings.Contains(act.Type, col.Type) {
			tbl.TypeMismatches = append(tbl.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", col.Name, col.Type, act.Type))
			tbl.Status = "error"
		}

		if col.Nullable && !act.Nullable() {
			tbl.NullabilityMismatches = append(tbl.NullabilityMismatches, col.Name)
			tbl.Status = "error"
		}
	}
	return tbl
}
