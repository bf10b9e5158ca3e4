package checks

import (
	"fmt"

	"parking-sync/core/graph"
)

// SchemaChecker reports the graph columns missing from the database.
type SchemaChecker interface {
	CheckSchema() ([]string, error)
}

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}

// CheckSchema verifies that the node table has every column the store uses.
func CheckSchema(checker SchemaChecker) (*SchemaReport, error) {
	if checker == nil {
		return nil, fmt.Errorf("graph store is nil")
	}

	report := &SchemaReport{
		Table:          graph.Node{}.TableName(),
		Matched:        true,
		MissingColumns: []string{},
		Errors:         []string{},
	}

	missing, err := checker.CheckSchema()
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", report.Table, err))
		report.Matched = false
		return report, nil // Partial fail
	}
	if len(missing) > 0 {
		report.MissingColumns = missing
		report.Matched = false
	}
	return report, nil
}
