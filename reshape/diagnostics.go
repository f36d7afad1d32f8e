// Package reshape implements the table transformations between the raw
// screening inputs and the modeling feature matrix: melting the count matrix
// to long format, joining the plate annotation, normalizing counts to logit
// z-scores, and pivoting back to one row per well.
//
// Every transformation is total or explicitly reports non-coverage: stages
// return a Diagnostics record alongside their output so dropped, clamped or
// ambiguous rows are never lost silently.
package reshape

// CellRef identifies one (well, class) cell of the long-format table.
type CellRef struct {
	Well       string
	Class      string
	Percentage float64
}

// Diagnostics accumulates the non-fatal conditions observed while
// transforming a run. A nil or zero Diagnostics means full coverage.
type Diagnostics struct {
	// UnmatchedWells are normalized count-table well identifiers with no
	// annotation entry. Their rows are dropped by the join.
	UnmatchedWells []string

	// DroppedRows is the number of long-format rows dropped by the join.
	DroppedRows int

	// DegenerateCells are cells whose percentage was exactly 0 or 1, where
	// the logit transform is undefined and clamping was applied.
	DegenerateCells []CellRef
}

// HasFindings reports whether any diagnostic was recorded.
func (d *Diagnostics) HasFindings() bool {
	if d == nil {
		return false
	}
	return len(d.UnmatchedWells) > 0 || d.DroppedRows > 0 || len(d.DegenerateCells) > 0
}

// Merge folds the findings of other into d.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.UnmatchedWells = append(d.UnmatchedWells, other.UnmatchedWells...)
	d.DroppedRows += other.DroppedRows
	d.DegenerateCells = append(d.DegenerateCells, other.DegenerateCells...)
}
