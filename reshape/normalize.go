package reshape

import (
	"fmt"
	"math"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// DefaultClampEpsilon is the proportion clamp applied before the logit
// transform so that wells dominated by a single phenotype class still map to
// a finite z-score.
const DefaultClampEpsilon = 1e-6

// ProcessedRecord is a joined record extended with the derived per-well
// composition fields.
type ProcessedRecord struct {
	JoinedRecord

	// Total is the well's total cell count over all classes.
	Total int

	// Percentage is Count / Total. Percentages of one well sum to 1.
	Percentage float64

	// ZScore is logit(Percentage), the modeling feature value.
	ZScore float64
}

// Logit maps a proportion in (0,1) to the real line: ln(p / (1-p)).
func Logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// Normalize derives the per-well composition features from the joined
// relation: each well's total count, each cell's percentage of that total,
// and the logit z-score of the percentage.
//
// A well whose total count is zero is an error; a percentage of exactly 0 or
// 1 makes the logit undefined and is handled per epsilon: with epsilon > 0
// the proportion is clamped into [epsilon, 1-epsilon] and the cell recorded
// in Diagnostics.DegenerateCells, with epsilon == 0 the first degenerate cell
// aborts with a DegenerateTransformError.
func Normalize(joined []JoinedRecord, epsilon float64) ([]ProcessedRecord, *Diagnostics, error) {
	if len(joined) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Normalize")
	}
	if epsilon < 0 || epsilon >= 0.5 {
		return nil, nil, errors.NewValidationError("epsilon", "must be in [0, 0.5)", epsilon)
	}

	totals := make(map[string]int)
	for _, rec := range joined {
		totals[rec.Well] += rec.Count
	}
	for well, total := range totals {
		if total == 0 {
			return nil, nil, errors.NewValueError("Normalize", fmt.Sprintf("well %s has zero total cell count", well))
		}
	}

	processed := make([]ProcessedRecord, 0, len(joined))
	diag := &Diagnostics{}
	for _, rec := range joined {
		total := totals[rec.Well]
		percentage := float64(rec.Count) / float64(total)

		p := percentage
		if p == 0 || p == 1 {
			if epsilon == 0 {
				return nil, diag, errors.NewDegenerateTransformError(rec.Well, rec.Class, p)
			}
			clamped, _ := errors.ClampProportion(p, epsilon)
			diag.DegenerateCells = append(diag.DegenerateCells, CellRef{
				Well:       rec.Well,
				Class:      rec.Class,
				Percentage: p,
			})
			p = clamped
		}

		processed = append(processed, ProcessedRecord{
			JoinedRecord: rec,
			Total:        total,
			Percentage:   percentage,
			ZScore:       Logit(p),
		})
	}

	for _, cell := range diag.DegenerateCells {
		errors.Warn(&errors.DegenerateTransformError{
			Well:       cell.Well,
			Class:      cell.Class,
			Percentage: cell.Percentage,
		})
	}
	return processed, diag, nil
}
