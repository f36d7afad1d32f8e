package reshape

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/plate"
)

// FeatureTable is the wide modeling table: one row per well, one column per
// phenotype class, cell values = logit z-scores, plus the categorical group
// label per well.
type FeatureTable struct {
	// Wells are the row labels, in first-appearance order of the long table.
	Wells []string

	// Classes are the feature column labels, in first-appearance order.
	Classes []string

	// X is the wells x classes z-score matrix.
	X *mat.Dense

	// Groups holds each well's experimental group.
	Groups []plate.Group

	// Labels holds the binary classification target per well:
	// 1 for target wells, 0 for controls.
	Labels []float64
}

// Dims returns the number of wells and feature columns.
func (t *FeatureTable) Dims() (wells, features int) {
	return len(t.Wells), len(t.Classes)
}

// LabelVector returns the labels as a column vector for the classifiers.
func (t *FeatureTable) LabelVector() *mat.VecDense {
	return mat.NewVecDense(len(t.Labels), append([]float64(nil), t.Labels...))
}

// Pivot converts the processed long table to the wide feature table. Every
// well must contribute exactly one z-score per class: a repeated (well, class)
// pair fails with a duplicate-key PivotError, and a well lacking any class
// fails with a missing-feature PivotError. No fill policy is applied.
func Pivot(processed []ProcessedRecord) (*FeatureTable, error) {
	if len(processed) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Pivot")
	}

	var wells, classes []string
	wellIdx := make(map[string]int)
	classIdx := make(map[string]int)
	groups := make(map[string]plate.Group)

	for _, rec := range processed {
		if _, ok := wellIdx[rec.Well]; !ok {
			wellIdx[rec.Well] = len(wells)
			wells = append(wells, rec.Well)
			groups[rec.Well] = rec.Group
		}
		if _, ok := classIdx[rec.Class]; !ok {
			classIdx[rec.Class] = len(classes)
			classes = append(classes, rec.Class)
		}
	}

	X := mat.NewDense(len(wells), len(classes), nil)
	seen := make([]bool, len(wells)*len(classes))
	for _, rec := range processed {
		i, j := wellIdx[rec.Well], classIdx[rec.Class]
		if seen[i*len(classes)+j] {
			return nil, errors.NewPivotError(errors.PivotDuplicateKey, rec.Well, rec.Class)
		}
		seen[i*len(classes)+j] = true
		X.Set(i, j, rec.ZScore)
	}

	for i, well := range wells {
		for j, class := range classes {
			if !seen[i*len(classes)+j] {
				return nil, errors.NewPivotError(errors.PivotMissingFeature, well, class)
			}
		}
	}

	table := &FeatureTable{
		Wells:   wells,
		Classes: classes,
		X:       X,
		Groups:  make([]plate.Group, len(wells)),
		Labels:  make([]float64, len(wells)),
	}
	for i, well := range wells {
		table.Groups[i] = groups[well]
		table.Labels[i] = groups[well].Label()
	}
	return table, nil
}

// LongRecord is one (well, class, value) triple of the long-format view of a
// feature table.
type LongRecord struct {
	Well  string
	Class string
	Value float64
}

// Unpivot converts the feature table back to long format, in row-major
// order. Pivot followed by Unpivot reproduces the long table up to ordering.
func Unpivot(t *FeatureTable) []LongRecord {
	nWells, nClasses := t.Dims()
	records := make([]LongRecord, 0, nWells*nClasses)
	for i := 0; i < nWells; i++ {
		for j := 0; j < nClasses; j++ {
			records = append(records, LongRecord{
				Well:  t.Wells[i],
				Class: t.Classes[j],
				Value: t.X.At(i, j),
			})
		}
	}
	return records
}
