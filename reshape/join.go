package reshape

import (
	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/plate"
)

// JoinedRecord is a count record extended with its annotation, keyed by the
// normalized well identifier.
type JoinedRecord struct {
	Class      string
	Well       string // normalized identifier
	RawWell    string // identifier as emitted by the instrument
	Count      int
	Group      plate.Group
	GeneSymbol string
}

// Join normalizes the well identifier of every count record and left-joins
// the annotation table onto it. Records whose normalized identifier has no
// annotation entry are dropped and reported in the returned Diagnostics;
// with strict set, any unmatched identifier aborts the join instead.
//
// The returned record order follows the input order, so the melt bijection
// carries through for fully annotated plates.
func Join(records []CountRecord, annotations *plate.AnnotationTable, strict bool) ([]JoinedRecord, *Diagnostics, error) {
	if len(records) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Join")
	}
	if annotations == nil || annotations.Len() == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Join: annotation table")
	}

	joined := make([]JoinedRecord, 0, len(records))
	diag := &Diagnostics{}
	seenUnmatched := make(map[string]bool)

	for _, rec := range records {
		well := plate.NormalizeWellID(rec.RawWell)
		ann, ok := annotations.Lookup(well)
		if !ok {
			diag.DroppedRows++
			if !seenUnmatched[well] {
				seenUnmatched[well] = true
				diag.UnmatchedWells = append(diag.UnmatchedWells, well)
			}
			continue
		}
		joined = append(joined, JoinedRecord{
			Class:      rec.Class,
			Well:       well,
			RawWell:    rec.RawWell,
			Count:      rec.Count,
			Group:      ann.Group,
			GeneSymbol: ann.GeneSymbol,
		})
	}

	if len(diag.UnmatchedWells) > 0 {
		if strict {
			return nil, diag, errors.WithStack(errors.NewIdentifierMismatchWarning(diag.UnmatchedWells))
		}
		errors.Warn(errors.NewIdentifierMismatchWarning(diag.UnmatchedWells))
	}
	if len(joined) == 0 {
		return nil, diag, errors.NewValueError("Join", "no count well matched the annotation table")
	}
	return joined, diag, nil
}
