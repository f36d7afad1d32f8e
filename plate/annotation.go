package plate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// Group is the experimental group of a well.
type Group int

const (
	// GroupNegative is a negative control well (untransfected).
	GroupNegative Group = iota
	// GroupScrambled is a scrambled-siRNA control well.
	GroupScrambled
	// GroupEmpty is an empty well.
	GroupEmpty
	// GroupTarget is a well treated with a gene-targeting siRNA.
	GroupTarget
)

// String returns the group name as it appears in the annotation table.
func (g Group) String() string {
	switch g {
	case GroupNegative:
		return "negative"
	case GroupScrambled:
		return "scrambled"
	case GroupEmpty:
		return "empty"
	case GroupTarget:
		return "target"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

// IsControl reports whether the group is any of the control conditions.
func (g Group) IsControl() bool {
	return g != GroupTarget
}

// Label returns the binary classification label: 1 for treated (target)
// wells, 0 for controls.
func (g Group) Label() float64 {
	if g == GroupTarget {
		return 1
	}
	return 0
}

// ParseGroup parses an annotation-table group value.
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negative":
		return GroupNegative, nil
	case "scrambled":
		return GroupScrambled, nil
	case "empty":
		return GroupEmpty, nil
	case "target":
		return GroupTarget, nil
	default:
		return 0, errors.NewValueError("ParseGroup", fmt.Sprintf("unknown group %q", s))
	}
}

// Annotation is one plate-layout record: a well position, its experimental
// group, and the targeted gene symbol for target wells (empty otherwise).
type Annotation struct {
	Well       string
	Group      Group
	GeneSymbol string
}

// AnnotationTable maps normalized well identifiers to their annotation.
type AnnotationTable struct {
	records map[string]Annotation
	order   []string
}

// Lookup returns the annotation for a normalized well identifier.
func (t *AnnotationTable) Lookup(well string) (Annotation, bool) {
	a, ok := t.records[well]
	return a, ok
}

// Wells returns the annotated well identifiers in file order.
func (t *AnnotationTable) Wells() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of annotated wells.
func (t *AnnotationTable) Len() int {
	return len(t.order)
}

// Annotation table column names, matched case-insensitively.
const (
	positionColumn = "position"
	groupColumn    = "group"
	geneColumn     = "gene_symbol"
)

// LoadAnnotations reads the plate-layout CSV. The file must carry a header
// with position, group and gene_symbol columns; the gene symbol may be blank
// for control wells. Duplicate well positions and unknown groups are errors.
func LoadAnnotations(path string) (*AnnotationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewMissingInputError(path, err)
	}
	defer f.Close()

	table, err := ReadAnnotations(f, path)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ReadAnnotations parses annotation records from r. The path parameter is
// used only for error messages.
func ReadAnnotations(r io.Reader, path string) (*AnnotationTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParseError(path, 1, "", "cannot read header: "+err.Error())
	}

	posIdx, groupIdx, geneIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case positionColumn:
			posIdx = i
		case groupColumn:
			groupIdx = i
		case geneColumn:
			geneIdx = i
		}
	}
	if posIdx < 0 || groupIdx < 0 || geneIdx < 0 {
		return nil, errors.NewParseError(path, 1, "",
			fmt.Sprintf("header must contain %s, %s and %s columns", positionColumn, groupColumn, geneColumn))
	}

	table := &AnnotationTable{records: make(map[string]Annotation)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewParseError(path, line, "", err.Error())
		}

		well := strings.TrimSpace(record[posIdx])
		if well == "" {
			return nil, errors.NewParseError(path, line, positionColumn, "empty well position")
		}
		if _, dup := table.records[well]; dup {
			return nil, errors.NewParseError(path, line, positionColumn, fmt.Sprintf("duplicate well position %q", well))
		}

		group, err := ParseGroup(record[groupIdx])
		if err != nil {
			return nil, errors.NewParseError(path, line, groupColumn, err.Error())
		}

		table.records[well] = Annotation{
			Well:       well,
			Group:      group,
			GeneSymbol: strings.TrimSpace(record[geneIdx]),
		}
		table.order = append(table.order, well)
	}

	if table.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "annotation table "+path)
	}
	return table, nil
}
