package plate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// CountMatrix is the raw per-well, per-phenotype-class cell count table:
// one row per phenotype class, one column per well, counts accumulated
// across time points by the upstream classifier.
type CountMatrix struct {
	// Classes are the phenotype-class row labels, in file order.
	Classes []string

	// Wells are the raw well-identifier column labels, in file order.
	Wells []string

	// Counts is indexed [class][well].
	Counts [][]int
}

// At returns the count for the given class and well row/column indices.
func (m *CountMatrix) At(classIdx, wellIdx int) int {
	return m.Counts[classIdx][wellIdx]
}

// Dims returns the number of classes and wells.
func (m *CountMatrix) Dims() (classes, wells int) {
	return len(m.Classes), len(m.Wells)
}

// LoadCounts reads the count matrix CSV. The header row holds the well
// identifier column labels (first cell is the class-label column name and is
// ignored); each following row is a phenotype class followed by one
// non-negative integer count per well.
func LoadCounts(path string) (*CountMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewMissingInputError(path, err)
	}
	defer f.Close()

	return ReadCounts(f, path)
}

// ReadCounts parses a count matrix from r. The path parameter is used only
// for error messages.
func ReadCounts(r io.Reader, path string) (*CountMatrix, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Row widths are validated manually to report the offending line.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParseError(path, 1, "", "cannot read header: "+err.Error())
	}
	if len(header) < 2 {
		return nil, errors.NewParseError(path, 1, "", "header must contain at least one well column")
	}

	wells := make([]string, 0, len(header)-1)
	seenWells := make(map[string]bool, len(header)-1)
	for _, w := range header[1:] {
		w = strings.TrimSpace(w)
		if w == "" {
			return nil, errors.NewParseError(path, 1, "", "empty well identifier in header")
		}
		if seenWells[w] {
			return nil, errors.NewParseError(path, 1, w, "duplicate well identifier")
		}
		seenWells[w] = true
		wells = append(wells, w)
	}

	m := &CountMatrix{Wells: wells}
	seenClasses := make(map[string]bool)
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
		if len(record) != len(wells)+1 {
			return nil, errors.NewParseError(path, line, "",
				fmt.Sprintf("expected %d fields, got %d", len(wells)+1, len(record)))
		}

		class := strings.TrimSpace(record[0])
		if class == "" {
			return nil, errors.NewParseError(path, line, "", "empty phenotype class label")
		}
		if seenClasses[class] {
			return nil, errors.NewParseError(path, line, "", fmt.Sprintf("duplicate phenotype class %q", class))
		}
		seenClasses[class] = true

		row := make([]int, len(wells))
		for j, cell := range record[1:] {
			count, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				return nil, errors.NewParseError(path, line, wells[j], "invalid count: "+cell)
			}
			if count < 0 {
				return nil, errors.NewParseError(path, line, wells[j], "negative count: "+cell)
			}
			row[j] = count
		}
		m.Classes = append(m.Classes, class)
		m.Counts = append(m.Counts, row)
	}

	if len(m.Classes) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "count matrix "+path)
	}
	return m, nil
}
