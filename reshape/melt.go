package reshape

import (
	"github.com/phenoscreen/phenoscreen/plate"
)

// CountRecord is one row of the long-format count relation: one (class, well)
// cell of the count matrix.
type CountRecord struct {
	Class   string
	RawWell string
	Count   int
}

// Melt converts the wide count matrix to long format, one record per
// (class, well) cell. The conversion is a bijection on cells: the output
// always has exactly classes x wells records, in row-major matrix order.
func Melt(m *plate.CountMatrix) []CountRecord {
	nClasses, nWells := m.Dims()
	records := make([]CountRecord, 0, nClasses*nWells)
	for i := 0; i < nClasses; i++ {
		for j := 0; j < nWells; j++ {
			records = append(records, CountRecord{
				Class:   m.Classes[i],
				RawWell: m.Wells[j],
				Count:   m.At(i, j),
			})
		}
	}
	return records
}
