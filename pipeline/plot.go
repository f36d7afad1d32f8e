package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/plate"
)

// ScatterPC renders the wells projected onto the first two principal
// components, one glyph style per experimental group, and writes the plot to
// path. The image format follows the file extension (png, svg, pdf).
func ScatterPC(scores *mat.Dense, groups []plate.Group, ratios []float64, path string) error {
	r, c := scores.Dims()
	if c < 2 {
		return errors.NewValueError("ScatterPC", "need at least 2 principal components to plot")
	}
	if len(groups) != r {
		return errors.NewDimensionError("ScatterPC", r, len(groups), 0)
	}

	p := plot.New()
	p.Title.Text = "PCA projection of well profiles"
	p.X.Label.Text = axisLabel(1, ratios, 0)
	p.Y.Label.Text = axisLabel(2, ratios, 1)
	p.Add(plotter.NewGrid())

	byGroup := make(map[plate.Group]plotter.XYs)
	for i := 0; i < r; i++ {
		byGroup[groups[i]] = append(byGroup[groups[i]], plotter.XY{
			X: scores.At(i, 0),
			Y: scores.At(i, 1),
		})
	}

	// Stable legend order.
	order := []plate.Group{plate.GroupNegative, plate.GroupScrambled, plate.GroupEmpty, plate.GroupTarget}
	idx := 0
	for _, group := range order {
		xys, ok := byGroup[group]
		if !ok {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(err, "ScatterPC")
		}
		s.GlyphStyle.Color = plotutil.Color(idx)
		s.GlyphStyle.Shape = plotutil.Shape(idx)
		p.Add(s)
		p.Legend.Add(group.String(), s)
		idx++
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "ScatterPC")
	}
	return nil
}

func axisLabel(component int, ratios []float64, idx int) string {
	if idx < len(ratios) {
		return fmt.Sprintf("PC%d (%.1f%%)", component, ratios[idx]*100)
	}
	return fmt.Sprintf("PC%d", component)
}
