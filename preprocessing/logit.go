package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/core/model"
	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/reshape"
)

// LogitTransformer maps a matrix of proportions elementwise to the real line
// via reshape.Logit, the same transform reshape.Normalize applies to the long
// count relation. Proportions are clamped into [Epsilon, 1-Epsilon] first so
// boundary values stay finite; the number of clamped cells is available after
// each Transform via ClampedCells.
//
// The transformer is stateless apart from bookkeeping, but implements the
// Transformer interface so it can be composed with the other preprocessing
// steps.
type LogitTransformer struct {
	state *model.StateManager

	// Epsilon is the proportion clamp. Zero disables clamping, in which
	// case a boundary proportion is an error.
	Epsilon float64

	// ClampedCells is the number of cells clamped by the last Transform.
	ClampedCells int
}

// NewLogitTransformer creates a LogitTransformer with the given clamp.
func NewLogitTransformer(epsilon float64) *LogitTransformer {
	return &LogitTransformer{
		state:   model.NewStateManager(),
		Epsilon: epsilon,
	}
}

// Fit validates the input range. All values must lie in [0, 1].
func (t *LogitTransformer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LogitTransformer.Fit")
	}
	if t.Epsilon < 0 || t.Epsilon >= 0.5 {
		return errors.NewValidationError("epsilon", "must be in [0, 0.5)", t.Epsilon)
	}
	t.state.Reset()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if v < 0 || v > 1 || math.IsNaN(v) {
				return errors.NewValueError("LogitTransformer.Fit", "input values must be proportions in [0, 1]")
			}
		}
	}
	t.state.SetDimensions(c, r)
	t.state.SetFitted()
	return nil
}

// Transform applies the clamped logit elementwise.
func (t *LogitTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.state.RequireFitted("LogitTransformer", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	t.ClampedCells = 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := X.At(i, j)
			if p == 0 || p == 1 {
				if t.Epsilon == 0 {
					return nil, errors.NewDegenerateTransformError("", "", p)
				}
				p, _ = errors.ClampProportion(p, t.Epsilon)
				t.ClampedCells++
			}
			result.Set(i, j, reshape.Logit(p))
		}
	}
	return result, nil
}

// FitTransform runs Fit and Transform in one call.
func (t *LogitTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}
