// Package decomposition provides principal component analysis for the
// exploratory projection of well profiles. The decomposition itself is
// delegated to gonum's stat.PC; this package wraps it in the estimator
// conventions the rest of the pipeline uses.
package decomposition

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phenoscreen/phenoscreen/core/model"
	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// PCA projects samples onto the orthogonal, variance-ranked components of
// the training data.
type PCA struct {
	state *model.StateManager

	// nComponents is the number of components kept; 0 keeps all.
	nComponents int

	// Fitted attributes.
	mean       []float64 // per-feature mean of the training data
	components *mat.Dense
	variances  []float64
	totalVar   float64
	nFeatures  int
}

// PCAOption is a functional option for PCA.
type PCAOption func(*PCA)

// WithNComponents sets the number of components to keep. The default (0)
// keeps every component.
func WithNComponents(n int) PCAOption {
	return func(p *PCA) {
		p.nComponents = n
	}
}

// NewPCA creates a PCA estimator.
func NewPCA(opts ...PCAOption) *PCA {
	p := &PCA{
		state: model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsFitted returns whether the estimator has been fitted.
func (p *PCA) IsFitted() bool {
	return p.state.IsFitted()
}

// Fit computes the principal components of X (samples x features).
func (p *PCA) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "PCA.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "PCA.Fit")
	}
	if r < 2 {
		return errors.NewValueError("PCA.Fit", "need at least 2 samples")
	}
	if p.nComponents < 0 || p.nComponents > c {
		return errors.NewValidationError("n_components", "must be in [0, n_features]", p.nComponents)
	}
	p.state.Reset()

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.Wrap(errors.ErrSingularMatrix, "PCA.Fit")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	// gonum yields min(n_samples, n_features) components.
	k := p.nComponents
	if k == 0 || k > len(vars) {
		k = len(vars)
	}

	p.totalVar = 0
	for _, v := range vars {
		p.totalVar += v
	}

	// Keep the leading k components as rows (loadings matrix, k x features).
	p.components = mat.NewDense(k, c, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < c; j++ {
			p.components.Set(i, j, vecs.At(j, i))
		}
	}
	p.variances = vars[:k]

	p.mean = make([]float64, c)
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, X)
		p.mean[j] = stat.Mean(col, nil)
	}

	p.nFeatures = c
	p.state.SetDimensions(c, r)
	p.state.SetFitted()
	return nil
}

// Transform projects X onto the fitted components, returning a
// samples x n_components score matrix.
func (p *PCA) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("PCA", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("PCA.Transform", p.nFeatures, c, 1)
	}

	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-p.mean[j])
		}
	}

	k, _ := p.components.Dims()
	scores := mat.NewDense(r, k, nil)
	scores.Mul(centered, p.components.T())
	return scores, nil
}

// FitTransform fits the estimator on X and returns the projected scores.
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// Components returns the loadings matrix (n_components x n_features): each
// row is one component expressed over the phenotype-class features.
func (p *PCA) Components() (*mat.Dense, error) {
	if err := p.state.RequireFitted("PCA", "Components"); err != nil {
		return nil, err
	}
	return p.components, nil
}

// ExplainedVariance returns the variance of each kept component.
func (p *PCA) ExplainedVariance() ([]float64, error) {
	if err := p.state.RequireFitted("PCA", "ExplainedVariance"); err != nil {
		return nil, err
	}
	out := make([]float64, len(p.variances))
	copy(out, p.variances)
	return out, nil
}

// ExplainedVarianceRatio returns the fraction of total variance explained by
// each kept component.
func (p *PCA) ExplainedVarianceRatio() ([]float64, error) {
	if err := p.state.RequireFitted("PCA", "ExplainedVarianceRatio"); err != nil {
		return nil, err
	}
	out := make([]float64, len(p.variances))
	for i, v := range p.variances {
		out[i] = errors.SafeDivide(v, p.totalVar)
	}
	return out, nil
}
