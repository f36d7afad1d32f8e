package decomposition

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// testData has nearly all its variance along the first feature pair
// direction, so PC1 should dominate.
func testData() *mat.Dense {
	return mat.NewDense(6, 2, []float64{
		-3.0, -2.9,
		-2.0, -2.1,
		-1.0, -0.9,
		1.0, 1.1,
		2.0, 1.9,
		3.0, 2.8,
	})
}

func TestPCAFitTransform(t *testing.T) {
	pca := NewPCA(WithNComponents(2))
	scores, err := pca.FitTransform(testData())
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}

	r, c := scores.Dims()
	if r != 6 || c != 2 {
		t.Fatalf("scores dims = (%d, %d), want (6, 2)", r, c)
	}

	ratios, err := pca.ExplainedVarianceRatio()
	if err != nil {
		t.Fatalf("ExplainedVarianceRatio() error: %v", err)
	}
	if len(ratios) != 2 {
		t.Fatalf("len(ratios) = %d, want 2", len(ratios))
	}
	if ratios[0] < 0.95 {
		t.Errorf("PC1 ratio = %v, want > 0.95 for strongly correlated data", ratios[0])
	}
	sum := ratios[0] + ratios[1]
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("ratios sum to %v, want 1", sum)
	}
	if ratios[0] < ratios[1] {
		t.Error("components should be variance-ranked")
	}
}

func TestPCAScoresAreCentered(t *testing.T) {
	pca := NewPCA()
	scores, err := pca.FitTransform(testData())
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}

	r, c := scores.Dims()
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += scores.At(i, j)
		}
		if math.Abs(sum/float64(r)) > 1e-9 {
			t.Errorf("score column %d mean = %v, want 0", j, sum/float64(r))
		}
	}
}

func TestPCAComponentsShape(t *testing.T) {
	pca := NewPCA(WithNComponents(1))
	if err := pca.Fit(testData()); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	comps, err := pca.Components()
	if err != nil {
		t.Fatalf("Components() error: %v", err)
	}
	k, d := comps.Dims()
	if k != 1 || d != 2 {
		t.Errorf("Components dims = (%d, %d), want (1, 2)", k, d)
	}

	// Loadings are unit vectors.
	var norm float64
	for j := 0; j < d; j++ {
		norm += comps.At(0, j) * comps.At(0, j)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("component norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestPCANotFitted(t *testing.T) {
	pca := NewPCA()
	_, err := pca.Transform(testData())
	if err == nil {
		t.Fatal("expected NotFittedError")
	}
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %T: %v", err, err)
	}
}

func TestPCAValidation(t *testing.T) {
	pca := NewPCA(WithNComponents(-1))
	if err := pca.Fit(testData()); err == nil {
		t.Error("expected error for negative n_components")
	}

	one := NewPCA()
	if err := one.Fit(mat.NewDense(1, 2, []float64{1, 2})); err == nil {
		t.Error("expected error for a single sample")
	}
}

func TestPCATransformDimensionMismatch(t *testing.T) {
	pca := NewPCA()
	if err := pca.Fit(testData()); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	_, err := pca.Transform(mat.NewDense(2, 3, nil))
	if err == nil {
		t.Fatal("expected DimensionError")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %T: %v", err, err)
	}
}
