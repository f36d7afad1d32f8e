package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/plate"
	"github.com/phenoscreen/phenoscreen/reshape"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}

	r, c := scaled.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("Dims() = (%d, %d), want (4, 2)", r, c)
	}

	// Each column should have mean 0 and unit variance after scaling.
	for j := 0; j < c; j++ {
		var sum, sumSq float64
		for i := 0; i < r; i++ {
			v := scaled.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(r)
		variance := sumSq/float64(r) - mean*mean
		if math.Abs(mean) > 1e-12 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
		if math.Abs(variance-1) > 1e-9 {
			t.Errorf("column %d variance = %v, want 1", j, variance)
		}
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		-2.2, 2.2,
		-1.0, 1.5,
		0.4, -0.8,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}
	restored, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() error: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(restored.At(i, j)-X.At(i, j)) > 1e-12 {
				t.Errorf("restored[%d,%d] = %v, want %v", i, j, restored.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if v := scaled.At(i, 0); v != 0 {
			t.Errorf("constant feature scaled to %v, want 0", v)
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("expected NotFittedError")
	}
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %T: %v", err, err)
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(2, 3, nil)); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	_, err := scaler.Transform(mat.NewDense(2, 2, nil))
	if err == nil {
		t.Fatal("expected DimensionError")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %T: %v", err, err)
	}
}

func TestLogitTransformer(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{0.1, 0.9})

	lt := NewLogitTransformer(1e-6)
	out, err := lt.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}

	want := math.Log(0.9 / 0.1)
	if got := out.At(0, 1); math.Abs(got-want) > 1e-12 {
		t.Errorf("logit(0.9) = %v, want %v", got, want)
	}
	if got := out.At(0, 0); math.Abs(got+want) > 1e-12 {
		t.Errorf("logit(0.1) = %v, want %v", got, -want)
	}
	if lt.ClampedCells != 0 {
		t.Errorf("ClampedCells = %d, want 0", lt.ClampedCells)
	}
}

func TestLogitTransformerClampsBoundaries(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{0, 1})

	lt := NewLogitTransformer(1e-6)
	out, err := lt.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}

	if lt.ClampedCells != 2 {
		t.Errorf("ClampedCells = %d, want 2", lt.ClampedCells)
	}
	for j := 0; j < 2; j++ {
		if v := out.At(0, j); math.IsInf(v, 0) || math.IsNaN(v) {
			t.Errorf("clamped logit is non-finite: %v", v)
		}
	}
}

func TestLogitTransformerRejectsOutOfRange(t *testing.T) {
	lt := NewLogitTransformer(1e-6)
	if err := lt.Fit(mat.NewDense(1, 1, []float64{1.5})); err == nil {
		t.Error("expected error for proportion > 1")
	}
}

func TestLogitTransformerNoClampFailsOnBoundary(t *testing.T) {
	lt := NewLogitTransformer(0)
	_, err := lt.FitTransform(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("expected DegenerateTransformError")
	}
	var degErr *errors.DegenerateTransformError
	if !errors.As(err, &degErr) {
		t.Errorf("expected DegenerateTransformError, got %T: %v", err, err)
	}
}

// The matrix path and the long-record path share one logit, so the same
// proportions must yield identical z-scores.
func TestLogitTransformerMatchesNormalize(t *testing.T) {
	joined := []reshape.JoinedRecord{
		{Class: "ana", Well: "A01_01", Count: 10, Group: plate.GroupNegative},
		{Class: "inter", Well: "A01_01", Count: 90, Group: plate.GroupNegative},
	}
	processed, _, err := reshape.Normalize(joined, 1e-6)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	lt := NewLogitTransformer(1e-6)
	out, err := lt.FitTransform(mat.NewDense(1, 2, []float64{0.1, 0.9}))
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}

	for j, rec := range processed {
		if got := out.At(0, j); got != rec.ZScore {
			t.Errorf("z-score for p=%v: transformer %v, normalize %v", rec.Percentage, got, rec.ZScore)
		}
	}
}
