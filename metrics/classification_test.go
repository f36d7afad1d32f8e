package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestConfusionMatrix(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		classes []int
		want    [][]float64
		wantErr bool
	}{
		{
			name:    "perfect binary",
			yTrue:   []float64{0, 0, 1, 1},
			yPred:   []float64{0, 0, 1, 1},
			classes: []int{0, 1},
			want:    [][]float64{{2, 0}, {0, 2}},
		},
		{
			name:    "one false positive one false negative",
			yTrue:   []float64{0, 0, 0, 1, 1, 1},
			yPred:   []float64{0, 0, 1, 1, 1, 0},
			classes: []int{0, 1},
			want:    [][]float64{{2, 1}, {1, 2}},
		},
		{
			name:    "predicted-only class gets a column",
			yTrue:   []float64{0, 0},
			yPred:   []float64{0, 2},
			classes: []int{0, 2},
			want:    [][]float64{{1, 1}, {0, 0}},
		},
		{
			name:    "dimension mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
		{
			name:    "non-integer labels",
			yTrue:   []float64{0.5, 1},
			yPred:   []float64{0, 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			cm, classes, err := ConfusionMatrix(yTrue, yPred)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ConfusionMatrix() error: %v", err)
			}

			if len(classes) != len(tt.classes) {
				t.Fatalf("classes = %v, want %v", classes, tt.classes)
			}
			for i, class := range tt.classes {
				if classes[i] != class {
					t.Fatalf("classes = %v, want %v", classes, tt.classes)
				}
			}
			for i := range tt.want {
				for j := range tt.want[i] {
					if got := cm.At(i, j); got != tt.want[i][j] {
						t.Errorf("cm[%d,%d] = %v, want %v", i, j, got, tt.want[i][j])
					}
				}
			}
		})
	}
}

func TestAccuracyAndMisclassificationRate(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 0, 1, 1})
	yPred := mat.NewVecDense(4, []float64{0, 1, 1, 1})

	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		t.Fatalf("Accuracy() error: %v", err)
	}
	if acc != 0.75 {
		t.Errorf("Accuracy() = %v, want 0.75", acc)
	}

	rate, err := MisclassificationRate(yTrue, yPred)
	if err != nil {
		t.Fatalf("MisclassificationRate() error: %v", err)
	}
	if math.Abs(rate-0.25) > 1e-12 {
		t.Errorf("MisclassificationRate() = %v, want 0.25", rate)
	}
}

func TestAccuracyEmptyVector(t *testing.T) {
	yTrue := mat.NewVecDense(1, []float64{0})
	short := mat.NewVecDense(2, []float64{0, 1})
	if _, err := Accuracy(yTrue, short); err == nil {
		t.Error("expected dimension error")
	}
}
