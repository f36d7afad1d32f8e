// Package modelselection provides the train/test partitioning used by the
// modeling stage.
package modelselection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// Split holds a train/test partition of a feature matrix and label vector.
type Split struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain *mat.VecDense
	YTest  *mat.VecDense

	// TrainIndices and TestIndices map the partition rows back to the
	// original sample order, so well identifiers can be recovered.
	TrainIndices []int
	TestIndices  []int
}

// TrainTestSplit shuffles the samples with the given seed and splits off
// testFraction of them as the held-out set. The test set gets the ceiling
// share when the split is not exact, so it is never empty for a valid
// fraction.
func TrainTestSplit(X mat.Matrix, y *mat.VecDense, testFraction float64, seed uint64) (*Split, error) {
	n, cols := X.Dims()
	if n == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "TrainTestSplit")
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, y.Len(), 0)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, errors.NewValidationError("test_fraction", "must be in (0, 1)", testFraction)
	}

	nTest := int(float64(n)*testFraction + 0.5)
	if nTest == 0 {
		nTest = 1
	}
	if nTest == n {
		return nil, errors.NewValueError("TrainTestSplit", "test fraction leaves no training samples")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testIdx := indices[:nTest]
	trainIdx := indices[nTest:]

	split := &Split{
		XTrain:       mat.NewDense(len(trainIdx), cols, nil),
		XTest:        mat.NewDense(len(testIdx), cols, nil),
		YTrain:       mat.NewVecDense(len(trainIdx), nil),
		YTest:        mat.NewVecDense(len(testIdx), nil),
		TrainIndices: trainIdx,
		TestIndices:  testIdx,
	}
	for row, idx := range trainIdx {
		for j := 0; j < cols; j++ {
			split.XTrain.Set(row, j, X.At(idx, j))
		}
		split.YTrain.SetVec(row, y.AtVec(idx))
	}
	for row, idx := range testIdx {
		for j := 0; j < cols; j++ {
			split.XTest.Set(row, j, X.At(idx, j))
		}
		split.YTest.SetVec(row, y.AtVec(idx))
	}
	return split, nil
}
