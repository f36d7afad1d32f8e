// Package neighbors implements a k-nearest-neighbors classifier for the
// treated-vs-control modeling stage. Classification is a majority vote among
// the k closest training wells in z-score feature space.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/core/model"
	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// Weight schemes for the neighbor vote.
const (
	// WeightsUniform gives every neighbor an equal vote.
	WeightsUniform = "uniform"
	// WeightsDistance weights each neighbor by inverse distance.
	WeightsDistance = "distance"
)

// KNeighborsClassifier assigns a label by majority vote among the k nearest
// training samples under Euclidean distance.
type KNeighborsClassifier struct {
	state *model.StateManager

	// Hyperparameters
	nNeighbors int
	weights    string

	// Fitted attributes
	trainX   *mat.Dense
	trainY   []int
	classes_ []int
}

// KNeighborsOption is a functional option for KNeighborsClassifier.
type KNeighborsOption func(*KNeighborsClassifier)

// WithNNeighbors sets the number of neighbors k (default 5).
func WithNNeighbors(k int) KNeighborsOption {
	return func(c *KNeighborsClassifier) {
		c.nNeighbors = k
	}
}

// WithWeights sets the vote weighting scheme (default uniform).
func WithWeights(weights string) KNeighborsOption {
	return func(c *KNeighborsClassifier) {
		c.weights = weights
	}
}

// NewKNeighborsClassifier creates a KNeighborsClassifier.
func NewKNeighborsClassifier(opts ...KNeighborsOption) *KNeighborsClassifier {
	c := &KNeighborsClassifier{
		state:      model.NewStateManager(),
		nNeighbors: 5,
		weights:    WeightsUniform,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsFitted returns whether the classifier has been fitted.
func (c *KNeighborsClassifier) IsFitted() bool {
	return c.state.IsFitted()
}

// Fit stores the training samples and labels. y must be a single-column
// matrix of integer-valued class labels.
func (c *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	if c.nNeighbors < 1 {
		return errors.NewValidationError("n_neighbors", "must be >= 1", c.nNeighbors)
	}
	if c.weights != WeightsUniform && c.weights != WeightsDistance {
		return errors.NewValidationError("weights", "must be uniform or distance", c.weights)
	}

	r, cols := X.Dims()
	if r == 0 || cols == 0 {
		return errors.Wrap(errors.ErrEmptyData, "KNeighborsClassifier.Fit")
	}
	yr, yc := y.Dims()
	if yc != 1 {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", 1, yc, 1)
	}
	if yr != r {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", r, yr, 0)
	}
	if c.nNeighbors > r {
		return errors.NewValidationError("n_neighbors", "must not exceed the number of training samples", c.nNeighbors)
	}

	c.state.Reset()
	c.trainX = mat.DenseCopyOf(X)
	c.trainY = make([]int, r)
	classSet := make(map[int]bool)
	for i := 0; i < r; i++ {
		label := int(y.At(i, 0))
		if float64(label) != y.At(i, 0) {
			return errors.NewValueError("KNeighborsClassifier.Fit", "labels must be integer-valued")
		}
		c.trainY[i] = label
		classSet[label] = true
	}

	c.classes_ = make([]int, 0, len(classSet))
	for label := range classSet {
		c.classes_ = append(c.classes_, label)
	}
	sort.Ints(c.classes_)

	c.state.SetDimensions(cols, r)
	c.state.SetFitted()
	return nil
}

// Predict returns the predicted class label for each sample as a
// single-column matrix.
func (c *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	r, _ := proba.Dims()
	pred := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		bestScore := math.Inf(-1)
		for j, class := range c.classes_ {
			// Strict inequality keeps the smallest label on ties.
			if score := proba.At(i, j); score > bestScore {
				bestScore = score
				best = class
			}
		}
		pred.Set(i, 0, float64(best))
	}
	return pred, nil
}

// PredictProba returns the vote share per class, one column per class in
// Classes() order.
func (c *KNeighborsClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := c.state.RequireFitted("KNeighborsClassifier", "PredictProba"); err != nil {
		return nil, err
	}

	r, cols := X.Dims()
	nFeatures, nTrain := c.state.GetDimensions()
	if cols != nFeatures {
		return nil, errors.NewDimensionError("KNeighborsClassifier.PredictProba", nFeatures, cols, 1)
	}

	classIdx := make(map[int]int, len(c.classes_))
	for j, class := range c.classes_ {
		classIdx[class] = j
	}

	proba := mat.NewDense(r, len(c.classes_), nil)
	dists := make([]neighborDist, nTrain)
	for i := 0; i < r; i++ {
		for t := 0; t < nTrain; t++ {
			var d2 float64
			for j := 0; j < cols; j++ {
				diff := X.At(i, j) - c.trainX.At(t, j)
				d2 += diff * diff
			}
			dists[t] = neighborDist{dist: math.Sqrt(d2), label: c.trainY[t]}
		}
		sort.Slice(dists, func(a, b int) bool {
			if dists[a].dist != dists[b].dist {
				return dists[a].dist < dists[b].dist
			}
			return dists[a].label < dists[b].label
		})

		var totalWeight float64
		votes := make([]float64, len(c.classes_))
		for t := 0; t < c.nNeighbors; t++ {
			w := 1.0
			if c.weights == WeightsDistance {
				// An exact match dominates the vote.
				if dists[t].dist == 0 {
					w = 1e12
				} else {
					w = 1 / dists[t].dist
				}
			}
			votes[classIdx[dists[t].label]] += w
			totalWeight += w
		}
		for j := range votes {
			proba.Set(i, j, votes[j]/totalWeight)
		}
	}
	return proba, nil
}

// Score returns the mean accuracy of Predict(X) against y.
func (c *KNeighborsClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := pred.Dims()
	yr, _ := y.Dims()
	if yr != r {
		return 0, errors.NewDimensionError("KNeighborsClassifier.Score", r, yr, 0)
	}

	var correct int
	for i := 0; i < r; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(r), nil
}

// Classes returns the unique class labels seen during fitting.
func (c *KNeighborsClassifier) Classes() []int {
	out := make([]int, len(c.classes_))
	copy(out, c.classes_)
	return out
}

type neighborDist struct {
	dist  float64
	label int
}
