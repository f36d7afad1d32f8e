// Package metrics provides the classification metrics reported by the
// modeling stage: confusion matrix, accuracy and misclassification rate.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

// ConfusionMatrix computes the confusion matrix of integer-valued label
// vectors. Rows are true classes, columns predicted classes, both in the
// order of the returned class slice (ascending). Labels present in either
// vector contribute a row and column.
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, []int, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	classSet := make(map[int]bool)
	labels := make([][2]int, n)
	for i := 0; i < n; i++ {
		trueLabel, err := intLabel(yTrue.AtVec(i))
		if err != nil {
			return nil, nil, err
		}
		predLabel, err := intLabel(yPred.AtVec(i))
		if err != nil {
			return nil, nil, err
		}
		labels[i] = [2]int{trueLabel, predLabel}
		classSet[trueLabel] = true
		classSet[predLabel] = true
	}

	classes := make([]int, 0, len(classSet))
	for class := range classSet {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	idx := make(map[int]int, len(classes))
	for j, class := range classes {
		idx[class] = j
	}

	cm := mat.NewDense(len(classes), len(classes), nil)
	for _, pair := range labels {
		i, j := idx[pair[0]], idx[pair[1]]
		cm.Set(i, j, cm.At(i, j)+1)
	}
	return cm, classes, nil
}

// Accuracy returns the fraction of predictions matching the true labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	var correct int
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// MisclassificationRate returns 1 - Accuracy.
func MisclassificationRate(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

func intLabel(v float64) (int, error) {
	label := int(v)
	if float64(label) != v {
		return 0, errors.NewValueError("ConfusionMatrix", "labels must be integer-valued")
	}
	return label, nil
}
