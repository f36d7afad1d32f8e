// Package pipeline orchestrates the screening analysis: loading the plate
// annotation and count matrix, reshaping and normalizing them into per-well
// logit profiles, and running the PCA and nearest-neighbor modeling stage.
//
// The pipeline is a strictly linear, single-pass sequence; the first error
// aborts the run. Non-fatal findings (dropped identifiers, clamped logits)
// are collected in the report's Diagnostics and logged per stage.
package pipeline

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/phenoscreen/phenoscreen/config"
	"github.com/phenoscreen/phenoscreen/decomposition"
	"github.com/phenoscreen/phenoscreen/metrics"
	"github.com/phenoscreen/phenoscreen/modelselection"
	"github.com/phenoscreen/phenoscreen/neighbors"
	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/pkg/log"
	"github.com/phenoscreen/phenoscreen/plate"
	"github.com/phenoscreen/phenoscreen/preprocessing"
	"github.com/phenoscreen/phenoscreen/reshape"
)

// Report is the outcome of one analysis run.
type Report struct {
	// Wells and Classes are the dimensions of the feature table.
	Wells   int
	Classes int

	// WellIDs are the normalized well identifiers, feature-table row order.
	WellIDs []string

	// Diagnostics aggregates the non-fatal findings of all stages.
	Diagnostics *reshape.Diagnostics

	// ExplainedVarianceRatio holds the PCA variance ratios per component.
	ExplainedVarianceRatio []float64

	// Scores is the wells x components PCA projection.
	Scores *mat.Dense

	// Confusion is the held-out confusion matrix with its class order.
	Confusion        *mat.Dense
	ConfusionClasses []int

	// ErrorRate is the held-out misclassification rate.
	ErrorRate float64

	// NTrain and NTest are the split sizes.
	NTrain int
	NTest  int
}

// Runner executes analysis runs for one configuration.
type Runner struct {
	cfg    config.RunConfig
	logger log.Logger
}

// NewRunner creates a Runner. A nil logger falls back to the process
// default.
func NewRunner(cfg config.RunConfig, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.GetLoggerWithName("pipeline")
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the five pipeline stages and returns the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{Diagnostics: &reshape.Diagnostics{}}

	// Stage 1: plate-layout annotation.
	start := time.Now()
	annotations, err := plate.LoadAnnotations(r.cfg.AnnotationPath)
	if err != nil {
		return nil, err
	}
	r.logger.Info("annotation loaded",
		log.StageKey, "load_annotations",
		log.WellsKey, annotations.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	// Stage 2: raw count matrix.
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	start = time.Now()
	counts, err := plate.LoadCounts(r.cfg.CountsPath)
	if err != nil {
		return nil, err
	}
	nClasses, nWells := counts.Dims()
	r.logger.Info("counts loaded",
		log.StageKey, "load_counts",
		log.ClassesKey, nClasses,
		log.WellsKey, nWells,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	// Stage 3: melt and join.
	long := reshape.Melt(counts)
	joined, diag, err := reshape.Join(long, annotations, r.cfg.StrictIdentifiers)
	if err != nil {
		return nil, err
	}
	report.Diagnostics.Merge(diag)
	r.logger.Info("annotation joined",
		log.StageKey, "join",
		log.RowsKey, len(joined),
		log.DroppedRowsKey, diag.DroppedRows,
		log.UnmatchedWellsKey, len(diag.UnmatchedWells),
	)

	// Stage 4: composition and logit transform.
	processed, diag, err := reshape.Normalize(joined, r.cfg.Epsilon())
	if err != nil {
		return nil, err
	}
	report.Diagnostics.Merge(diag)
	if len(diag.DegenerateCells) > 0 {
		r.logger.Warn("degenerate logit cells clamped",
			log.StageKey, "normalize",
			log.DegenerateCellsKey, len(diag.DegenerateCells),
		)
	}

	// Stage 5a: feature matrix.
	table, err := reshape.Pivot(processed)
	if err != nil {
		return nil, err
	}
	report.Wells, report.Classes = table.Dims()
	if err := errors.CheckMatrixFinite("Pivot", table.X, report.Wells, report.Classes); err != nil {
		return nil, err
	}
	report.WellIDs = table.Wells
	r.logger.Info("feature matrix built",
		log.StageKey, "pivot",
		log.SamplesKey, report.Wells,
		log.FeaturesKey, report.Classes,
	)

	// Stage 5b: exploratory projection.
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := r.runPCA(table, report); err != nil {
		return nil, err
	}

	// Stage 5c: treated-vs-control classification.
	if err := r.runKNN(table, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Runner) runPCA(table *reshape.FeatureTable, report *Report) error {
	start := time.Now()
	pca := decomposition.NewPCA(decomposition.WithNComponents(r.cfg.Components))
	scores, err := pca.FitTransform(table.X)
	if err != nil {
		return err
	}
	ratios, err := pca.ExplainedVarianceRatio()
	if err != nil {
		return err
	}

	report.Scores = scores.(*mat.Dense)
	report.ExplainedVarianceRatio = ratios
	r.logger.Info("principal components computed",
		log.StageKey, "pca",
		log.ModelNameKey, "PCA",
		log.ExplainedVarianceKey, ratios[0],
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if r.cfg.ScatterPath != "" {
		if err := ScatterPC(report.Scores, table.Groups, ratios, r.cfg.ScatterPath); err != nil {
			return err
		}
		r.logger.Info("scatter plot written",
			log.StageKey, "pca",
			"path", r.cfg.ScatterPath,
		)
	}
	return nil
}

func (r *Runner) runKNN(table *reshape.FeatureTable, report *Report) error {
	start := time.Now()

	split, err := modelselection.TrainTestSplit(table.X, table.LabelVector(), r.cfg.TestFraction, r.cfg.Seed)
	if err != nil {
		return err
	}
	report.NTrain = split.YTrain.Len()
	report.NTest = split.YTest.Len()

	// Scale on the training wells only; the held-out wells see the same
	// transformation.
	scaler := preprocessing.NewStandardScalerDefault()
	XTrain, err := scaler.FitTransform(split.XTrain)
	if err != nil {
		return err
	}
	XTest, err := scaler.Transform(split.XTest)
	if err != nil {
		return err
	}

	clf := neighbors.NewKNeighborsClassifier(neighbors.WithNNeighbors(r.cfg.Neighbors))
	if err := clf.Fit(XTrain, asColumn(split.YTrain)); err != nil {
		return err
	}

	pred, err := clf.Predict(XTest)
	if err != nil {
		return err
	}
	predVec := mat.NewVecDense(report.NTest, nil)
	for i := 0; i < report.NTest; i++ {
		predVec.SetVec(i, pred.At(i, 0))
	}

	confusion, classes, err := metrics.ConfusionMatrix(split.YTest, predVec)
	if err != nil {
		return err
	}
	rate, err := metrics.MisclassificationRate(split.YTest, predVec)
	if err != nil {
		return err
	}

	report.Confusion = confusion
	report.ConfusionClasses = classes
	report.ErrorRate = rate
	r.logger.Info("classifier evaluated",
		log.StageKey, "knn",
		log.ModelNameKey, "KNeighborsClassifier",
		log.SamplesKey, report.NTrain,
		log.ErrorRateKey, rate,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func asColumn(v *mat.VecDense) *mat.Dense {
	out := mat.NewDense(v.Len(), 1, nil)
	for i := 0; i < v.Len(); i++ {
		out.Set(i, 0, v.AtVec(i))
	}
	return out
}
