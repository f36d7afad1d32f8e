// Package phenoscreen analyzes high-content screening plates: it joins
// per-well phenotype-class counts with the plate annotation, converts each
// well's counts into logit-transformed class percentages, and models the
// resulting profiles with PCA and a nearest-neighbor classifier.
//
// # Quick Start
//
// The command-line entry point runs the whole pipeline from a YAML config:
//
//	phenoscreen run --config run.yaml
//
// The same pipeline is available programmatically:
//
//	cfg := config.Default()
//	cfg.AnnotationPath = "layout.csv"
//	cfg.CountsPath = "counts.csv"
//
//	report, err := pipeline.NewRunner(cfg, nil).Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("misclassification rate:", report.ErrorRate)
//
// # Packages
//
//   - plate: annotation and count-matrix loaders, well-ID normalization
//   - reshape: melt, annotation join, logit normalization, pivot
//   - preprocessing: StandardScaler and LogitTransformer
//   - decomposition: PCA
//   - neighbors: KNeighborsClassifier
//   - metrics: confusion matrix, accuracy, misclassification rate
//   - modelselection: train/test splitting
//   - pipeline: the end-to-end runner and PCA scatter plotting
//   - config: YAML run configuration
//   - pkg/errors, pkg/log: typed errors, warnings, and structured logging
package phenoscreen
