// Standard attribute keys for pipeline logging. Using these keys keeps the
// per-stage log records uniform so runs can be compared and filtered.

package log

// Stage and component context.
const (
	// StageKey names the pipeline stage emitting the record.
	// Standard values: "load_annotations", "load_counts", "reshape", "join",
	// "normalize", "pivot", "pca", "knn".
	StageKey = "pipeline.stage"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "plate", "reshape", "decomposition", "neighbors"
	ComponentKey = "component"

	// ModelNameKey identifies an estimator by type.
	// Examples: "PCA", "KNeighborsClassifier", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the estimator operation being performed.
	// Standard values: "fit", "predict", "transform"
	OperationKey = "ml.operation"
)

// Table shape and content.
const (
	// WellsKey is the number of distinct wells in the table at hand.
	WellsKey = "data.wells"

	// ClassesKey is the number of distinct phenotype classes.
	ClassesKey = "data.classes"

	// RowsKey is the row count of a long-format relation.
	RowsKey = "data.rows"

	// SamplesKey is the number of samples (rows) of a feature matrix.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns of a feature matrix.
	FeaturesKey = "data.features"
)

// Diagnostics.
const (
	// DroppedRowsKey counts rows dropped by the annotation join.
	DroppedRowsKey = "diag.dropped_rows"

	// UnmatchedWellsKey counts well identifiers with no annotation entry.
	UnmatchedWellsKey = "diag.unmatched_wells"

	// DegenerateCellsKey counts clamped logit cells.
	DegenerateCellsKey = "diag.degenerate_cells"
)

// Model results.
const (
	// ErrorRateKey is the held-out misclassification rate.
	ErrorRateKey = "model.error_rate"

	// ExplainedVarianceKey is the variance ratio explained by a component.
	ExplainedVarianceKey = "model.explained_variance"

	// DurationMsKey records the execution time of a stage in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
