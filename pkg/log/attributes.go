// Shared attribute vocabulary for structured logs. Keys are dotted and
// grouped by prefix (model.*, data.*, cfrac.*, perf.*, error.*) so log
// pipelines can filter on them without parsing messages.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type, such as "CFRegressor"
	// or "GBTRegressor".
	ModelNameKey = "model.name"

	// EstimatorIDKey distinguishes instances of the same model type.
	EstimatorIDKey = "estimator.id"

	// OperationKey holds one of OperationFit, OperationPredict,
	// OperationScore.
	OperationKey = "ml.operation"

	// ComponentKey names the emitting package, such as "cfrac" or
	// "boosting".
	ComponentKey = "ml.component"

	// PhaseKey holds one of the Phase* values.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"

	// TargetsKey is always 1 for the regressors in this library.
	TargetsKey = "data.targets"
)

// Continued fraction context.
const (
	// DepthKey is the depth an operation refers to; during fitting,
	// the sub-model currently being trained.
	DepthKey = "cfrac.depth"

	// MaxDepthKey is the configured depth of the whole expansion.
	MaxDepthKey = "cfrac.max_depth"

	// OffsetKey is the pole-avoidance offset computed between depths.
	OffsetKey = "cfrac.offset"

	// SubModelKey names the sub-model strategy, such as
	// "OrdinaryLeastSquares" or "L1Regularized".
	SubModelKey = "cfrac.submodel"
)

// Performance and metrics.
const (
	DurationMsKey = "perf.duration_ms"
	LossKey       = "metrics.loss"
	MSEKey        = "metrics.mse"
	R2ScoreKey    = "metrics.r2_score"

	// IterationKey tracks progress of iterative solvers and boosting
	// rounds.
	IterationKey = "training.iteration"

	// PredsKey counts rows predicted in one call.
	PredsKey = "preds.count"
)

// Error and warning context.
const (
	// ErrorCodeKey carries one of the Error* codes below.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey carries the concrete error type name, such as
	// "PoleError".
	ErrorTypeKey = "error.type"

	// StacktraceKey is filled in by the error logging path.
	StacktraceKey = "error.stacktrace"

	SuggestionKey = "error.suggestion"
)

// Hyperparameters.
const (
	// HyperParamsKey carries the full hyperparameter set as one value.
	HyperParamsKey = "model.hyperparams"

	LearningRateKey   = "hyperparams.learning_rate"
	RegularizationKey = "hyperparams.regularization"

	// NormalizationKey is the target normalization factor applied at
	// fit time.
	NormalizationKey = "hyperparams.normalization_factor"

	RandomSeedKey = "config.random_seed"
)

// Values for OperationKey and PhaseKey, and the error codes for
// ErrorCodeKey.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseTesting    = "testing"
	PhaseInference  = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorPredictionPole    = "PREDICTION_POLE"
)
