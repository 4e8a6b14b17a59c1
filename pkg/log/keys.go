package log

// Structured logging keys.
const (
	ModelNameKey  = "model"
	ComponentKey  = "component"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	FeatureKey    = "feature"
	CaseKey       = "case"
	LossKey       = "loss"
	BinsKey       = "n_bins"
	TopologyKey   = "topology"
	CandidatesKey = "candidates"
	AliveKey      = "alive"
	DurationMsKey = "duration_ms"
	PredsKey      = "predictions"
)

// Operation values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"
)

// Phase values.
const (
	PhaseTraining  = "training"
	PhaseInference = "inference"
)
