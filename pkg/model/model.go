package model

// Classifier is a supervised learner over integer class labels.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
}

// ProbaClassifier additionally exposes class probability distributions,
// aligned with the classifier's sorted class list.
type ProbaClassifier interface {
	Classifier
	PredictProba(X [][]float64) [][]float64
}

// Transformer is for preprocessing steps (fit on train, transform both).
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) [][]float64
	FitTransform(X [][]float64) [][]float64
}
