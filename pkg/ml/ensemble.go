package ml

// ClassificationResult is the classifier verdict for a single message.
// Confidence is the posterior of the predicted class, not a calibrated
// probability that the verdict is correct.
type ClassificationResult struct {
	IsScam     bool    `json:"isScam"`
	Confidence float64 `json:"confidence"`
}

// probModel is any ensemble member that yields class probabilities.
type probModel interface {
	PredictProba(x []float64) []float64
}

// Ensemble soft-votes class probabilities from its members. Weights
// favor the better-calibrated discriminative models over naive Bayes.
type Ensemble struct {
	NB *NaiveBayes         `json:"nb"`
	LR *LogisticRegression `json:"lr"`
	RF *RandomForest       `json:"rf"`

	Weights []float64 `json:"weights"` // [nb, lr, rf]
}

// NewEnsemble creates the standard ensemble: naive Bayes (alpha 0.1),
// logistic regression and a random forest, weighted 1:2:2.
func NewEnsemble(seed int64) *Ensemble {
	return &Ensemble{
		NB:      NewNaiveBayes(0.1),
		LR:      NewLogisticRegression(),
		RF:      NewRandomForest(seed),
		Weights: []float64{1, 2, 2},
	}
}

// Fit trains all members on the same design matrix.
func (e *Ensemble) Fit(X [][]float64, y []int) {
	e.NB.Fit(X, y)
	e.LR.Fit(X, y)
	e.RF.Fit(X, y)
}

// PredictProba returns the weighted average of member probabilities.
func (e *Ensemble) PredictProba(x []float64) []float64 {
	members := []probModel{e.NB, e.LR, e.RF}

	avg := []float64{0, 0}
	var totalWeight float64
	for i, m := range members {
		w := e.Weights[i]
		probs := m.PredictProba(x)
		avg[0] += w * probs[0]
		avg[1] += w * probs[1]
		totalWeight += w
	}
	if totalWeight > 0 {
		avg[0] /= totalWeight
		avg[1] /= totalWeight
	}
	return avg
}

// Predict returns the majority-probability class and its posterior.
func (e *Ensemble) Predict(x []float64) (int, float64) {
	probs := e.PredictProba(x)
	if probs[1] > probs[0] {
		return 1, probs[1]
	}
	return 0, probs[0]
}
