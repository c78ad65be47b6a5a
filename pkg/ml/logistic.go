package ml

import "math"

// LogisticRegression is a binary logistic classifier trained with
// full-batch gradient descent and L2 regularization. On a corpus of a
// few hundred short texts this converges in well under the iteration cap.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`

	LearningRate float64 `json:"learningRate"`
	MaxIter      int     `json:"maxIter"`
	L2           float64 `json:"l2"` // regularization strength (1/C)
}

// NewLogisticRegression creates an untrained model with the engine's
// standard hyperparameters.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.5,
		MaxIter:      1000,
		L2:           1.0,
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains the model. Labels are 0 or 1.
func (lr *LogisticRegression) Fit(X [][]float64, y []int) {
	if len(X) == 0 {
		return
	}
	n := float64(len(X))
	dim := len(X[0])
	lr.Weights = make([]float64, dim)
	lr.Bias = 0

	for iter := 0; iter < lr.MaxIter; iter++ {
		gradW := make([]float64, dim)
		gradB := 0.0

		for i, row := range X {
			z := lr.Bias
			for j, x := range row {
				z += lr.Weights[j] * x
			}
			err := sigmoid(z) - float64(y[i])
			for j, x := range row {
				gradW[j] += err * x
			}
			gradB += err
		}

		for j := range gradW {
			gradW[j] = gradW[j]/n + lr.L2*lr.Weights[j]/n
		}
		gradB /= n

		maxStep := 0.0
		for j := range lr.Weights {
			step := lr.LearningRate * gradW[j]
			lr.Weights[j] -= step
			if s := math.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		lr.Bias -= lr.LearningRate * gradB

		// Early exit once updates stop moving the weights.
		if maxStep < 1e-6 {
			break
		}
	}
}

// PredictProba returns [P(notScam), P(scam)] for one feature vector.
func (lr *LogisticRegression) PredictProba(x []float64) []float64 {
	if lr.Weights == nil {
		return []float64{0.5, 0.5}
	}
	z := lr.Bias
	for j, v := range x {
		z += lr.Weights[j] * v
	}
	p := sigmoid(z)
	return []float64{1 - p, p}
}
