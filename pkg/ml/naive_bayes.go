package ml

import "math"

// NaiveBayes is a multinomial naive Bayes classifier over non-negative
// feature vectors. Cheap to train and robust on short, sparse text,
// which makes it a useful ensemble member next to the discriminative
// models.
type NaiveBayes struct {
	Alpha         float64     `json:"alpha"`
	ClassLogPrior []float64   `json:"classLogPrior"` // [notScam, scam]
	FeatureLogPr  [][]float64 `json:"featureLogProb"`
}

// NewNaiveBayes creates an untrained classifier with Lidstone smoothing.
func NewNaiveBayes(alpha float64) *NaiveBayes {
	return &NaiveBayes{Alpha: alpha}
}

// Fit estimates class priors and per-class feature likelihoods.
// Labels are 0 (not scam) or 1 (scam).
func (nb *NaiveBayes) Fit(X [][]float64, y []int) {
	if len(X) == 0 {
		return
	}
	dim := len(X[0])

	classCount := make([]float64, 2)
	featureCount := make([][]float64, 2)
	for c := range featureCount {
		featureCount[c] = make([]float64, dim)
	}

	for i, row := range X {
		c := y[i]
		classCount[c]++
		for j, x := range row {
			featureCount[c][j] += x
		}
	}

	total := classCount[0] + classCount[1]
	nb.ClassLogPrior = make([]float64, 2)
	nb.FeatureLogPr = make([][]float64, 2)
	for c := 0; c < 2; c++ {
		nb.ClassLogPrior[c] = math.Log(classCount[c] / total)

		smoothedTotal := 0.0
		for _, f := range featureCount[c] {
			smoothedTotal += f + nb.Alpha
		}
		nb.FeatureLogPr[c] = make([]float64, dim)
		for j, f := range featureCount[c] {
			nb.FeatureLogPr[c][j] = math.Log((f + nb.Alpha) / smoothedTotal)
		}
	}
}

// PredictProba returns [P(notScam), P(scam)] for one feature vector.
func (nb *NaiveBayes) PredictProba(x []float64) []float64 {
	if nb.ClassLogPrior == nil {
		return []float64{0.5, 0.5}
	}

	logLik := make([]float64, 2)
	for c := 0; c < 2; c++ {
		ll := nb.ClassLogPrior[c]
		for j, v := range x {
			if v > 0 {
				ll += v * nb.FeatureLogPr[c][j]
			}
		}
		logLik[c] = ll
	}

	// Log-sum-exp normalization to recover probabilities.
	m := math.Max(logLik[0], logLik[1])
	e0 := math.Exp(logLik[0] - m)
	e1 := math.Exp(logLik[1] - m)
	z := e0 + e1
	return []float64{e0 / z, e1 / z}
}
