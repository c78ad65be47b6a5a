package ml

import (
	"fmt"
	"math/rand"
)

// DefaultSeed fixes the forest and fold shuffling so training is
// reproducible across runs.
const DefaultSeed = 42

// TrainReport summarizes a training run.
type TrainReport struct {
	Samples       int     `json:"samples"`
	ScamSamples   int     `json:"scamSamples"`
	CVAccuracy    float64 `json:"cvAccuracy"`
	Gate          float64 `json:"gate"`
	UsingEnsemble bool    `json:"usingEnsemble"`
}

// Train fits the vectorizer and ensemble on the given corpus and
// estimates accuracy with stratified 5-fold cross-validation. If the
// estimate falls below the gate, the returned classifier silently runs
// on the rule-based path instead of the ensemble.
func Train(samples []TrainingSample, opts ...ClassifierOption) (*Classifier, TrainReport, error) {
	if len(samples) < 10 {
		return nil, TrainReport{}, fmt.Errorf("training requires at least 10 samples, got %d", len(samples))
	}

	c := NewRuleOnlyClassifier(opts...)

	docs := make([]string, len(samples))
	y := make([]int, len(samples))
	scamCount := 0
	for i, s := range samples {
		docs[i] = s.Text
		if s.Scam {
			y[i] = 1
			scamCount++
		}
	}
	if scamCount == 0 || scamCount == len(samples) {
		return nil, TrainReport{}, fmt.Errorf("training requires both classes, got %d scam of %d", scamCount, len(samples))
	}

	vec := NewVectorizer()
	vec.Fit(docs)

	X := make([][]float64, len(docs))
	for i, doc := range docs {
		X[i] = vec.Transform(doc)
	}

	accuracy := crossValidate(X, y, 5, DefaultSeed)

	ens := NewEnsemble(DefaultSeed)
	ens.Fit(X, y)

	c.vec = vec
	c.ens = ens
	c.accuracy = accuracy
	c.usable = accuracy >= c.gate

	report := TrainReport{
		Samples:       len(samples),
		ScamSamples:   scamCount,
		CVAccuracy:    accuracy,
		Gate:          c.gate,
		UsingEnsemble: c.usable,
	}
	return c, report, nil
}

// TrainDefault trains on the bundled corpus.
func TrainDefault(opts ...ClassifierOption) (*Classifier, TrainReport, error) {
	return Train(DefaultDataset(), opts...)
}

// crossValidate runs stratified k-fold CV of a fresh ensemble and
// returns mean accuracy over the folds.
func crossValidate(X [][]float64, y []int, k int, seed int64) float64 {
	rng := rand.New(rand.NewSource(seed))

	// Stratify: shuffle indices per class, then deal them round-robin
	// into folds so each fold keeps the class balance.
	var byClass [2][]int
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	folds := make([][]int, k)
	for _, indices := range byClass {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for pos, idx := range indices {
			f := pos % k
			folds[f] = append(folds[f], idx)
		}
	}

	var totalCorrect, totalSeen int
	for f := 0; f < k; f++ {
		holdout := make(map[int]struct{}, len(folds[f]))
		for _, idx := range folds[f] {
			holdout[idx] = struct{}{}
		}

		var trainX [][]float64
		var trainY []int
		for i := range X {
			if _, ok := holdout[i]; ok {
				continue
			}
			trainX = append(trainX, X[i])
			trainY = append(trainY, y[i])
		}

		ens := NewEnsemble(seed)
		ens.Fit(trainX, trainY)

		for _, idx := range folds[f] {
			pred, _ := ens.Predict(X[idx])
			if pred == y[idx] {
				totalCorrect++
			}
			totalSeen++
		}
	}

	if totalSeen == 0 {
		return 0
	}
	return float64(totalCorrect) / float64(totalSeen)
}
