package ml

import (
	"math"
	"testing"
)

// separable builds a tiny 2D dataset where class 1 sits at x0>0.5.
func separable() ([][]float64, []int) {
	var X [][]float64
	var y []int
	for i := 0; i < 20; i++ {
		f := float64(i) / 20
		X = append(X, []float64{0.1 * f, 0.9})
		y = append(y, 0)
		X = append(X, []float64{0.8 + 0.1*f, 0.2})
		y = append(y, 1)
	}
	return X, y
}

func TestNaiveBayesSeparable(t *testing.T) {
	X, y := separable()
	nb := NewNaiveBayes(0.1)
	nb.Fit(X, y)

	p := nb.PredictProba([]float64{0.9, 0.1})
	if p[1] <= p[0] {
		t.Errorf("expected class 1 for (0.9,0.1), got %v", p)
	}
	if math.Abs(p[0]+p[1]-1) > 1e-9 {
		t.Errorf("probabilities do not sum to 1: %v", p)
	}
}

func TestLogisticSeparable(t *testing.T) {
	X, y := separable()
	lr := NewLogisticRegression()
	lr.Fit(X, y)

	if p := lr.PredictProba([]float64{0.9, 0.1}); p[1] <= 0.5 {
		t.Errorf("expected P(scam)>0.5 for class-1 point, got %v", p)
	}
	if p := lr.PredictProba([]float64{0.05, 0.95}); p[1] >= 0.5 {
		t.Errorf("expected P(scam)<0.5 for class-0 point, got %v", p)
	}
}

func TestForestSeparableAndDeterministic(t *testing.T) {
	X, y := separable()

	rf1 := NewRandomForest(42)
	rf1.Fit(X, y)
	rf2 := NewRandomForest(42)
	rf2.Fit(X, y)

	inputs := [][]float64{{0.9, 0.1}, {0.05, 0.95}, {0.85, 0.3}}
	for _, x := range inputs {
		p1 := rf1.PredictProba(x)
		p2 := rf2.PredictProba(x)
		if p1[0] != p2[0] || p1[1] != p2[1] {
			t.Errorf("same seed produced different forests: %v vs %v", p1, p2)
		}
	}

	if p := rf1.PredictProba([]float64{0.9, 0.1}); p[1] <= p[0] {
		t.Errorf("expected class 1 for (0.9,0.1), got %v", p)
	}
}

func TestEnsembleSoftVote(t *testing.T) {
	X, y := separable()
	e := NewEnsemble(42)
	e.Fit(X, y)

	pred, conf := e.Predict([]float64{0.9, 0.1})
	if pred != 1 {
		t.Errorf("expected class 1, got %d (conf %f)", pred, conf)
	}
	if conf < 0.5 || conf > 1 {
		t.Errorf("confidence out of range: %f", conf)
	}

	pred, _ = e.Predict([]float64{0.05, 0.95})
	if pred != 0 {
		t.Errorf("expected class 0, got %d", pred)
	}

	probs := e.PredictProba([]float64{0.5, 0.5})
	if math.Abs(probs[0]+probs[1]-1) > 1e-9 {
		t.Errorf("probabilities do not sum to 1: %v", probs)
	}
}

func TestUntrainedModelsReturnUniform(t *testing.T) {
	if p := NewNaiveBayes(0.1).PredictProba([]float64{1}); p[0] != 0.5 || p[1] != 0.5 {
		t.Errorf("untrained NB: %v", p)
	}
	if p := NewLogisticRegression().PredictProba([]float64{1}); p[0] != 0.5 || p[1] != 0.5 {
		t.Errorf("untrained LR: %v", p)
	}
	if p := NewRandomForest(1).PredictProba([]float64{1}); p[0] != 0.5 || p[1] != 0.5 {
		t.Errorf("untrained RF: %v", p)
	}
}
