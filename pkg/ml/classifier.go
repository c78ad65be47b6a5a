package ml

// Classifier is the online scam-detection entry point. It wraps the
// trained TF-IDF vectorizer and voting ensemble, and degrades to the
// rule-based detector whenever the ensemble is missing or failed its
// cross-validation gate.
//
// Classify never returns an error: every failure mode resolves to the
// not-scam zero result so a broken model can only under-flag, never
// break the calling pipeline.
type Classifier struct {
	vec   *Vectorizer
	ens   *Ensemble
	rules *RuleDetector

	accuracy  float64
	gate      float64
	threshold float64
	usable    bool
}

// ClassifierOption tunes a Classifier.
type ClassifierOption func(*Classifier)

// WithScamThreshold sets the scam probability above which a message is
// flagged. Default 0.5 (plain soft-vote majority).
func WithScamThreshold(t float64) ClassifierOption {
	return func(c *Classifier) {
		if t > 0 && t < 1 {
			c.threshold = t
		}
	}
}

// WithAccuracyGate sets the minimum cross-validated accuracy the
// ensemble must have reached to be used. Default 0.85.
func WithAccuracyGate(g float64) ClassifierOption {
	return func(c *Classifier) {
		if g > 0 && g <= 1 {
			c.gate = g
		}
	}
}

// NewRuleOnlyClassifier returns a classifier that uses only the
// deterministic rule path. Used when no model artifact is available and
// training is disabled.
func NewRuleOnlyClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		rules:     NewRuleDetector(),
		gate:      0.85,
		threshold: 0.5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Accuracy returns the cross-validated accuracy recorded at training
// time, or 0 for a rule-only classifier.
func (c *Classifier) Accuracy() float64 {
	return c.accuracy
}

// UsingEnsemble reports whether the ML path is active.
func (c *Classifier) UsingEnsemble() bool {
	return c.usable
}

// Classify analyzes one message. Texts shorter than 5 characters after
// normalization are never scam.
func (c *Classifier) Classify(text string) ClassificationResult {
	normalized := NormalizeText(text)
	if len(normalized) < 5 {
		return ClassificationResult{}
	}

	if !c.usable || c.vec == nil || c.ens == nil {
		return c.rules.Classify(text)
	}

	x := c.vec.Transform(normalized)
	probs := c.ens.PredictProba(x)

	if probs[1] >= c.threshold {
		return ClassificationResult{IsScam: true, Confidence: probs[1]}
	}
	return ClassificationResult{IsScam: false, Confidence: probs[0]}
}
