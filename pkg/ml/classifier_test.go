package ml

import (
	"path/filepath"
	"testing"
)

// trainSmall trains on a reduced slice of the bundled corpus to keep
// the test runtime down. The slice keeps both classes balanced.
func trainSmall(t *testing.T) *Classifier {
	t.Helper()

	all := DefaultDataset()
	var samples []TrainingSample
	scam, normal := 0, 0
	for _, s := range all {
		if s.Scam && scam < 25 {
			samples = append(samples, s)
			scam++
		}
		if !s.Scam && normal < 25 {
			samples = append(samples, s)
			normal++
		}
	}

	c, report, err := Train(samples)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if report.Samples != 50 {
		t.Fatalf("expected 50 samples, got %d", report.Samples)
	}
	t.Logf("cv accuracy %.3f, ensemble=%v", report.CVAccuracy, report.UsingEnsemble)
	return c
}

func TestClassifyScamAndNormal(t *testing.T) {
	c := trainSmall(t)

	scams := []string{
		"Your account will be blocked today verify immediately",
		"Share the OTP you received immediately",
		"Congratulations you won lottery claim immediately",
	}
	for _, text := range scams {
		res := c.Classify(text)
		if !res.IsScam {
			t.Errorf("expected scam for %q, got %+v", text, res)
		}
		if res.Confidence <= 0 || res.Confidence > 1 {
			t.Errorf("confidence out of range for %q: %f", text, res.Confidence)
		}
	}

	normals := []string{
		"Good morning have a nice day",
		"Let's meet for coffee sometime",
	}
	for _, text := range normals {
		res := c.Classify(text)
		if res.IsScam {
			t.Errorf("expected not scam for %q, got %+v", text, res)
		}
	}
}

func TestClassifyShortTextIsNeverScam(t *testing.T) {
	c := trainSmall(t)

	for _, text := range []string{"", "hi", "otp!", "    ab   "} {
		res := c.Classify(text)
		if res.IsScam || res.Confidence != 0 {
			t.Errorf("short text %q: want zero result, got %+v", text, res)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := trainSmall(t)

	text := "Update KYC details to avoid suspension"
	first := c.Classify(text)
	for i := 0; i < 5; i++ {
		if got := c.Classify(text); got != first {
			t.Fatalf("classification drifted: %+v vs %+v", got, first)
		}
	}
}

func TestRuleOnlyClassifier(t *testing.T) {
	c := NewRuleOnlyClassifier()

	res := c.Classify("your account will be blocked share otp now")
	if !res.IsScam {
		t.Errorf("rule path should flag blocking plus otp text, got %+v", res)
	}

	res = c.Classify("see you at the office tomorrow morning")
	if res.IsScam {
		t.Errorf("rule path flagged benign text: %+v", res)
	}
}

func TestRuleFallbackOnUntrustedLink(t *testing.T) {
	c := NewRuleOnlyClassifier()

	if res := c.Classify("please see http://evil-verify.xyz/login for details"); !res.IsScam {
		t.Errorf("untrusted link should be flagged, got %+v", res)
	}
	if res := c.Classify("search it on https://www.google.com/maps please"); res.IsScam {
		t.Errorf("trusted link alone should not be flagged, got %+v", res)
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	c := trainSmall(t)

	path := filepath.Join(t.TempDir(), "model.json")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadClassifier(path)
	if err != nil {
		t.Fatalf("LoadClassifier: %v", err)
	}
	if loaded.Accuracy() != c.Accuracy() {
		t.Errorf("accuracy mismatch: %f vs %f", loaded.Accuracy(), c.Accuracy())
	}

	text := "Transfer money to verify your account"
	if got, want := loaded.Classify(text), c.Classify(text); got != want {
		t.Errorf("loaded classifier disagrees: %+v vs %+v", got, want)
	}
}

func TestTrainRejectsDegenerateCorpus(t *testing.T) {
	var oneClass []TrainingSample
	for i := 0; i < 20; i++ {
		oneClass = append(oneClass, TrainingSample{Text: "hello there friend", Scam: false})
	}
	if _, _, err := Train(oneClass); err == nil {
		t.Error("expected error for single-class corpus")
	}

	if _, _, err := Train(nil); err == nil {
		t.Error("expected error for empty corpus")
	}
}
