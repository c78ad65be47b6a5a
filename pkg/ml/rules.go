package ml

import (
	"regexp"
	"strings"

	"github.com/trapwire-labs/trapwire/pkg/patterns"
)

// Trusted hosts whose links are not treated as a scam signal by the
// rule-based fallback.
var reTrustedLink = regexp.MustCompile(`^https?://(?:www\.)?(?:google|facebook|amazon|flipkart|paytm)\.`)

var reAnyLink = regexp.MustCompile(`https?://\S+`)

// RuleDetector is the deterministic fallback used when the trained
// ensemble fails its accuracy gate or no model is available. It flags a
// message as scam when at least one curated rule pattern matches, or
// when two or more high-risk keywords co-occur.
type RuleDetector struct {
	registry *patterns.Registry
}

// NewRuleDetector creates a detector backed by the shared pattern registry.
func NewRuleDetector() *RuleDetector {
	return &RuleDetector{registry: patterns.Get()}
}

// Classify applies the rule set to a single message. It never errors;
// texts under 5 characters are treated as not scam, mirroring the
// classifier's input floor.
func (rd *RuleDetector) Classify(text string) ClassificationResult {
	normalized := NormalizeText(text)
	if len(normalized) < 5 {
		return ClassificationResult{}
	}

	patternHits := rd.registry.CountMatching(normalized, patterns.CategoryScamRule)

	// Links to untrusted hosts count as a rule hit.
	for _, link := range reAnyLink.FindAllString(normalized, -1) {
		if !reTrustedLink.MatchString(link) {
			patternHits++
			break
		}
	}

	keywordHits := 0
	for _, kw := range patterns.HighRiskKeywords {
		if strings.Contains(normalized, kw) {
			keywordHits++
		}
	}

	if patternHits >= 1 || keywordHits >= 2 {
		return ClassificationResult{IsScam: true, Confidence: 0.9}
	}
	return ClassificationResult{}
}
