package intel

import (
	"sort"
	"strings"
	"unicode"

	"github.com/trapwire-labs/trapwire/pkg/patterns"
)

// minMatchLen drops trivial fragments from entity extraction.
const minMatchLen = 3

// highRiskScore is the risk score above which the conversation is
// tagged as a high-risk scam.
const highRiskScore = 70

// keywordOrder fixes iteration order over keyword categories.
var keywordOrder = []string{
	patterns.KeywordUrgency,
	patterns.KeywordThreats,
	patterns.KeywordCredentials,
	patterns.KeywordFinancial,
	patterns.KeywordVerification,
	patterns.KeywordRewards,
	patterns.KeywordAuthority,
}

// tacticByKeywordCategory maps keyword category presence to a tactic.
// Verification language is deliberately absent: it signals risk but is
// too common in legitimate banking chat to count as a tactic on its own.
var tacticByKeywordCategory = map[string]Tactic{
	patterns.KeywordUrgency:     TacticUrgencyPressure,
	patterns.KeywordThreats:     TacticIntimidation,
	patterns.KeywordCredentials: TacticCredentialTheft,
	patterns.KeywordFinancial:   TacticPaymentFraud,
	patterns.KeywordRewards:     TacticPrizeScam,
	patterns.KeywordAuthority:   TacticAuthorityImpersonation,
}

// Extractor derives Intelligence from conversation text. It is
// stateless; Extract is a pure function of its input and safe for
// concurrent use.
type Extractor struct {
	registry *patterns.Registry
	ner      *NERAugmenter
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithNER attaches an optional named-entity augmenter. A nil augmenter
// is ignored.
func WithNER(ner *NERAugmenter) ExtractorOption {
	return func(e *Extractor) { e.ner = ner }
}

// NewExtractor creates an extractor backed by the shared pattern registry.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{registry: patterns.Get()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract analyzes the full conversation. texts must be the message
// bodies in turn order; they are joined with a single space, so
// identifiers split across message boundaries are not stitched together.
func (e *Extractor) Extract(texts []string) Intelligence {
	joined := strings.Join(texts, " ")
	lower := strings.ToLower(joined)

	entities := make(map[string][]string, 7)
	for _, cat := range patterns.EntityCategories() {
		values := e.registry.ExtractAll(joined, cat, minMatchLen)
		sort.Strings(values)
		entities[string(cat)] = values
	}

	keywordHits := categorizeKeywords(lower)
	risk := riskScore(joined, lower, keywordHits)

	intelligence := Intelligence{
		Entities:    entities,
		KeywordHits: keywordHits,
		RiskScore:   risk,
	}
	intelligence.Tactics = deriveTactics(intelligence)

	if e.ner != nil {
		// NER failures never block the regex-derived result.
		if nlp, err := e.ner.Recognize(joined); err == nil && nlp != nil {
			intelligence.NLPEntities = nlp
		}
	}

	return intelligence
}

// categorizeKeywords finds which keywords of each category occur as
// substrings of the lowercased text.
func categorizeKeywords(lower string) map[string][]string {
	hits := make(map[string][]string)
	for _, kc := range patterns.KeywordCategories() {
		var found []string
		for _, kw := range kc.Keywords {
			if strings.Contains(lower, kw) {
				found = append(found, kw)
			}
		}
		if len(found) > 0 {
			hits[kc.Name] = found
		}
	}
	return hits
}

// riskScore implements the additive, saturating scoring formula.
func riskScore(raw, lower string, keywordHits map[string][]string) int {
	score := 0

	for _, kc := range patterns.KeywordCategories() {
		score += len(keywordHits[kc.Name]) * kc.Weight
	}

	if strings.Contains(lower, "click") && strings.Contains(lower, "link") {
		score += 20
	}
	if strings.Contains(lower, "otp") || strings.Contains(lower, "pin") || strings.Contains(lower, "cvv") {
		score += 25
	}
	if strings.Contains(lower, "transfer") && strings.Contains(lower, "money") {
		score += 20
	}

	exclamations := strings.Count(raw, "!")
	score += min(5*exclamations, 15)

	capsWords := 0
	for _, w := range strings.Fields(raw) {
		if len(w) > 3 && isShouting(w) {
			capsWords++
		}
	}
	score += min(5*capsWords, 20)

	if score > 100 {
		score = 100
	}
	return score
}

// isShouting reports whether a word has at least one letter and every
// letter is upper case.
func isShouting(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// deriveTactics maps extraction results to tactic tags.
func deriveTactics(in Intelligence) []Tactic {
	var tactics []Tactic
	for _, cat := range keywordOrder {
		if _, present := in.KeywordHits[cat]; !present {
			continue
		}
		if t, ok := tacticByKeywordCategory[cat]; ok {
			tactics = append(tactics, t)
		}
	}
	if len(in.Entities[string(patterns.CategoryPhishingLinks)]) > 0 {
		tactics = append(tactics, TacticPhishing)
	}
	if in.RiskScore > highRiskScore {
		tactics = append(tactics, TacticHighRiskScam)
	}
	return tactics
}
