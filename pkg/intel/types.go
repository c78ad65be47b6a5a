// Package intel extracts forensic intelligence from scam conversations:
// payment identifiers, contact details, links and amounts, plus the
// tactics the counterpart is using and an additive risk score.
package intel

import (
	"encoding/json"

	"github.com/trapwire-labs/trapwire/pkg/patterns"
)

// Tactic labels a manipulation technique observed in a conversation.
type Tactic string

const (
	TacticUrgencyPressure        Tactic = "urgency_pressure"
	TacticIntimidation           Tactic = "intimidation"
	TacticCredentialTheft        Tactic = "credential_theft"
	TacticPaymentFraud           Tactic = "payment_fraud"
	TacticPrizeScam              Tactic = "prize_scam"
	TacticAuthorityImpersonation Tactic = "authority_impersonation"
	TacticPhishing               Tactic = "phishing"
	TacticHighRiskScam           Tactic = "high_risk_scam"
)

// NEREntities holds optional named-entity augmentation. Nil when the
// NER backend is disabled or unavailable; it supplements but never
// replaces the regex-derived categories.
type NEREntities struct {
	Persons       []string `json:"persons,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	Dates         []string `json:"dates,omitempty"`
	Money         []string `json:"money,omitempty"`
}

// Intelligence is everything extracted from one conversation. Entity
// values per category are distinct and sorted, so extraction over the
// same history is byte-for-byte reproducible.
type Intelligence struct {
	// Entities maps category name (phoneNumbers, upiIds, ...) to the
	// distinct values seen. Every category key is always present.
	Entities map[string][]string

	// KeywordHits maps keyword category (urgency, threats, ...) to the
	// keywords that occurred. Categories with no hits are absent.
	KeywordHits map[string][]string

	Tactics   []Tactic
	RiskScore int

	NLPEntities *NEREntities
}

// TotalValues counts extracted entity values across all categories.
func (in Intelligence) TotalValues() int {
	total := 0
	for _, vals := range in.Entities {
		total += len(vals)
	}
	return total
}

// MaxCategoryCount returns the largest distinct-value count in any
// single entity category. The orchestrator's termination policy keys
// off this number.
func (in Intelligence) MaxCategoryCount() int {
	max := 0
	for _, vals := range in.Entities {
		if len(vals) > max {
			max = len(vals)
		}
	}
	return max
}

// SuspiciousKeywords flattens all keyword hits in category order.
func (in Intelligence) SuspiciousKeywords() []string {
	var out []string
	for _, cat := range keywordOrder {
		out = append(out, in.KeywordHits[cat]...)
	}
	return out
}

// HasTactic reports whether a tactic was derived.
func (in Intelligence) HasTactic(t Tactic) bool {
	for _, got := range in.Tactics {
		if got == t {
			return true
		}
	}
	return false
}

// MarshalJSON flattens entity categories to top-level keys, matching
// the report payload format consumers expect.
func (in Intelligence) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(in.Entities)+4)
	for cat, vals := range in.Entities {
		if vals == nil {
			vals = []string{}
		}
		out[cat] = vals
	}
	keywords := in.SuspiciousKeywords()
	if keywords == nil {
		keywords = []string{}
	}
	out["suspiciousKeywords"] = keywords
	tactics := in.Tactics
	if tactics == nil {
		tactics = []Tactic{}
	}
	out["tactics"] = tactics
	out["riskScore"] = in.RiskScore
	if in.NLPEntities != nil {
		out["nlpEntities"] = in.NLPEntities
	}
	return json.Marshal(out)
}

// UnmarshalJSON inverts the flattened form so stored sessions read back
// with their forensic detail intact. Keyword hits are re-bucketed from
// the flat list: a keyword sits in a category's hits exactly when the
// taxonomy lists it there, so membership against each category's
// keyword table reproduces the original map.
func (in *Intelligence) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	entities := make(map[string][]string, 7)
	for _, cat := range patterns.EntityCategories() {
		vals := []string{}
		if msg, ok := raw[string(cat)]; ok {
			if err := json.Unmarshal(msg, &vals); err != nil {
				return err
			}
		}
		entities[string(cat)] = vals
	}

	var flat []string
	if msg, ok := raw["suspiciousKeywords"]; ok {
		if err := json.Unmarshal(msg, &flat); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(flat))
	for _, kw := range flat {
		seen[kw] = true
	}
	hits := make(map[string][]string)
	for _, kc := range patterns.KeywordCategories() {
		var found []string
		for _, kw := range kc.Keywords {
			if seen[kw] {
				found = append(found, kw)
			}
		}
		if len(found) > 0 {
			hits[kc.Name] = found
		}
	}

	var tactics []Tactic
	if msg, ok := raw["tactics"]; ok {
		if err := json.Unmarshal(msg, &tactics); err != nil {
			return err
		}
	}
	riskScore := 0
	if msg, ok := raw["riskScore"]; ok {
		if err := json.Unmarshal(msg, &riskScore); err != nil {
			return err
		}
	}
	var nlp *NEREntities
	if msg, ok := raw["nlpEntities"]; ok {
		if err := json.Unmarshal(msg, &nlp); err != nil {
			return err
		}
	}

	in.Entities = entities
	in.KeywordHits = hits
	in.Tactics = tactics
	in.RiskScore = riskScore
	in.NLPEntities = nlp
	return nil
}
