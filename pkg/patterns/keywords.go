package patterns

// KeywordCategory groups suspicious vocabulary with the weight it
// contributes to the risk score. A keyword matches when it occurs as a
// case-insensitive substring of the analyzed text.
type KeywordCategory struct {
	Name     string
	Weight   int
	Keywords []string
}

// Risk score weights per category. Kept out of the structs so the table
// below stays readable.
const (
	WeightUrgency      = 15
	WeightThreats      = 20
	WeightCredentials  = 25
	WeightFinancial    = 15
	WeightVerification = 10
	WeightRewards      = 12
	WeightAuthority    = 10
)

// Keyword category names. Stable identifiers used in tactic derivation.
const (
	KeywordUrgency      = "urgency"
	KeywordThreats      = "threats"
	KeywordCredentials  = "credentials"
	KeywordFinancial    = "financial"
	KeywordVerification = "verification"
	KeywordRewards      = "rewards"
	KeywordAuthority    = "authority"
)

var keywordCategories = []KeywordCategory{
	{KeywordUrgency, WeightUrgency, []string{"urgent", "immediate", "quickly", "now", "today", "asap", "hurry", "fast"}},
	{KeywordThreats, WeightThreats, []string{"block", "suspend", "freeze", "close", "terminate", "legal action", "police", "arrest"}},
	{KeywordCredentials, WeightCredentials, []string{"otp", "pin", "cvv", "password", "passcode", "security code", "verification code"}},
	{KeywordFinancial, WeightFinancial, []string{"transfer", "pay", "send", "money", "amount", "rupees", "account", "bank", "upi"}},
	{KeywordVerification, WeightVerification, []string{"verify", "confirm", "update", "validate", "authenticate", "kyc", "details"}},
	{KeywordRewards, WeightRewards, []string{"won", "prize", "winner", "congratulations", "reward", "cashback", "refund", "lottery"}},
	{KeywordAuthority, WeightAuthority, []string{"rbi", "government", "bank", "police", "tax", "income tax", "gst", "customs"}},
}

// KeywordCategories returns the fixed keyword taxonomy in evaluation order.
// Callers must not mutate the returned slices.
func KeywordCategories() []KeywordCategory {
	return keywordCategories
}

// HighRiskKeywords is the flat list used by the rule-based fallback
// detector: two or more of these in one message flag it as scam.
var HighRiskKeywords = []string{
	"blocked", "suspended", "urgent", "verify", "otp", "pin", "cvv",
	"upi", "account", "bank", "expire", "winner", "congratulations",
}
