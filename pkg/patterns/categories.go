package patterns

// =============================================================================
// PATTERN DEFINITIONS BY CATEGORY
// All patterns are registered here and compiled once at package init.
// This provides a single source of truth for extraction and detection.
// =============================================================================

// --- PHONE NUMBER EXTRACTION ---
func (r *Registry) registerPhonePatterns() {
	cat := CategoryPhoneNumbers

	r.register("phone_intl", `\+91[-\s]?\d{10}`, cat, "Indian number with country code")
	r.register("phone_bare", `\b[6-9]\d{9}\b`, cat, "Bare 10-digit Indian mobile number")
	r.register("phone_contextual", `(?i)(?:call|contact|phone|mobile|whatsapp).*?(\d{10})`, cat, "10-digit number after a contact verb")
	r.register("phone_separated", `(\d{3}[-.\s]?\d{3}[-.\s]?\d{4})`, cat, "Number with common separators")
	r.register("phone_prefixed", `(?:91)?[-\s]?[6-9]\d{9}`, cat, "Number with optional 91 prefix")
}

// --- UPI / PAYMENT ID EXTRACTION ---
func (r *Registry) registerUPIPatterns() {
	cat := CategoryUPIIDs

	r.register("upi_known_handle", `(?i)\b[\w.-]+@(?:paytm|phonepe|googlepay|amazonpay|ybl|okaxis|okhdfcbank|okicici|oksbi|okhsbc|axl|ibl|airtel|fbl|pnb|boi|cnrb|cbin|ubin|kkbk|mahb|sbin|pytm|yesbank)\b`, cat, "VPA with a known PSP handle")
	r.register("upi_mobile_vpa", `\b\d{10}@\w+\b`, cat, "Mobile-number VPA")
	r.register("upi_generic", `\b[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\b`, cat, "Generic VPA shape (overlaps email on purpose)")
}

// --- BANK ACCOUNT EXTRACTION ---
func (r *Registry) registerBankPatterns() {
	cat := CategoryBankAccounts

	r.register("bank_digits", `\b\d{9,18}\b`, cat, "Raw account number length")
	r.register("bank_card", `\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`, cat, "Card-style grouping")
	r.register("bank_contextual", `(?i)(?:account|acc|a/c).*?(\d{10,18})`, cat, "Account number after an account noun")
	r.register("bank_ifsc", `(?i)IFSC.*?([A-Z]{4}0[A-Z0-9]{6})`, cat, "IFSC code")
}

// --- PHISHING LINK EXTRACTION ---
func (r *Registry) registerLinkPatterns() {
	cat := CategoryPhishingLinks

	r.register("link_url", `https?://\S+`, cat, "Full URL")
	r.register("link_www", `(?i)www\.\S+`, cat, "Schemeless www URL")
	r.register("link_path", `(?i)\w+\.(?:com|in|org|net|co\.in|xyz|tk|ml|ga|cf)/\S*`, cat, "Domain with path")
	r.register("link_contextual", `(?i)(?:click|visit|go to|open).*?([\w-]+\.(?:com|in|org|net))`, cat, "Domain after a click verb")
	r.register("link_bitly", `(?i)bit\.ly/\w+`, cat, "bit.ly shortener")
	r.register("link_tinyurl", `(?i)tinyurl\.com/\w+`, cat, "tinyurl shortener")
}

// --- EMAIL EXTRACTION ---
func (r *Registry) registerEmailPatterns() {
	cat := CategoryEmails

	r.register("email", `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`, cat, "Email address")
}

// --- MONETARY AMOUNT EXTRACTION ---
func (r *Registry) registerAmountPatterns() {
	cat := CategoryAmounts

	r.register("amount_rupee_sign", `₹\s*[\d,]+(?:\.\d{2})?`, cat, "Rupee-sign amount")
	r.register("amount_rs", `(?i)Rs\.?\s*[\d,]+`, cat, "Rs-prefixed amount")
	r.register("amount_units", `(?i)\b\d+\s*(?:lakh|crore|thousand|hundred)\b`, cat, "Amount with Indian units")
	r.register("amount_rupees", `(?i)\b\d+\s*rupees?\b`, cat, "Amount in rupees")
}

// --- OTP-LIKE CODE EXTRACTION ---
func (r *Registry) registerOTPPatterns() {
	cat := CategoryOTPCodes

	r.register("otp_contextual", `(?i)(?:otp|code|pin)\D{0,12}(\d{4,8})`, cat, "Digits near an OTP noun")
	r.register("otp_six_digit", `\b\d{6}\b`, cat, "Classic 6-digit OTP")
}

// --- RULE-BASED SCAM DETECTION (ensemble fallback) ---
// These run against lowercased text; one match is enough to flag scam
// when combined with the high-risk keyword count in pkg/ml.
func (r *Registry) registerScamRulePatterns() {
	cat := CategoryScamRule

	r.register("rule_account_block", `(?:account|bank).*(?:block|suspend|freeze|close|deactivate|locked)`, cat, "Account blocking threat")
	r.register("rule_block_account", `(?:block|suspend|freeze|close).*(?:account|bank)`, cat, "Blocking threat, inverted order")
	r.register("rule_urgent_verify", `(?:verify|confirm|update).*(?:urgent|immediate|now|today)`, cat, "Urgent verification demand")
	r.register("rule_identifier_ask", `(?:upi|account|card|bank).*(?:id|number|details)`, cat, "Payment identifier request")
	r.register("rule_share_secret", `(?:share|send|give|provide).*(?:upi|account|otp|pin|cvv|details)`, cat, "Secret sharing request")
	r.register("rule_credential", `(?:otp|pin|password|cvv)`, cat, "Credential vocabulary")
	r.register("rule_click_link", `(?:click|visit|download).*(?:link|app)`, cat, "Link or app push")
	r.register("rule_prize", `(?:congratulations|winner|won|selected|prize|lottery)`, cat, "Prize bait")
	r.register("rule_kyc", `(?:kyc|know.*your.*customer)`, cat, "KYC pretext")
	r.register("rule_authority", `(?:rbi|reserve.*bank|government|police)`, cat, "Authority impersonation")
	r.register("rule_pay_verify", `(?:transfer|pay|send).*(?:money|rupees|amount|verify)`, cat, "Payment-to-verify demand")
	r.register("rule_refund", `(?:refund|cashback).*(?:pending|claim)`, cat, "Refund bait")
	r.register("rule_urgency", `(?:urgent|immediate|asap|hurry|quickly)`, cat, "Urgency vocabulary")
	r.register("rule_deadline", `(?:expire|deadline|last.*chance|final.*warning)`, cat, "Deadline pressure")
}
