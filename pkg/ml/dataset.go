package ml

// TrainingSample is one labeled short text.
type TrainingSample struct {
	Text string
	Scam bool
}

// DefaultDataset returns the bundled training corpus: curated scam
// messages covering the common Indian payment-fraud playbooks, plus an
// equal-sized slice of benign chat. Training on it reproduces the
// shipped model artifact.
func DefaultDataset() []TrainingSample {
	samples := make([]TrainingSample, 0, len(scamTexts)+len(normalTexts))
	for _, t := range scamTexts {
		samples = append(samples, TrainingSample{Text: t, Scam: true})
	}
	for _, t := range normalTexts {
		samples = append(samples, TrainingSample{Text: t, Scam: false})
	}
	return samples
}

var scamTexts = []string{
	// Account blocking scams
	"Your account will be blocked today verify immediately",
	"Bank account suspended verify details now",
	"Account will be closed if not verified",
	"Your account has been frozen unfreeze now",
	"Account blocked due to suspicious activity",

	// UPI scams
	"Share your UPI ID to avoid suspension",
	"Send UPI ID for verification process",
	"Update your UPI details immediately",
	"UPI account will be deactivated verify now",
	"Confirm your UPI ID to continue service",

	// OTP scams
	"Send OTP now urgent action required",
	"Share the OTP you received immediately",
	"Verify OTP to unblock account",
	"Enter OTP code to confirm identity",
	"OTP required for account verification",

	// Transfer scams
	"Transfer money to verify your account",
	"Send small amount for verification",
	"Transfer Rs 1 to activate account",
	"Pay verification fee to continue",
	"Send money to confirm ownership",

	// Prize scams
	"You won prize claim now limited time",
	"Congratulations you won lottery claim immediately",
	"You are selected winner claim prize",
	"Won 5 lakh rupees claim now",
	"Prize money waiting transfer fee required",

	// KYC scams
	"Your KYC is pending update immediately",
	"KYC verification required urgently",
	"Update KYC details to avoid suspension",
	"Complete KYC process now",
	"KYC expired renew immediately",

	// Phishing scams
	"Click this link to verify account urgently",
	"Visit link to update details immediately",
	"Download app to secure account",
	"Open link for verification process",
	"Click here to claim reward",

	// Authority impersonation
	"RBI notice compliance required urgently",
	"Government tax refund claim now",
	"Income tax department verify details",
	"Police investigation verify identity",
	"Court notice respond immediately",

	// Urgency tactics
	"Act immediately or lose access",
	"Only 2 hours left to verify",
	"Last chance to save account",
	"Urgent action needed within 1 hour",
	"Immediate response required",

	// Credential theft
	"Share your password for verification",
	"Send CVV number to confirm card",
	"Provide PIN for security check",
	"Enter card details to verify",
	"Share banking password urgently",

	// Refund scams
	"Refund pending share bank account",
	"Cashback available claim immediately",
	"Money refund process share details",
	"Pending refund verify account",
	"Cashback credited share UPI",

	// Job scams
	"Job offer pay registration fee",
	"Work from home send advance payment",
	"Selected for job transfer fee required",
	"Employment confirmed pay processing fee",
	"Job opportunity send security deposit",

	// Investment scams
	"Double your money in 30 days",
	"Guaranteed returns invest now",
	"High profit investment opportunity",
	"Make lakhs daily join now",
	"Investment scheme limited slots",

	// Loan scams
	"Instant loan approved pay processing fee",
	"Pre-approved loan transfer charges",
	"Loan sanctioned send documentation fee",
	"Credit approved pay verification amount",
	"Loan offer pay insurance premium",

	// Additional variations
	"Your debit card will expire update now",
	"Credit card blocked verify immediately",
	"Net banking access suspended",
	"Mobile banking will be disabled",
	"ATM card deactivated verify details",
	"Security alert verify account now",
	"Suspicious transaction detected confirm",
	"Unauthorized access verify identity",
	"Account hacked secure it now",
	"Data breach update password immediately",
	"Verify Aadhaar to continue service",
	"PAN card verification pending",
	"Voter ID update required urgently",
	"Driving license verification needed",
	"Passport details update immediately",
	"Insurance claim approved pay fee",
	"Medical refund pending share details",
	"Electricity bill refund claim now",
	"Gas subsidy pending verify account",
	"Ration card update required urgently",
}

var normalTexts = []string{
	"Hello how are you today",
	"What time is the meeting tomorrow",
	"Can you help me with this",
	"Thank you very much for help",
	"Good morning have a nice day",
	"See you tomorrow at office",
	"Happy birthday to you friend",
	"How was your day today",
	"Let's meet for coffee sometime",
	"I love this weather today",
	"What are your plans for weekend",
	"Did you watch the movie yesterday",
	"How is your family doing",
	"Thanks for the information",
	"Have a great day ahead",
	"Nice to meet you",
	"Take care see you soon",
	"All the best for exam",
	"Congratulations on your success",
	"Hope you are doing well",
	"Please send me the document",
	"Can we reschedule the meeting",
	"I will call you later",
	"Let me know when you are free",
	"Thanks for your time",
	"Looking forward to meeting you",
	"Have a wonderful evening",
	"Best wishes for your future",
	"Keep up the good work",
	"That sounds great",
	"I agree with your point",
	"Let me think about it",
	"I will get back to you",
	"Please share your feedback",
	"Can you explain this again",
	"I understand your concern",
	"That makes sense to me",
	"I appreciate your help",
	"Let's discuss this tomorrow",
	"I will check and inform you",
	"Please confirm the details",
	"Can you send me the file",
	"I received your message",
	"Thanks for the update",
	"I will review and respond",
	"Please let me know",
	"I am available anytime",
	"Looking forward to your reply",
	"Have a safe journey",
	"Enjoy your vacation",
	"Welcome back to work",
	"Congratulations on your promotion",
	"Best of luck for interview",
	"Hope you feel better soon",
	"Get well soon my friend",
	"Thinking of you today",
	"Sending you positive vibes",
	"You are doing amazing",
	"Keep going strong",
	"Proud of your achievements",
	"You inspire me daily",
	"Thanks for being there",
	"I miss you friend",
	"Can't wait to see you",
	"Let's catch up soon",
	"How is work going",
	"Any plans for today",
	"What are you up to",
	"Just checking in on you",
	"Hope all is well",
	"Thinking about our conversation",
	"That was a great discussion",
	"I learned a lot today",
	"Thanks for the advice",
	"Your suggestion was helpful",
	"I will try that approach",
	"That's a good idea",
	"I never thought of that",
	"You have a valid point",
	"I see what you mean",
	"That clarifies things",
	"Now I understand better",
	"Thanks for explaining",
	"That was very informative",
	"I appreciate the details",
	"This is really useful",
	"Good to know this",
	"I will remember that",
	"Thanks for the reminder",
	"I almost forgot about it",
	"You saved me time",
	"That was quick response",
	"I appreciate your promptness",
	"Thanks for being patient",
	"Sorry for the delay",
	"I apologize for confusion",
	"Let me clarify that",
	"I meant to say",
	"To be more specific",
	"In other words",
	"What I mean is",
}
