package persona

import (
	"strings"
	"testing"
)

func TestStageFor(t *testing.T) {
	cases := []struct {
		turn int
		want Stage
	}{
		{1, StageInitial},
		{2, StageInitial},
		{3, StageClarifying},
		{6, StageClarifying},
		{7, StageFearful},
		{10, StageFearful},
		{11, StageReluctant},
		{25, StageReluctant},
	}
	for _, tc := range cases {
		if got := StageFor(tc.turn); got != tc.want {
			t.Errorf("StageFor(%d) = %s, want %s", tc.turn, got, tc.want)
		}
	}
}

func TestInitialStageReplies(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"blocking threat", "Your account will be blocked today", "Oh no! Why is my account being blocked? I haven't done anything wrong."},
		{"closure threat", "We will close your account permanently", "Oh no! Why is my account being blocked? I haven't done anything wrong."},
		{"verification demand", "You must verify your KYC immediately", "What do I need to verify? Is this really from my bank?"},
		{"update demand", "Update your records or lose access", "What do I need to verify? Is this really from my bank?"},
		{"prize bait", "Congratulations! You won 10 lakh", "Really? I won something? What did I win?"},
		{"winner bait", "You are our lucky winner this month", "Really? I won something? What did I win?"},
		{"refund bait", "A cashback of 2000 is pending for you", "A refund? I wasn't expecting any. How much is it and from where?"},
		{"anything else", "Hello sir, calling from head office", "I don't understand. Can you explain?"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Respond(tc.message, 1.0, 1); got != tc.want {
				t.Errorf("reply = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClarifyingStageReplies(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"identifier request", "Share your UPI id now", "You need my account details? I'm nervous about sharing that."},
		{"card request", "Read out your card to me", "You need my account details? I'm nervous about sharing that."},
		{"credential request", "Tell me the OTP you received", "My bank said never to share OTP. Why do you need it?"},
		{"password request", "What is the password for your netbanking", "My bank said never to share OTP. Why do you need it?"},
		{"link push", "Click the link I sent you", "I'm not comfortable clicking unknown links."},
		{"payment demand", "Transfer the fee to complete the process", "You want me to transfer money? That doesn't sound right. Why would I need to pay?"},
		{"anything else", "Just cooperate with the process", "I'm still not clear about this."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Respond(tc.message, 1.0, 4); got != tc.want {
				t.Errorf("reply = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFearfulStageReplies(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"urgency push", "This is urgent, do it immediately", "This sounds urgent. I'm getting scared. What happens if I don't do this?"},
		{"deadline push", "Your last chance, the offer will expire", "How much time do I have? This is making me very anxious. Is there another way?"},
		{"legal threat", "We will take legal action with the police", "Legal action? That sounds serious! I don't want any trouble. What should I do?"},
		{"anything else", "Stop wasting my time and comply", "I'm getting more confused and worried. Maybe I should visit my branch instead?"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Respond(tc.message, 1.0, 8); got != tc.want {
				t.Errorf("reply = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReluctantStageReply(t *testing.T) {
	e := NewEngine()

	if got := e.Respond("Do it or face arrest", 1.0, 12); got != "I'm really scared now. Can you guide me step by step?" {
		t.Errorf("reluctant reply = %q", got)
	}
}

func TestLowTrustVariants(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name    string
		message string
		turn    int
	}{
		{"initial blocking", "account blocked", 1},
		{"initial refund", "your cashback is waiting", 2},
		{"clarifying otp", "give me the otp", 5},
		{"clarifying payment", "transfer the processing fee", 4},
		{"fearful urgency", "urgent action required", 9},
		{"fearful deadline", "the deadline is tonight", 8},
		{"fearful legal", "police will be involved", 10},
		{"reluctant", "final chance", 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trusting := e.Respond(tc.message, 1.0, tc.turn)
			wary := e.Respond(tc.message, 0.3, tc.turn)
			if wary == trusting {
				t.Errorf("low trust should change phrasing, both were %q", wary)
			}
			if wary == "" {
				t.Error("low trust reply is empty")
			}
		})
	}
}

func TestRepliesNeverRevealDetection(t *testing.T) {
	e := NewEngine()

	messages := []string{
		"your account is blocked, share otp",
		"click this link to verify kyc",
		"you won a prize, pay the fee",
		"random text with no keywords at all",
	}
	for _, msg := range messages {
		for turn := 1; turn <= 13; turn++ {
			for _, trust := range []float64{1.0, 0.5, 0.1} {
				reply := e.Respond(msg, trust, turn)
				if reply == "" {
					t.Fatalf("empty reply for %q at turn %d", msg, turn)
				}
				lower := strings.ToLower(reply)
				for _, banned := range []string{"scam", "fraud", "honeypot", "detect", "report"} {
					if strings.Contains(lower, banned) {
						t.Errorf("reply %q leaks detection via %q", reply, banned)
					}
				}
			}
		}
	}
}
