// Package persona generates the decoy victim's replies. The persona is
// an elderly, technology-averse bank customer who stays worried and
// cooperative-sounding without ever revealing that the conversation has
// been flagged. Replies come from a generative backend when one is
// configured and healthy, otherwise from a staged rule table that needs
// no external service.
package persona

import "strings"

// Stage is the persona's emotional arc position, derived from how many
// turns the conversation has run.
type Stage int

const (
	// StageInitial covers first contact. Confused, asks what this is about.
	StageInitial Stage = iota
	// StageClarifying pushes back gently on requests for identifiers.
	StageClarifying
	// StageFearful plays scared of the claimed consequences.
	StageFearful
	// StageReluctant sounds close to complying and asks to be walked
	// through the steps, which keeps the counterpart talking.
	StageReluctant
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageClarifying:
		return "clarifying"
	case StageFearful:
		return "fearful"
	case StageReluctant:
		return "reluctant"
	default:
		return "unknown"
	}
}

// StageFor maps a turn count onto the arc. Turn counts start at 1 for
// the first processed message.
func StageFor(turnCount int) Stage {
	switch {
	case turnCount <= 2:
		return StageInitial
	case turnCount <= 6:
		return StageClarifying
	case turnCount <= 10:
		return StageFearful
	default:
		return StageReluctant
	}
}

// suspiciousTrust is the trust level below which the persona switches
// to warier phrasings of the same beats.
const suspiciousTrust = 0.7

// Engine produces fallback replies from the staged decision table. It
// is stateless and safe for concurrent use; all conversation state
// lives in the session.
type Engine struct{}

// NewEngine returns the rule-table reply engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Respond picks a reply for the latest inbound message. It never
// returns an empty string and never acknowledges detection.
func (e *Engine) Respond(message string, trustLevel float64, turnCount int) string {
	msg := strings.ToLower(message)
	stage := StageFor(turnCount)
	wary := trustLevel < suspiciousTrust

	switch stage {
	case StageInitial:
		return e.initialReply(msg, wary)
	case StageClarifying:
		return e.clarifyingReply(msg, wary)
	case StageFearful:
		return e.fearfulReply(msg, wary)
	default:
		if wary {
			return "I want to sort this out, but my son told me to be careful with calls like this. Can you prove who you are first?"
		}
		return "I'm really scared now. Can you guide me step by step?"
	}
}

func (e *Engine) initialReply(msg string, wary bool) string {
	switch {
	case containsAny(msg, "block", "suspend", "freeze", "close"):
		if wary {
			return "Blocked? That's strange, I was at the branch just last week. Who is this exactly?"
		}
		return "Oh no! Why is my account being blocked? I haven't done anything wrong."
	case containsAny(msg, "verify", "confirm", "update", "kyc"):
		if wary {
			return "Verify what? My bank never calls me for this. Which branch are you from?"
		}
		return "What do I need to verify? Is this really from my bank?"
	case containsAny(msg, "won", "congratulations", "winner", "prize"):
		if wary {
			return "A prize? I don't remember entering anything. How did you get my number?"
		}
		return "Really? I won something? What did I win?"
	case containsAny(msg, "refund", "cashback"):
		if wary {
			return "A refund out of nowhere? Refunds go straight to my account. Where are you calling from?"
		}
		return "A refund? I wasn't expecting any. How much is it and from where?"
	default:
		if wary {
			return "I don't follow. Who gave you this number?"
		}
		return "I don't understand. Can you explain?"
	}
}

func (e *Engine) clarifyingReply(msg string, wary bool) string {
	switch {
	case containsAny(msg, "upi", "account", "card", "number", "details"):
		if wary {
			return "Why would you need my account details if you're from the bank? Don't you already have them?"
		}
		return "You need my account details? I'm nervous about sharing that."
	case containsAny(msg, "otp", "pin", "password", "cvv"):
		if wary {
			return "Everyone says banks never ask for the OTP. Why are you asking me for it?"
		}
		return "My bank said never to share OTP. Why do you need it?"
	case containsAny(msg, "link", "click", "visit", "download"):
		if wary {
			return "My grandson warned me about links like that. What happens if I don't click it?"
		}
		return "I'm not comfortable clicking unknown links."
	case containsAny(msg, "transfer", "send", "pay"):
		if wary {
			return "Pay to fix my own account? That's not how any bank works. Who are you really?"
		}
		return "You want me to transfer money? That doesn't sound right. Why would I need to pay?"
	default:
		if wary {
			return "I'm still not clear about this, and honestly it doesn't sound right."
		}
		return "I'm still not clear about this."
	}
}

func (e *Engine) fearfulReply(msg string, wary bool) string {
	switch {
	case containsAny(msg, "urgent", "immediate", "quickly", "hurry"):
		if wary {
			return "This all sounds very serious, but something feels off. Are you sure you called the right person?"
		}
		return "This sounds urgent. I'm getting scared. What happens if I don't do this?"
	case containsAny(msg, "expire", "deadline", "last chance"):
		if wary {
			return "Deadlines again? The branch never rushes me like this. I think I should check with them first."
		}
		return "How much time do I have? This is making me very anxious. Is there another way?"
	case containsAny(msg, "legal", "police", "action"):
		if wary {
			return "Police? Over a bank account? My neighbour got a call just like this and it was nothing. Who is your supervisor?"
		}
		return "Legal action? That sounds serious! I don't want any trouble. What should I do?"
	default:
		if wary {
			return "I'm more confused than ever. I'll ask at my branch before doing anything."
		}
		return "I'm getting more confused and worried. Maybe I should visit my branch instead?"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
