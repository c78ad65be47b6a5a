// Package session owns per-conversation state and the engagement
// policy: when to play along, when to stop, and what to report once a
// conversation ends. All state transitions for one session id are
// serialized; distinct sessions are independent.
package session

import (
	"errors"
	"time"

	"github.com/trapwire-labs/trapwire/pkg/intel"
)

// Message senders. The counterparty is our persona.
const (
	SenderScammer = "scammer"
	SenderUser    = "user"
)

// Message is one utterance in a conversation. Immutable once appended.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Trust decay parameters. Trust starts at full and drops by a fixed
// step every processed turn, never below the floor and never back up.
const (
	InitialTrust = 1.0
	TrustDecay   = 0.1
	TrustFloor   = 0.1
)

// State is the per-conversation context. It is mutated only by the
// Orchestrator while holding that session's lock; everyone else sees
// snapshots.
type State struct {
	SessionID string    `json:"sessionId"`
	History   []Message `json:"history"`

	// TurnCount equals len(History) after every processed turn.
	TurnCount int `json:"turnCount"`

	// TrustLevel decays from InitialTrust by TrustDecay per turn,
	// floored at TrustFloor. Never increases.
	TrustLevel float64 `json:"trustLevel"`

	// ScamConfirmed latches true on the first scam verdict and is
	// never reset.
	ScamConfirmed bool `json:"scamConfirmed"`

	Intelligence intel.Intelligence `json:"intelligence"`

	// Archived marks a terminated session. Archived sessions reject
	// further turns and are exempt from TTL cleanup.
	Archived bool `json:"archived"`

	CreatedAt  time.Time `json:"createdAt"`
	LastTurnAt time.Time `json:"lastTurnAt"`
}

// NewState creates a fresh context for a session id.
func NewState(sessionID string) *State {
	now := time.Now()
	return &State{
		SessionID:  sessionID,
		TrustLevel: InitialTrust,
		CreatedAt:  now,
		LastTurnAt: now,
	}
}

// DecayTrust applies one turn of trust decay.
func (s *State) DecayTrust() {
	s.TrustLevel -= TrustDecay
	if s.TrustLevel < TrustFloor {
		s.TrustLevel = TrustFloor
	}
}

// Turn-path errors surfaced to the transport adapter. Everything else
// degrades internally; the engine's first obligation is to keep
// answering.
var (
	// ErrInvalidInput rejects a malformed turn. No state is mutated.
	ErrInvalidInput = errors.New("session: invalid input")

	// ErrSessionArchived rejects turns for an already terminated
	// session id. Callers must start a new session.
	ErrSessionArchived = errors.New("session: session is archived")
)
