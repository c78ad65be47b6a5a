package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/trapwire-labs/trapwire/pkg/intel"
	"github.com/trapwire-labs/trapwire/pkg/logger"
	"github.com/trapwire-labs/trapwire/pkg/ml"
	"github.com/trapwire-labs/trapwire/pkg/persona"
	"github.com/trapwire-labs/trapwire/pkg/telemetry"
)

// NeutralReply is returned for a benign first contact. It gives a
// harmless caller nothing to work with and starts no engagement.
const NeutralReply = "I'm sorry, I don't understand what you're referring to."

// Classifier is the scam verdict dependency.
type Classifier interface {
	Classify(text string) ml.ClassificationResult
}

// TurnResult is what one processed turn hands back to the transport
// adapter.
type TurnResult struct {
	Reply       string
	ReplyStatus persona.Status

	// Engaged is false when the benign-first-contact guard answered
	// without starting a session.
	Engaged bool

	Terminated    bool
	ScamConfirmed bool
	Confidence    float64
	Intelligence  intel.Intelligence
}

// Orchestrator owns every session state transition. Turns for the same
// session id are serialized; distinct sessions run in parallel.
type Orchestrator struct {
	classifier Classifier
	extractor  *intel.Extractor
	responder  *persona.Responder
	store      Store
	archiver   Archiver // optional
	reporter   Reporter // optional

	maxTurns       int
	intelThreshold int

	locks   map[string]*sync.Mutex
	locksMu sync.Mutex

	metrics *telemetry.Metrics
	log     *logger.Logger
}

// OrchestratorOption configures optional collaborators.
type OrchestratorOption func(*Orchestrator)

// WithArchiver attaches durable archival of terminated sessions.
func WithArchiver(a Archiver) OrchestratorOption {
	return func(o *Orchestrator) { o.archiver = a }
}

// WithReporter attaches the case-management callback.
func WithReporter(r Reporter) OrchestratorOption {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithMaxTurns overrides the forced-termination turn limit.
func WithMaxTurns(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxTurns = n
		}
	}
}

// WithIntelThreshold overrides how many distinct values in one
// category end a session.
func WithIntelThreshold(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.intelThreshold = n
		}
	}
}

// NewOrchestrator wires the engagement pipeline.
func NewOrchestrator(classifier Classifier, extractor *intel.Extractor, responder *persona.Responder, store Store, log *logger.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		classifier:     classifier,
		extractor:      extractor,
		responder:      responder,
		store:          store,
		maxTurns:       12,
		intelThreshold: 2,
		locks:          make(map[string]*sync.Mutex),
		metrics:        telemetry.Global(),
		log:            log.WithComponent("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// sessionLock returns the mutex serializing one session id.
func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()

	mu, ok := o.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		o.locks[sessionID] = mu
	}
	return mu
}

// ProcessTurn handles one inbound message. priorHistory seeds a
// session the store does not know about, which lets callers resume
// conversations across engine restarts.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionID string, msg Message, priorHistory []Message) (*TurnResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrInvalidInput)
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, fmt.Errorf("%w: empty message text", ErrInvalidInput)
	}
	if msg.Sender == "" {
		msg.Sender = SenderScammer
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	mu := o.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	state, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	fresh := state == nil
	if fresh {
		state = NewState(sessionID)
		if len(priorHistory) > 0 {
			state.History = append(state.History, priorHistory...)
			state.TurnCount = len(state.History)
		}
	}
	if state.Archived {
		return nil, fmt.Errorf("%w: %s", ErrSessionArchived, sessionID)
	}

	verdict := o.classifier.Classify(msg.Text)

	// A benign first contact never starts an engagement. Nothing is
	// stored, nothing is counted, the caller gets a neutral brush-off.
	if !verdict.IsScam && len(state.History) == 0 {
		o.log.Debug().Str("session_id", sessionID).Msg("benign first contact, not engaging")
		return &TurnResult{
			Reply:       NeutralReply,
			ReplyStatus: persona.StatusUnavailable,
			Confidence:  verdict.Confidence,
		}, nil
	}

	o.metrics.TurnProcessed()
	if fresh {
		o.metrics.SessionStarted()
	}
	if verdict.IsScam && !state.ScamConfirmed {
		state.ScamConfirmed = true
		o.metrics.ScamDetected()
	}

	state.History = append(state.History, msg)
	state.Intelligence = o.extractor.Extract(historyTexts(state.History))

	turnCount := len(state.History)
	reply := o.responder.Respond(ctx, msg.Text, personaHistory(state.History), state.TrustLevel, turnCount)
	if reply.Status == persona.StatusDegraded {
		o.metrics.EnrichmentFailed()
	}

	state.DecayTrust()
	state.TurnCount = turnCount
	state.LastTurnAt = msg.Timestamp

	terminated := state.TurnCount >= o.maxTurns ||
		state.Intelligence.MaxCategoryCount() >= o.intelThreshold
	if terminated {
		state.Archived = true
	}

	if err := o.store.Put(ctx, state); err != nil {
		return nil, fmt.Errorf("save session %s: %w", sessionID, err)
	}

	if terminated {
		o.finalize(ctx, state)
	}

	return &TurnResult{
		Reply:         reply.Text,
		ReplyStatus:   reply.Status,
		Engaged:       true,
		Terminated:    terminated,
		ScamConfirmed: state.ScamConfirmed,
		Confidence:    verdict.Confidence,
		Intelligence:  state.Intelligence,
	}, nil
}

// finalize archives and reports a terminated session. Neither step can
// fail the turn: the conversation already concluded locally.
func (o *Orchestrator) finalize(ctx context.Context, state *State) {
	log := o.log.WithSession(state.SessionID)
	log.Info().
		Int("turns", state.TurnCount).
		Bool("scam_confirmed", state.ScamConfirmed).
		Int("risk_score", state.Intelligence.RiskScore).
		Msg("session terminated")
	o.metrics.SessionArchived()

	if o.archiver != nil {
		if err := o.archiver.ArchiveSession(ctx, state); err != nil {
			log.Error().Err(err).Msg("archive failed")
		}
	}

	if o.reporter != nil {
		if err := o.reporter.Submit(ctx, BuildReport(state)); err != nil {
			log.Error().Err(err).Msg("report delivery failed")
			o.metrics.ReportFailed()
		} else {
			o.metrics.ReportDelivered()
		}
	}
}

// historyTexts flattens message bodies in turn order for extraction.
func historyTexts(history []Message) []string {
	texts := make([]string, len(history))
	for i, m := range history {
		texts[i] = m.Text
	}
	return texts
}

// personaHistory converts the transcript minus the latest message into
// the enrichment context shape.
func personaHistory(history []Message) []persona.Turn {
	if len(history) == 0 {
		return nil
	}
	prior := history[:len(history)-1]
	turns := make([]persona.Turn, len(prior))
	for i, m := range prior {
		turns[i] = persona.Turn{FromCaller: m.Sender == SenderScammer, Text: m.Text}
	}
	return turns
}
