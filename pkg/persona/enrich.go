package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/trapwire-labs/trapwire/pkg/config"
	"github.com/trapwire-labs/trapwire/pkg/httputil"
	"github.com/trapwire-labs/trapwire/pkg/logger"
)

// Status reports how a reply was produced.
type Status string

const (
	// StatusOk means the reply came from the generative backend.
	StatusOk Status = "ok"
	// StatusDegraded means a backend is configured but the call failed
	// or returned an unusable reply, so the rule table answered.
	StatusDegraded Status = "degraded"
	// StatusUnavailable means no backend is configured; rule-table
	// replies are the normal mode of operation.
	StatusUnavailable Status = "unavailable"
)

// Reply is the persona's answer for one turn. Text is never empty.
type Reply struct {
	Text   string
	Status Status
}

// Turn is one prior exchange passed to the backend for context.
type Turn struct {
	FromCaller bool
	Text       string
}

// Reply length band. Outside it the generated text is discarded in
// favor of the rule table: very short replies read as broken, very
// long ones break the confused-elderly register.
const (
	minReplyLen = 10
	maxReplyLen = 300
)

// contextWindow is how many trailing turns are sent to the backend.
const contextWindow = 4

// maxInflight caps concurrent backend calls. Turns beyond the cap fall
// back to the rule table immediately instead of queueing on a slow
// model server.
const maxInflight = 16

const systemPrompt = `You are a 65-year-old confused person who doesn't understand technology.
Someone is calling claiming to be from your bank.
You are worried, nervous, and ask many questions.
Keep responses SHORT (1-2 sentences).
Never reveal you know it's a scam.
Act naturally worried and confused.

Examples:
- "Oh no! Why is my account blocked? What happened?"
- "I'm nervous about sharing that. How do I know you're real?"
- "This sounds urgent. I'm scared. What should I do?"`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Enricher calls an OpenAI-compatible chat endpoint to phrase the
// persona's reply. Nil Enricher is valid and means unavailable.
type Enricher struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	model    string
	inflight *httputil.Semaphore
	log      *logger.Logger
}

// NewEnricher builds an enricher from config, or returns nil when the
// provider is "none" so callers degrade to the rule table.
func NewEnricher(cfg *config.Config, log *logger.Logger) *Enricher {
	if cfg.EnrichProvider == config.ProviderNone {
		return nil
	}

	baseURL := cfg.EnrichBaseURL
	if baseURL == "" {
		switch cfg.EnrichProvider {
		case config.ProviderOllama:
			baseURL = "http://localhost:11434/v1"
		case config.ProviderOpenAI:
			baseURL = "https://api.openai.com/v1"
		default:
			baseURL = "https://openrouter.ai/api/v1"
		}
	}

	timeout := time.Duration(cfg.EnrichTimeoutMs) * time.Millisecond
	return &Enricher{
		client:   &http.Client{Timeout: timeout, Transport: httputil.MediumClient().Transport},
		baseURL:  baseURL,
		apiKey:   cfg.EnrichAPIKey,
		model:    cfg.EnrichModel,
		inflight: httputil.NewSemaphore(maxInflight),
		log:      log.WithComponent("persona_enrich"),
	}
}

// Generate asks the backend for a reply to the latest message. It
// returns an error whenever the result is unusable; the caller falls
// back to the rule table.
func (e *Enricher) Generate(ctx context.Context, message string, history []Turn) (string, error) {
	if !e.inflight.TryAcquire() {
		return "", fmt.Errorf("enrichment backend at capacity, %d calls in flight", e.inflight.InUse())
	}
	defer e.inflight.Release()

	msgs := make([]chatMessage, 0, contextWindow+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})

	start := len(history) - contextWindow
	if start < 0 {
		start = 0
	}
	for _, turn := range history[start:] {
		role := "assistant"
		if turn.FromCaller {
			role = "user"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: turn.Text})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: message})

	body, err := json.Marshal(chatRequest{
		Model:       e.model,
		Messages:    msgs,
		Temperature: 0.8,
		MaxTokens:   80,
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(e.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		errBody, _ := httputil.ReadErrorBody(resp.Body)
		return "", fmt.Errorf("enrichment API error %d: %s", resp.StatusCode, errBody)
	}

	respBody, err := httputil.ReadResponseBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal enrichment response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("enrichment response has no choices")
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if i := strings.IndexByte(reply, '\n'); i >= 0 {
		reply = strings.TrimSpace(reply[:i])
	}
	if len(reply) < minReplyLen || len(reply) > maxReplyLen {
		return "", fmt.Errorf("enrichment reply length %d outside usable band", len(reply))
	}
	return reply, nil
}

// Responder combines the rule-table engine with optional enrichment.
type Responder struct {
	engine   *Engine
	enricher *Enricher
	log      *logger.Logger
}

// NewResponder wires the reply pipeline. enricher may be nil.
func NewResponder(enricher *Enricher, log *logger.Logger) *Responder {
	return &Responder{
		engine:   NewEngine(),
		enricher: enricher,
		log:      log.WithComponent("persona"),
	}
}

// Respond produces the persona's reply for one turn. The rule table
// guarantees a usable reply whatever the backend does, so Text is
// always non-empty.
func (r *Responder) Respond(ctx context.Context, message string, history []Turn, trustLevel float64, turnCount int) Reply {
	fallback := r.engine.Respond(message, trustLevel, turnCount)

	if r.enricher == nil {
		return Reply{Text: fallback, Status: StatusUnavailable}
	}

	text, err := r.enricher.Generate(ctx, message, history)
	if err != nil {
		r.log.Warn().Err(err).Int("turn", turnCount).Msg("enrichment failed, using staged reply")
		return Reply{Text: fallback, Status: StatusDegraded}
	}
	return Reply{Text: text, Status: StatusOk}
}
