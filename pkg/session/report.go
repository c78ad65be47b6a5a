package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/trapwire-labs/trapwire/pkg/httputil"
	"github.com/trapwire-labs/trapwire/pkg/intel"
	"github.com/trapwire-labs/trapwire/pkg/logger"
)

// Report is the termination payload delivered to the case-management
// callback.
type Report struct {
	SessionID              string             `json:"sessionId"`
	ScamDetected           bool               `json:"scamDetected"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Intelligence `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
}

// BuildReport assembles the payload from a terminated session.
func BuildReport(state *State) Report {
	return Report{
		SessionID:              state.SessionID,
		ScamDetected:           state.ScamConfirmed,
		TotalMessagesExchanged: state.TurnCount,
		ExtractedIntelligence:  state.Intelligence,
		AgentNotes:             synthesizeNotes(state),
	}
}

// synthesizeNotes writes the human-readable summary line for the case
// file: what was observed, how hard the counterpart pushed, and how
// much was collected.
func synthesizeNotes(state *State) string {
	in := state.Intelligence

	var b strings.Builder
	if state.ScamConfirmed {
		b.WriteString("Confirmed scam engagement")
	} else {
		b.WriteString("Engagement terminated without scam confirmation")
	}
	fmt.Fprintf(&b, " over %d turns. Risk score %d/100.", state.TurnCount, in.RiskScore)

	if len(in.Tactics) > 0 {
		names := make([]string, len(in.Tactics))
		for i, t := range in.Tactics {
			names[i] = string(t)
		}
		fmt.Fprintf(&b, " Tactics observed (%d): %s.", len(names), strings.Join(names, ", "))
	}
	if total := in.TotalValues(); total > 0 {
		fmt.Fprintf(&b, " Extracted %d intelligence values.", total)
	}
	return b.String()
}

// Reporter delivers termination reports. Delivery is best effort: the
// session is already concluded, so failures are logged, never surfaced
// to the turn path.
type Reporter interface {
	Submit(ctx context.Context, report Report) error
}

// HTTPReporter posts reports to a callback URL with one backoff retry.
type HTTPReporter struct {
	client  *http.Client
	url     string
	apiKey  string
	backoff time.Duration
	log     *logger.Logger
}

// NewHTTPReporter builds a reporter for the given callback endpoint.
func NewHTTPReporter(url, apiKey string, timeout time.Duration, log *logger.Logger) *HTTPReporter {
	return &HTTPReporter{
		client:  &http.Client{Timeout: timeout, Transport: httputil.SlowClient().Transport},
		url:     url,
		apiKey:  apiKey,
		backoff: 2 * time.Second,
		log:     log.WithComponent("reporter"),
	}
}

// Submit posts the report, retrying once after a short backoff.
func (r *HTTPReporter) Submit(ctx context.Context, report Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	err = r.post(ctx, body)
	if err == nil {
		return nil
	}
	r.log.Warn().Err(err).Str("session_id", report.SessionID).Msg("report delivery failed, retrying once")

	select {
	case <-time.After(r.backoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := r.post(ctx, body); err != nil {
		return fmt.Errorf("report delivery failed after retry: %w", err)
	}
	return nil
}

func (r *HTTPReporter) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := httputil.ReadErrorBody(resp.Body)
		return fmt.Errorf("callback returned %d: %s", resp.StatusCode, errBody)
	}
	return nil
}

var _ Reporter = (*HTTPReporter)(nil)
