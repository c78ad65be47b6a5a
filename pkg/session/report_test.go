package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/trapwire-labs/trapwire/pkg/intel"
	"github.com/trapwire-labs/trapwire/pkg/logger"
)

func terminatedState() *State {
	state := NewState("case-42")
	state.ScamConfirmed = true
	state.TurnCount = 5
	state.Archived = true
	state.Intelligence = intel.NewExtractor().Extract([]string{
		"urgent, your account is blocked, pay fraud@ybl and call 9876543210",
	})
	return state
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(terminatedState())

	if report.SessionID != "case-42" || !report.ScamDetected || report.TotalMessagesExchanged != 5 {
		t.Errorf("unexpected report header: %+v", report)
	}
	if !strings.Contains(report.AgentNotes, "Confirmed scam engagement") {
		t.Errorf("notes missing verdict: %q", report.AgentNotes)
	}
	if !strings.Contains(report.AgentNotes, "Risk score") {
		t.Errorf("notes missing risk score: %q", report.AgentNotes)
	}
	if !strings.Contains(report.AgentNotes, "Tactics observed") {
		t.Errorf("notes missing tactics: %q", report.AgentNotes)
	}
}

func TestHTTPReporterPayloadShape(t *testing.T) {
	var payload map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reporter := NewHTTPReporter(srv.URL, "secret", 5*time.Second, logger.NewDefault())
	if err := reporter.Submit(context.Background(), BuildReport(terminatedState())); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for _, key := range []string{"sessionId", "scamDetected", "totalMessagesExchanged", "extractedIntelligence", "agentNotes"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("payload missing %s", key)
		}
	}

	var extracted map[string]json.RawMessage
	if err := json.Unmarshal(payload["extractedIntelligence"], &extracted); err != nil {
		t.Fatalf("unmarshal intelligence: %v", err)
	}
	for _, key := range []string{"upiIds", "phoneNumbers", "riskScore", "tactics"} {
		if _, ok := extracted[key]; !ok {
			t.Errorf("intelligence missing %s", key)
		}
	}
}

func TestHTTPReporterRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reporter := NewHTTPReporter(srv.URL, "", 5*time.Second, logger.NewDefault())
	reporter.backoff = 10 * time.Millisecond

	if err := reporter.Submit(context.Background(), BuildReport(terminatedState())); err != nil {
		t.Fatalf("Submit after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestHTTPReporterGivesUpAfterRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reporter := NewHTTPReporter(srv.URL, "", 5*time.Second, logger.NewDefault())
	reporter.backoff = 10 * time.Millisecond

	if err := reporter.Submit(context.Background(), BuildReport(terminatedState())); err == nil {
		t.Fatal("expected delivery error")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want exactly one retry", calls.Load())
	}
}
