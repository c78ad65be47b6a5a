package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/trapwire-labs/trapwire/pkg/intel"
	"github.com/trapwire-labs/trapwire/pkg/logger"
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	store := NewInMemoryStore(WithCleanupInterval(time.Minute))
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	if state, err := store.Get(ctx, "missing"); err != nil || state != nil {
		t.Fatalf("unknown id: state=%v err=%v, want nil/nil", state, err)
	}

	state := NewState("s1")
	state.History = append(state.History, Message{Sender: SenderScammer, Text: "hello", Timestamp: time.Now()})
	state.TurnCount = 1
	if err := store.Put(ctx, state); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TurnCount != 1 || len(got.History) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestInMemoryStoreRejectsBadState(t *testing.T) {
	store := NewInMemoryStore(WithCleanupInterval(time.Minute))
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	if err := store.Put(ctx, nil); err == nil {
		t.Error("nil state accepted")
	}
	if err := store.Put(ctx, &State{}); err == nil {
		t.Error("empty session id accepted")
	}
}

func TestInMemoryStoreExpiryKeepsArchived(t *testing.T) {
	store := NewInMemoryStore(WithMaxAge(10*time.Minute), WithCleanupInterval(time.Hour))
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	stale := NewState("stale")
	stale.LastTurnAt = time.Now().Add(-time.Hour)

	archived := NewState("archived")
	archived.Archived = true
	archived.LastTurnAt = time.Now().Add(-time.Hour)

	if err := store.Put(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, archived); err != nil {
		t.Fatal(err)
	}

	// Idle-expired active sessions read as absent even before the sweep.
	if got, _ := store.Get(ctx, "stale"); got != nil {
		t.Error("stale active session should read as absent")
	}
	if got, _ := store.Get(ctx, "archived"); got == nil {
		t.Error("archived session must survive idle expiry")
	}

	store.cleanup()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ActiveSessions != 0 || stats.ArchivedSessions != 1 {
		t.Errorf("stats after sweep = %+v, want 0 active / 1 archived", stats)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, mr.Addr(), "", 0, 30*time.Minute, logger.NewDefault())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	if state, err := store.Get(ctx, "missing"); err != nil || state != nil {
		t.Fatalf("unknown id: state=%v err=%v, want nil/nil", state, err)
	}

	state := NewState("s1")
	state.TurnCount = 2
	state.TrustLevel = 0.8
	state.ScamConfirmed = true
	state.Archived = true
	state.History = []Message{
		{Sender: SenderScammer, Text: "urgent, send to fraud@ybl and share your otp", Timestamp: time.Now().UTC()},
		{Sender: SenderUser, Text: "My bank said never to share OTP. Why do you need it?", Timestamp: time.Now().UTC()},
	}
	state.Intelligence = intel.NewExtractor().Extract([]string{state.History[0].Text})
	if err := store.Put(ctx, state); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TurnCount != 2 || !got.ScamConfirmed || len(got.History) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.History[0].Text != "urgent, send to fraud@ybl and share your otp" {
		t.Errorf("history[0] = %+v", got.History[0])
	}

	// The archived copy is the audit record; its forensic detail must
	// survive storage, not just the scalar fields.
	if want := []string{"fraud@ybl"}; len(got.Intelligence.Entities["upiIds"]) != 1 || got.Intelligence.Entities["upiIds"][0] != want[0] {
		t.Errorf("upiIds after round trip = %v, want %v", got.Intelligence.Entities["upiIds"], want)
	}
	if len(got.Intelligence.KeywordHits) == 0 {
		t.Error("keyword hits lost in round trip")
	}
	if got.Intelligence.RiskScore != state.Intelligence.RiskScore {
		t.Errorf("risk score = %d, want %d", got.Intelligence.RiskScore, state.Intelligence.RiskScore)
	}
	if len(got.Intelligence.Tactics) != len(state.Intelligence.Tactics) {
		t.Errorf("tactics = %v, want %v", got.Intelligence.Tactics, state.Intelligence.Tactics)
	}
}

func TestRedisStoreTTLAndArchival(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, mr.Addr(), "", 0, time.Minute, logger.NewDefault())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer func() { _ = store.Close() }()

	active := NewState("active")
	if err := store.Put(ctx, active); err != nil {
		t.Fatal(err)
	}

	archived := NewState("archived")
	archived.Archived = true
	if err := store.Put(ctx, archived); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	if got, _ := store.Get(ctx, "active"); got != nil {
		t.Error("active session should expire with the TTL")
	}
	got, err := store.Get(ctx, "archived")
	if err != nil {
		t.Fatalf("Get archived: %v", err)
	}
	if got == nil || !got.Archived {
		t.Error("archived session must be persisted without a TTL")
	}
}
