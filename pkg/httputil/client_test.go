package httputil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientTiersAreShared(t *testing.T) {
	if Client(TierMedium) != Client(TierMedium) {
		t.Error("same tier should return the same client instance")
	}
	if FastClient() == SlowClient() {
		t.Error("different tiers should return different clients")
	}
}

func TestClientTimeouts(t *testing.T) {
	cases := []struct {
		tier TimeoutTier
		get  func() *http.Client
		want time.Duration
	}{
		{TierFast, FastClient, 5 * time.Second},
		{TierMedium, MediumClient, 30 * time.Second},
		{TierSlow, SlowClient, 60 * time.Second},
	}

	for _, tc := range cases {
		if got := tc.get().Timeout; got != tc.want {
			t.Errorf("tier %d timeout = %v, want %v", tc.tier, got, tc.want)
		}
	}
}

func TestReadResponseBody(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		maxSize int64
		wantLen int
	}{
		{"normal read", "hello world", 1024, 11},
		{"truncated at cap", strings.Repeat("x", 1000), 100, 100},
		{"zero uses default cap", "test", 0, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadResponseBody(strings.NewReader(tc.input), tc.maxSize)
			if err != nil {
				t.Fatalf("ReadResponseBody: %v", err)
			}
			if len(got) != tc.wantLen {
				t.Errorf("len = %d, want %d", len(got), tc.wantLen)
			}
		})
	}
}

func TestReadErrorBodyTruncates(t *testing.T) {
	large := strings.Repeat("error details ", 100000)

	got, err := ReadErrorBody(strings.NewReader(large))
	if err != nil {
		t.Fatalf("ReadErrorBody: %v", err)
	}
	if len(got) > 1024*1024 {
		t.Errorf("error body should be capped at 1MB, got %d bytes", len(got))
	}
}

func TestDrainAndClose(t *testing.T) {
	r := &trackingReader{Reader: bytes.NewReader([]byte("test data"))}
	DrainAndClose(io.NopCloser(r))

	if !r.fullyRead {
		t.Error("DrainAndClose should fully drain the body")
	}

	// Nil body must not panic.
	DrainAndClose(nil)
}

type trackingReader struct {
	io.Reader
	fullyRead bool
}

func (r *trackingReader) Read(p []byte) (n int, err error) {
	n, err = r.Reader.Read(p)
	if err == io.EOF {
		r.fullyRead = true
	}
	return
}

func TestSharedClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := MediumClient()
	for i := range 5 {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		body, err := ReadResponseBody(resp.Body, 64)
		resp.Body.Close()
		if err != nil || string(body) != "ok" {
			t.Fatalf("request %d body = %q, err = %v", i, body, err)
		}
	}
}
