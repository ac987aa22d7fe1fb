package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/vigil-labs/vigil/internal/config"
)

type fakeProvider struct {
	sig string
	err error
}

func (p *fakeProvider) Sign(string) (string, error) { return p.sig, p.err }

func TestRecordPostsSignedRecord(t *testing.T) {
	var gotHotkey, gotSig string
	var gotRecord RoundRecord

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHotkey = r.Header.Get("X-Hotkey")
		gotSig = r.Header.Get("X-Signature")
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&gotRecord); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg := &config.TelemetryEnvConfig{TelemetryURL: ts.URL, TelemetryOn: true}
	c := NewClient(cfg, "5Hotkey", &fakeProvider{sig: "0xdeadbeef"})

	c.Record(context.Background(), RoundRecord{
		Category: "embeddings",
		Scores:   map[string]float64{"1": 0.5},
	})

	if gotHotkey != "5Hotkey" {
		t.Fatalf("expected hotkey header, got %q", gotHotkey)
	}
	if gotSig != "0xdeadbeef" {
		t.Fatalf("expected signature header, got %q", gotSig)
	}
	if gotRecord.ValidatorHotkey != "5Hotkey" {
		t.Fatalf("expected validator hotkey in record, got %q", gotRecord.ValidatorHotkey)
	}
	if gotRecord.Scores["1"] != 0.5 {
		t.Fatalf("unexpected record scores: %+v", gotRecord.Scores)
	}
}

func TestRecordDisabledDoesNothing(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	cfg := &config.TelemetryEnvConfig{TelemetryURL: ts.URL, TelemetryOn: false}
	c := NewClient(cfg, "5Hotkey", &fakeProvider{sig: "0x00"})
	c.Record(context.Background(), RoundRecord{Category: "text"})

	if called {
		t.Fatal("disabled client posted a record")
	}
}

func TestRecordServerErrorIsSwallowed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := &config.TelemetryEnvConfig{TelemetryURL: ts.URL, TelemetryOn: true}
	c := NewClient(cfg, "5Hotkey", &fakeProvider{sig: "0x00"})
	c.Record(context.Background(), RoundRecord{Category: "text"})
}
