package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vigil-labs/vigil/internal/config"
)

func newTestOracle(t *testing.T, handler http.HandlerFunc) *Oracle {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	o, err := NewOracle(&config.OracleEnvConfig{
		OracleAPIUrl:  ts.URL,
		OracleTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new oracle: %v", err)
	}
	return o
}

func TestNewOracle_NilConfig(t *testing.T) {
	if _, err := NewOracle(nil); err == nil {
		t.Fatal("expected error when cfg is nil")
	}
}

func TestChatCompletion_Success(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"reference answer"}}]}`))
	})

	got, err := o.ChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "q"}}, 0, "gpt-4-1106-preview", 1234)
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if got != "reference answer" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestChatCompletion_RetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	start := time.Now()
	got, err := o.ChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "q"}}, 0, "m", 1)
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if got != "" {
		t.Fatalf("expected empty content on failure, got %q", got)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
	// only the gap between attempts backs off; the final failure returns
	// without sleeping
	if elapsed >= 2*chatRetryDelay {
		t.Fatalf("expected at most one backoff delay, took %v", elapsed)
	}
}

func TestEmbeddings_OrderPreserved(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := map[string]any{"data": []map[string]any{}}
		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]any{"index": i, "embedding": []float64{float64(len(req.Input[i]))}}
		}
		resp["data"] = data
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			panic(err)
		}
	})

	texts := []string{"a", "bb", "ccc"}
	got, err := o.Embeddings(context.Background(), texts, "text-embedding-ada-002")
	if err != nil {
		t.Fatalf("Embeddings failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(got))
	}
	for i, want := range []float64{1, 2, 3} {
		if got[i][0] != want {
			t.Fatalf("vector %d: got %v want [%v]", i, got[i], want)
		}
	}
}

func TestEmbeddings_EmptyTextKeepsSlots(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, text := range req.Input {
			if text == "" {
				t.Error("empty text forwarded to the oracle")
			}
		}
		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]any{"index": i, "embedding": []float64{float64(len(req.Input[i]))}}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"data": data}); err != nil {
			panic(err)
		}
	})

	got, err := o.Embeddings(context.Background(), []string{"a", "", "ccc"}, "text-embedding-ada-002")
	if err != nil {
		t.Fatalf("Embeddings failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(got))
	}
	// non-empty texts keep their original slots; the blank one stays nil
	if got[0] == nil || got[0][0] != 1 {
		t.Fatalf("slot 0: got %v want [1]", got[0])
	}
	if got[1] != nil {
		t.Fatalf("slot 1 must stay nil for an empty text, got %v", got[1])
	}
	if got[2] == nil || got[2][0] != 3 {
		t.Fatalf("slot 2: got %v want [3]", got[2])
	}
}

func TestEmbeddings_FailedBatchSkipped(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	got, err := o.Embeddings(context.Background(), []string{"a", "b"}, "m")
	if err != nil {
		t.Fatalf("Embeddings must not fail hard: %v", err)
	}
	for _, v := range got {
		if v != nil {
			t.Fatalf("expected nil vectors for failed batch, got %v", got)
		}
	}
}

func TestScoreImage(t *testing.T) {
	o := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/score/image" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"score":0.82}`))
	})

	score, err := o.ScoreImage(context.Background(), "a misty forest", "http://img/1.png", "1792x1024")
	if err != nil {
		t.Fatalf("ScoreImage failed: %v", err)
	}
	if score != 0.82 {
		t.Fatalf("unexpected score: %v", score)
	}
}
