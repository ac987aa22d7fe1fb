package tasksupply

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vigil-labs/vigil/internal/oracle"
	"github.com/vigil-labs/vigil/internal/synapse"
)

type stubOracle struct {
	mu      sync.Mutex
	calls   int32
	answers []string
	err     error
}

func (o *stubOracle) ChatCompletion(_ context.Context, _ []oracle.ChatMessage, _ float64, _ string, _ int) (string, error) {
	atomic.AddInt32(&o.calls, 1)
	if o.err != nil {
		return "", o.err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.answers) == 0 {
		return `["alpha", "beta"]`, nil
	}
	answer := o.answers[0]
	if len(o.answers) > 1 {
		o.answers = o.answers[1:]
	}
	return answer, nil
}

func TestTakeLIFO(t *testing.T) {
	s := New(&stubOracle{}, "")
	k := queueKey{Category: synapse.CategoryText, Kind: KindQuestions}
	e := s.entryFor(k)
	e.items = []string{"q1", "q2"}

	got, err := s.Take(context.Background(), synapse.CategoryText, KindQuestions)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got != "q2" {
		t.Fatalf("expected q2, got %q", got)
	}

	got, err = s.Take(context.Background(), synapse.CategoryText, KindQuestions)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got != "q1" {
		t.Fatalf("expected q1, got %q", got)
	}
}

func TestTakeRefillsWhenEmpty(t *testing.T) {
	o := &stubOracle{answers: []string{`Here you go: ["theme one", "theme two", "theme three"]`}}
	s := New(o, "")

	got, err := s.Take(context.Background(), synapse.CategoryImage, KindThemes)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got != "theme three" {
		t.Fatalf("expected last element of fetched list, got %q", got)
	}
	if n := atomic.LoadInt32(&o.calls); n != 1 {
		t.Fatalf("expected 1 oracle call, got %d", n)
	}
}

func TestConcurrentTakeRefillsOnce(t *testing.T) {
	o := &stubOracle{answers: []string{`["a", "b", "c", "d"]`}}
	s := New(o, "")

	var wg sync.WaitGroup
	results := make([]string, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.Take(context.Background(), synapse.CategoryText, KindThemes)
		}()
	}
	wg.Wait()

	for i := range 2 {
		if errs[i] != nil {
			t.Fatalf("take %d: %v", i, errs[i])
		}
	}
	if n := atomic.LoadInt32(&o.calls); n != 1 {
		t.Fatalf("expected exactly 1 oracle call, got %d", n)
	}
	if results[0] == results[1] {
		t.Fatalf("both takes returned %q", results[0])
	}
}

func TestQuestionRefillPopsTheme(t *testing.T) {
	o := &stubOracle{answers: []string{
		`["space travel"]`,
		`["what is a wormhole", "how do rockets land"]`,
	}}
	s := New(o, "")

	got, err := s.Take(context.Background(), synapse.CategoryText, KindQuestions)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got != "how do rockets land" {
		t.Fatalf("got %q", got)
	}
	// one call for the theme list, one for the question list
	if n := atomic.LoadInt32(&o.calls); n != 2 {
		t.Fatalf("expected 2 oracle calls, got %d", n)
	}
}

func TestRefillFallsBackToDefaults(t *testing.T) {
	o := &stubOracle{err: errors.New("oracle down")}
	s := New(o, "")

	got, err := s.Take(context.Background(), synapse.CategoryEmbeddings, KindThemes)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got == "" {
		t.Fatal("expected a default theme")
	}
	if n := atomic.LoadInt32(&o.calls); n != int32(refillAttempts) {
		t.Fatalf("expected %d oracle attempts, got %d", refillAttempts, n)
	}

	defaults := defaultList(queueKey{Category: synapse.CategoryEmbeddings, Kind: KindThemes})
	if got != defaults[len(defaults)-1] {
		t.Fatalf("expected last default %q, got %q", defaults[len(defaults)-1], got)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New(&stubOracle{}, "")
	e := s.entryFor(queueKey{Category: synapse.CategoryText, Kind: KindQuestions})
	e.items = []string{"q1", "q2"}

	blob, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	restored := New(&stubOracle{}, "")
	if err := restored.Restore(blob); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := restored.Take(context.Background(), synapse.CategoryText, KindQuestions)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got != "q2" {
		t.Fatalf("expected q2 after restore, got %q", got)
	}
}

func TestRestoreSkipsUnknownKeys(t *testing.T) {
	s := New(&stubOracle{}, "")
	blob := []byte(`{"text_questions": ["q1"], "bogus": ["x"], "video_themes": ["y"]}`)
	if err := s.Restore(blob); err != nil {
		t.Fatalf("restore: %v", err)
	}

	s.mu.Lock()
	n := len(s.entries)
	s.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected 1 restored queue, got %d", n)
	}
}
