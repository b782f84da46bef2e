package mdstream

import (
	"context"
	"testing"
	"time"
)

func TestRevealerLiveCadence(t *testing.T) {
	r := NewRevealer(WithRevealInterval(2 * time.Millisecond))
	r.Publish("m1", 100, true)
	base := time.Now()
	if got := r.Tick(base); got != 0 {
		t.Fatalf("first tick revealed %d, want 0", got)
	}
	if got := r.Tick(base.Add(20 * time.Millisecond)); got != 10 {
		t.Fatalf("after 20ms revealed %d, want 10", got)
	}
	if got := r.Tick(base.Add(21 * time.Millisecond)); got != 10 {
		t.Fatalf("sub-interval tick advanced to %d, want 10", got)
	}
	if got := r.Tick(base.Add(22 * time.Millisecond)); got != 11 {
		t.Fatalf("remainder carry broken: revealed %d, want 11", got)
	}
}

func TestRevealerNeverExceedsTotal(t *testing.T) {
	r := NewRevealer(WithRevealInterval(time.Millisecond))
	r.Publish("m1", 5, true)
	base := time.Now()
	r.Tick(base)
	prev := 0
	for i := 1; i <= 50; i++ {
		got := r.Tick(base.Add(time.Duration(i) * 10 * time.Millisecond))
		if got < prev {
			t.Fatalf("cursor went backwards: %d after %d", got, prev)
		}
		if got > 5 {
			t.Fatalf("cursor %d exceeds total 5", got)
		}
		prev = got
	}
	if prev != 5 {
		t.Fatalf("cursor never reached total, stuck at %d", prev)
	}
}

func TestRevealerDrainMeetsDeadline(t *testing.T) {
	r := NewRevealer(
		WithRevealInterval(time.Hour), // live regime must not matter here
		WithDrainWindow(time.Second),
		WithTickPeriod(100*time.Millisecond),
	)
	r.Publish("m1", 1000, true)
	base := time.Now()
	r.Tick(base)
	r.FinishInput(base)
	deadline := base.Add(time.Second)
	now := base
	for !r.Done() {
		now = now.Add(100 * time.Millisecond)
		if now.After(deadline.Add(200 * time.Millisecond)) {
			t.Fatalf("drain missed deadline, revealed %d of 1000", r.Revealed())
		}
		r.Tick(now)
	}
	if got := r.Revealed(); got != 1000 {
		t.Fatalf("drain finished with %d revealed, want 1000", got)
	}
}

func TestRevealerNonStreamingImmediate(t *testing.T) {
	r := NewRevealer()
	r.Publish("m1", 42, false)
	if got := r.Revealed(); got != 42 {
		t.Fatalf("non-streaming content revealed %d, want 42", got)
	}
	if !r.Done() {
		t.Fatal("non-streaming content should be done immediately")
	}
}

func TestRevealerIdentityChangeRestarts(t *testing.T) {
	r := NewRevealer(WithRevealInterval(time.Millisecond))
	r.Publish("m1", 10, true)
	base := time.Now()
	r.Tick(base)
	r.Tick(base.Add(5 * time.Millisecond))
	if r.Revealed() == 0 {
		t.Fatal("expected some progress before identity change")
	}
	r.Publish("m2", 10, true)
	if got := r.Revealed(); got != 0 {
		t.Fatalf("new identity should restart from zero, got %d", got)
	}
}

func TestRevealerGrow(t *testing.T) {
	r := NewRevealer(WithRevealInterval(time.Millisecond))
	r.Publish("m1", 3, true)
	base := time.Now()
	r.Tick(base)
	r.Tick(base.Add(100 * time.Millisecond))
	if got := r.Revealed(); got != 3 {
		t.Fatalf("revealed %d, want 3", got)
	}
	r.Grow(6)
	r.Grow(4) // shrink attempts are ignored
	if got := r.Tick(base.Add(200 * time.Millisecond)); got != 6 {
		t.Fatalf("after grow revealed %d, want 6", got)
	}
}

func TestRevealerCancel(t *testing.T) {
	r := NewRevealer(WithRevealInterval(time.Millisecond))
	r.Publish("m1", 100, true)
	base := time.Now()
	r.Tick(base)
	r.Cancel()
	if got := r.Tick(base.Add(time.Second)); got != 0 {
		t.Fatalf("cancelled revealer advanced to %d", got)
	}
}

func TestRevealSlice(t *testing.T) {
	cases := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 3, "hel"},
		{"hello", 10, "hello"},
		{"hello", 0, ""},
		{"héllo", 2, "hé"},
		{"日本語", 2, "日本"},
		{"", 5, ""},
	}
	for _, tc := range cases {
		if got := RevealSlice(tc.s, tc.n); got != tc.want {
			t.Fatalf("RevealSlice(%q, %d) = %q, want %q", tc.s, tc.n, got, tc.want)
		}
	}
}

func TestSchedulerRunsToCompletion(t *testing.T) {
	r := NewRevealer(
		WithRevealInterval(time.Millisecond),
		WithDrainWindow(30*time.Millisecond),
	)
	r.Publish("m1", 20, true)
	r.FinishInput(time.Now())
	var last int
	sched := NewScheduler(r, 5*time.Millisecond, func(revealed int) {
		if revealed < last {
			t.Errorf("callback saw cursor go backwards: %d after %d", revealed, last)
		}
		last = revealed
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sched.Run(ctx); err != nil {
		t.Fatalf("scheduler run: %v", err)
	}
	if !r.Done() {
		t.Fatal("scheduler stopped before revealer was done")
	}
}

func TestSchedulerStop(t *testing.T) {
	r := NewRevealer()
	r.Publish("m1", 1_000_000, true)
	sched := NewScheduler(r, time.Millisecond, nil)
	go func() {
		time.Sleep(10 * time.Millisecond)
		sched.Stop()
	}()
	if err := sched.Run(context.Background()); err != nil {
		t.Fatalf("scheduler run: %v", err)
	}
	if r.Active() {
		t.Fatal("revealer still active after stop")
	}
}

func TestRevealTree(t *testing.T) {
	tree := ParseString("# Head\n\nbody text")
	partial := RevealTree(tree, 6) // "Head" plus two of "body text"
	want := `(document (heading:1 (text "Head")) (paragraph (text "bo")))`
	if got := partial.Sexpr(); got != want {
		t.Fatalf("partial tree:\n got  %s\n want %s", got, want)
	}
	full := RevealTree(tree, 1000)
	if full.Sexpr() != tree.Sexpr() {
		t.Fatalf("over-budget reveal altered tree: %s", full.Sexpr())
	}
	empty := RevealTree(tree, 0)
	if len(empty.Children) != 0 {
		t.Fatalf("zero budget revealed %s", empty.Sexpr())
	}
}
