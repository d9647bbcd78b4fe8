package voice

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	assessments "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
)

// fakeHandle finishes only when told to, so tests control playback timing.
type fakeHandle struct {
	done    chan error
	stopped bool
	paused  bool
}

func newFakeHandle() *fakeHandle { return &fakeHandle{done: make(chan error, 1)} }

func (h *fakeHandle) Done() <-chan error { return h.done }
func (h *fakeHandle) Pause() error       { h.paused = true; return nil }
func (h *fakeHandle) Resume() error      { h.paused = false; return nil }
func (h *fakeHandle) Stop()              { h.stopped = true }
func (h *fakeHandle) complete()          { h.done <- nil }
func (h *fakeHandle) fail(err error)     { h.done <- err }

type fakeResolver struct {
	url   string
	found bool
	err   error
}

func (r *fakeResolver) ResolveClip(_ context.Context, _ uuid.UUID, _ assessments.NarrationKind, _ int) (string, bool, error) {
	return r.url, r.found, r.err
}

type fakePlayer struct {
	handles []*fakeHandle
	err     error
}

func (p *fakePlayer) Play(_ context.Context, _ string, _ time.Duration) (Handle, error) {
	if p.err != nil {
		return nil, p.err
	}
	h := newFakeHandle()
	p.handles = append(p.handles, h)
	return h, nil
}

func (p *fakePlayer) Position(Handle) time.Duration { return 0 }

type fakeSynth struct {
	handles   []*fakeHandle
	err       error
	resumable bool
}

func (s *fakeSynth) Speak(_ context.Context, _ string) (Handle, error) {
	if s.err != nil {
		return nil, s.err
	}
	h := newFakeHandle()
	s.handles = append(s.handles, h)
	return h, nil
}

func (s *fakeSynth) SupportsResume() bool { return s.resumable }

func testCoordinator(t *testing.T, resolver *fakeResolver, player *fakePlayer, synth Synthesizer, fallback bool) *Coordinator {
	t.Helper()
	return New(uuid.NewString(), resolver, player, synth, fallback, logger.New("test"))
}

func awaitOutcome(t *testing.T, p *Playback) Outcome {
	t.Helper()
	select {
	case <-p.Done():
		return p.Outcome()
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not resolve")
		return ""
	}
}

func welcomeCue() Cue {
	return Cue{AssessmentID: uuid.New(), Kind: assessments.NarrationWelcome, Text: "Welcome to your assessment."}
}

func TestClipPlaybackCompletes(t *testing.T) {
	player := &fakePlayer{}
	c := testCoordinator(t, &fakeResolver{url: "https://cdn/welcome.mp3", found: true}, player, &fakeSynth{}, true)

	p := c.RequestPlay(context.Background(), welcomeCue())
	if p.Backend() != backendClip {
		t.Fatalf("expected clip backend, got %s", p.Backend())
	}

	player.handles[0].complete()
	if got := awaitOutcome(t, p); got != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

// A new request unconditionally interrupts the in-flight one.
func TestStrictInterrupt(t *testing.T) {
	player := &fakePlayer{}
	c := testCoordinator(t, &fakeResolver{url: "https://cdn/q.mp3", found: true}, player, &fakeSynth{}, true)

	first := c.RequestPlay(context.Background(), welcomeCue())
	second := c.RequestPlay(context.Background(), welcomeCue())

	if got := awaitOutcome(t, first); got != OutcomeInterrupted {
		t.Fatalf("expected first playback interrupted, got %s", got)
	}
	if !player.handles[0].stopped {
		t.Fatal("first backend handle was not stopped")
	}

	player.handles[1].complete()
	if got := awaitOutcome(t, second); got != OutcomeCompleted {
		t.Fatalf("expected second playback completed, got %s", got)
	}
}

func TestMissingClipFallsBackToSpeech(t *testing.T) {
	synth := &fakeSynth{}
	c := testCoordinator(t, &fakeResolver{found: false}, &fakePlayer{}, synth, true)

	p := c.RequestPlay(context.Background(), welcomeCue())
	if p.Backend() != backendSpeech {
		t.Fatalf("expected speech backend, got %s", p.Backend())
	}

	synth.handles[0].complete()
	if got := awaitOutcome(t, p); got != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

// No clip and fallback disabled: completion fires instantly with no error so
// the flow never waits for audio that does not exist.
func TestNoAudioResolvesInstantly(t *testing.T) {
	c := testCoordinator(t, &fakeResolver{found: false}, &fakePlayer{}, &fakeSynth{}, false)

	p := c.RequestPlay(context.Background(), welcomeCue())

	if got := awaitOutcome(t, p); got != OutcomeSkipped {
		t.Fatalf("expected skipped, got %s", got)
	}
	if p.Err() != nil {
		t.Fatalf("expected no error for missing audio, got %v", p.Err())
	}
	if p.Backend() != backendNone {
		t.Fatalf("expected no backend, got %s", p.Backend())
	}
}

func TestClipLoadFailureFallsBackToSpeech(t *testing.T) {
	synth := &fakeSynth{}
	c := testCoordinator(t, &fakeResolver{url: "https://cdn/q.mp3", found: true}, &fakePlayer{err: errors.New("404")}, synth, true)

	p := c.RequestPlay(context.Background(), welcomeCue())
	if p.Backend() != backendSpeech {
		t.Fatalf("expected speech fallback, got %s", p.Backend())
	}

	synth.handles[0].complete()
	if got := awaitOutcome(t, p); got != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestMidPlayClipFailureFallsBackToSpeech(t *testing.T) {
	player := &fakePlayer{}
	synth := &fakeSynth{}
	c := testCoordinator(t, &fakeResolver{url: "https://cdn/q.mp3", found: true}, player, synth, true)

	p := c.RequestPlay(context.Background(), welcomeCue())
	player.handles[0].fail(errors.New("stream reset"))

	deadline := time.After(2 * time.Second)
	for len(synth.handles) == 0 {
		select {
		case <-deadline:
			t.Fatal("speech fallback never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	synth.handles[0].complete()
	if got := awaitOutcome(t, p); got != OutcomeCompleted {
		t.Fatalf("expected completed after fallback, got %s", got)
	}
}

func TestAutoplayDenied(t *testing.T) {
	player := &fakePlayer{}
	c := testCoordinator(t, &fakeResolver{url: "https://cdn/welcome.mp3", found: true}, player, &fakeSynth{}, true)

	p := c.RequestPlay(context.Background(), welcomeCue())
	c.MarkAutoplayDenied()

	if got := awaitOutcome(t, p); got != OutcomeManualPlayNeeded {
		t.Fatalf("expected manual-play-needed, got %s", got)
	}
	if p.Err() != nil {
		t.Fatalf("autoplay denial is not an error, got %v", p.Err())
	}
}

func TestStopAll(t *testing.T) {
	player := &fakePlayer{}
	c := testCoordinator(t, &fakeResolver{url: "https://cdn/q.mp3", found: true}, player, &fakeSynth{}, true)

	p := c.RequestPlay(context.Background(), welcomeCue())
	c.StopAll()

	if got := awaitOutcome(t, p); got != OutcomeInterrupted {
		t.Fatalf("expected interrupted, got %s", got)
	}
	if !player.handles[0].stopped {
		t.Fatal("backend handle was not stopped")
	}

	// Idempotent: a second StopAll with nothing active is a no-op.
	c.StopAll()
}

// An interrupted backend handle never fires its done signal, so the watcher
// must exit on the playback's own resolution instead of blocking forever.
func TestInterruptReleasesWatcher(t *testing.T) {
	player := &fakePlayer{}
	c := testCoordinator(t, &fakeResolver{url: "https://cdn/q.mp3", found: true}, player, &fakeSynth{}, true)

	before := runtime.NumGoroutine()
	for i := 0; i < 8; i++ {
		p := c.RequestPlay(context.Background(), welcomeCue())
		c.StopAll()
		if got := awaitOutcome(t, p); got != OutcomeInterrupted {
			t.Fatalf("expected interrupted, got %s", got)
		}
	}

	deadline := time.After(2 * time.Second)
	for runtime.NumGoroutine() > before+1 {
		select {
		case <-deadline:
			t.Fatalf("watchers did not exit: %d goroutines, started with %d", runtime.NumGoroutine(), before)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// A synthesizer without in-place resume replays from the start: Resume
// produces a fresh utterance rather than continuing the old handle.
func TestSpeechResumeRestartsUtterance(t *testing.T) {
	synth := &fakeSynth{resumable: false}
	c := testCoordinator(t, &fakeResolver{found: false}, &fakePlayer{}, synth, true)

	p := c.RequestPlay(context.Background(), welcomeCue())
	if err := c.Pause(); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if err := c.Resume(context.Background()); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if len(synth.handles) != 2 {
		t.Fatalf("expected a fresh utterance on resume, got %d handles", len(synth.handles))
	}
	if !synth.handles[0].stopped {
		t.Fatal("original utterance was not stopped")
	}

	synth.handles[1].complete()
	if got := awaitOutcome(t, p); got != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestPauseWithoutActivePlayback(t *testing.T) {
	c := testCoordinator(t, &fakeResolver{found: false}, &fakePlayer{}, &fakeSynth{}, false)

	if err := c.Pause(); err == nil {
		t.Fatal("expected pause without active playback to fail")
	}
}
