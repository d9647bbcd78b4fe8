package voice

import (
	"context"
	"strings"
	"sync"
	"time"
)

// timerHandle paces a playback with a wall-clock timer. The server does not
// decode audio; it models narration duration so the session flow (gating,
// auto-advance, interrupts) behaves as if audio were playing.
type timerHandle struct {
	mu        sync.Mutex
	timer     *time.Timer
	done      chan error
	duration  time.Duration
	startedAt time.Time
	elapsed   time.Duration
	paused    bool
	stopped   bool
	resumable bool
}

func newTimerHandle(duration time.Duration, resumable bool) *timerHandle {
	h := &timerHandle{
		done:      make(chan error, 1),
		duration:  duration,
		startedAt: time.Now(),
		resumable: resumable,
	}
	h.timer = time.AfterFunc(duration, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.stopped {
			return
		}
		h.stopped = true
		h.done <- nil
	})
	return h
}

func (h *timerHandle) Done() <-chan error { return h.done }

func (h *timerHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped || h.paused {
		return nil
	}
	h.timer.Stop()
	h.elapsed += time.Since(h.startedAt)
	h.paused = true
	return nil
}

func (h *timerHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped || !h.paused {
		return nil
	}
	remaining := h.duration - h.elapsed
	if remaining < 0 {
		remaining = 0
	}
	if !h.resumable {
		// Restart from zero: position is discarded.
		h.elapsed = 0
		remaining = h.duration
	}
	h.startedAt = time.Now()
	h.paused = false
	h.timer = time.AfterFunc(remaining, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.stopped {
			return
		}
		h.stopped = true
		h.done <- nil
	})
	return nil
}

func (h *timerHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.timer.Stop()
	h.stopped = true
}

func (h *timerHandle) position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.paused || h.stopped {
		return h.elapsed
	}
	return h.elapsed + time.Since(h.startedAt)
}

// TimedClipPlayer models recorded-clip playback with a fixed nominal clip
// duration. Clip playback resumes at its position after a pause.
type TimedClipPlayer struct {
	ClipDuration time.Duration
}

// DefaultClipDuration approximates a narration clip when no metadata is
// available.
const DefaultClipDuration = 8 * time.Second

func (p *TimedClipPlayer) Play(ctx context.Context, url string, startAt time.Duration) (Handle, error) {
	d := p.ClipDuration
	if d <= 0 {
		d = DefaultClipDuration
	}
	if startAt > 0 && startAt < d {
		d -= startAt
	}
	return newTimerHandle(d, true), nil
}

func (p *TimedClipPlayer) Position(h Handle) time.Duration {
	if th, ok := h.(*timerHandle); ok {
		return th.position()
	}
	return 0
}

// ScriptSynthesizer models synthesized speech by pacing the voice script at a
// speaking rate. It cannot resume mid-utterance; Resume replays from the
// start, matching speech engines that only synthesize whole utterances.
type ScriptSynthesizer struct {
	WordsPerMinute int
}

const defaultWordsPerMinute = 150

func (s *ScriptSynthesizer) Speak(ctx context.Context, text string) (Handle, error) {
	wpm := s.WordsPerMinute
	if wpm <= 0 {
		wpm = defaultWordsPerMinute
	}
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	duration := time.Duration(float64(words)/float64(wpm)*60) * time.Second
	if duration < time.Second {
		duration = time.Second
	}
	return newTimerHandle(duration, false), nil
}

func (s *ScriptSynthesizer) SupportsResume() bool { return false }
