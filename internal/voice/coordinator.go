// Package voice sequences audio narration for a respondent session. The
// coordinator guarantees at most one narration is audible at a time: a new
// request unconditionally interrupts whatever is playing. It is an explicitly
// constructed instance owned by the session context, not a process-wide
// singleton, so parallel sessions (and tests) never share playback state.
package voice

import (
	"context"
	"sync"
	"time"

	assessments "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
)

// Outcome describes how a playback finished. Every playback finishes with
// exactly one outcome; the Done channel closes when it does.
type Outcome string

const (
	// OutcomeCompleted: the narration played to the end.
	OutcomeCompleted Outcome = "completed"
	// OutcomeSkipped: no audio was available; completion fired instantly so
	// the surrounding flow never waits for audio that does not exist.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeInterrupted: a newer request or StopAll cut this playback off.
	OutcomeInterrupted Outcome = "interrupted"
	// OutcomeManualPlayNeeded: the client runtime denied autoplay; the UI
	// must show a manual play affordance. Not an error state.
	OutcomeManualPlayNeeded Outcome = "manual-play-needed"
)

// Cue identifies one narration request.
type Cue struct {
	AssessmentID uuid.UUID
	Kind         assessments.NarrationKind
	QuestionID   int    // set when Kind is NarrationQuestion
	Text         string // voice script for the synthesized fallback
}

// ClipResolver locates a recorded narration clip for a cue. found=false means
// no clip is configured, which is not an error.
type ClipResolver interface {
	ResolveClip(ctx context.Context, assessmentID uuid.UUID, kind assessments.NarrationKind, questionID int) (url string, found bool, err error)
}

// Handle is a single in-flight playback on a backend.
type Handle interface {
	// Done yields once when the backend finishes. A nil value means the
	// narration played to the end; non-nil means the backend failed mid-play.
	Done() <-chan error
	Pause() error
	Resume() error
	// Stop cancels the playback. A stopped handle never yields on Done.
	Stop()
}

// ClipPlayer plays a recorded clip from a URL, starting at the given offset.
// Recorded-clip playback supports true pause/resume via playback position.
type ClipPlayer interface {
	Play(ctx context.Context, url string, startAt time.Duration) (Handle, error)
	Position(h Handle) time.Duration
}

// Synthesizer produces synthesized speech for a voice script.
type Synthesizer interface {
	Speak(ctx context.Context, text string) (Handle, error)
	// SupportsResume reports whether the backend can resume in place. When it
	// cannot, Resume falls back to a full replay from the start. Documented
	// limitation, not a bug.
	SupportsResume() bool
}

const (
	backendClip   = "clip"
	backendSpeech = "speech"
	backendNone   = "none"
)

// Playback is the awaitable completion signal for one RequestPlay call,
// resolved exactly once.
type Playback struct {
	cue     Cue
	backend string
	url     string

	mu      sync.Mutex
	once    sync.Once
	done    chan struct{}
	outcome Outcome
	err     error

	handle Handle
	paused bool
}

// Done closes when the playback finishes, for any outcome.
func (p *Playback) Done() <-chan struct{} { return p.done }

// Outcome reports how the playback finished. Zero until Done closes.
func (p *Playback) Outcome() Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// Err reports a backend failure that ended the playback. Fallback-recovered
// failures do not surface here.
func (p *Playback) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Backend names the backend that serviced the request: clip, speech, or none.
func (p *Playback) Backend() string { return p.backend }

// URL is the resolved clip URL when the clip backend serviced the request.
func (p *Playback) URL() string { return p.url }

// Text is the voice script carried by the cue, for synthesized rendering.
func (p *Playback) Text() string { return p.cue.Text }

func (p *Playback) finish(outcome Outcome, err error) {
	p.once.Do(func() {
		p.mu.Lock()
		p.outcome = outcome
		p.err = err
		p.mu.Unlock()
		close(p.done)
	})
}

// Coordinator sequences narration for one session.
type Coordinator struct {
	resolver        ClipResolver
	clips           ClipPlayer
	speech          Synthesizer
	fallbackEnabled bool
	log             *logger.Logger
	sessionID       string

	mu      sync.Mutex
	current *Playback
}

// New creates a coordinator for one session. speech may be nil when no
// synthesizer is available; combined with fallbackEnabled=false that makes
// silence the fallback of last resort.
func New(sessionID string, resolver ClipResolver, clips ClipPlayer, speech Synthesizer, fallbackEnabled bool, log *logger.Logger) *Coordinator {
	return &Coordinator{
		resolver:        resolver,
		clips:           clips,
		speech:          speech,
		fallbackEnabled: fallbackEnabled && speech != nil,
		log:             log,
		sessionID:       sessionID,
	}
}

// RequestPlay starts narration for the cue. Any in-flight playback is
// unconditionally stopped first; this is a strict interrupt policy, not a
// queue, which also serializes racing callers. The returned Playback resolves
// exactly once, even when no audio exists (instant completion), so callers
// can always await it without deadlocking.
func (c *Coordinator) RequestPlay(ctx context.Context, cue Cue) *Playback {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.stopLocked(c.current)
	}

	playback := &Playback{cue: cue, done: make(chan struct{})}
	c.current = playback

	url, found, err := c.resolver.ResolveClip(ctx, cue.AssessmentID, cue.Kind, cue.QuestionID)
	if err != nil {
		// Resolution failure is treated like a missing clip: recover through
		// the fallback chain, never propagate to the respondent.
		c.log.PlaybackFallback(c.sessionID, "clip resolution failed: "+err.Error(), c.fallbackName())
		found = false
	}

	if found {
		if c.startClipLocked(ctx, playback, url) {
			return playback
		}
		// Clip load failure: fall through to the speech fallback.
	}

	if c.fallbackEnabled && cue.Text != "" {
		if c.startSpeechLocked(ctx, playback) {
			return playback
		}
	}

	// No audio available. Instant completion keeps the flow moving.
	playback.backend = backendNone
	c.log.PlaybackEvent("skipped", c.sessionID, backendNone)
	playback.finish(OutcomeSkipped, nil)
	return playback
}

func (c *Coordinator) startClipLocked(ctx context.Context, p *Playback, url string) bool {
	handle, err := c.clips.Play(ctx, url, 0)
	if err != nil {
		c.log.PlaybackFallback(c.sessionID, "clip playback failed: "+err.Error(), c.fallbackName())
		return false
	}
	p.backend = backendClip
	p.url = url
	p.handle = handle
	c.log.PlaybackEvent("started", c.sessionID, backendClip)
	go c.watch(ctx, p, handle)
	return true
}

func (c *Coordinator) startSpeechLocked(ctx context.Context, p *Playback) bool {
	handle, err := c.speech.Speak(ctx, p.cue.Text)
	if err != nil {
		c.log.PlaybackFallback(c.sessionID, "speech synthesis failed: "+err.Error(), backendNone)
		return false
	}
	p.backend = backendSpeech
	p.handle = handle
	c.log.PlaybackEvent("started", c.sessionID, backendSpeech)
	go c.watch(ctx, p, handle)
	return true
}

// watch resolves the playback when its backend handle finishes. Each watcher
// owns exactly one handle; a restart (speech resume, mid-play fallback)
// spawns a fresh watcher for the new handle. A mid-play clip failure retries
// through the speech fallback before giving up; either way the playback
// resolves without a hard error for the respondent.
func (c *Coordinator) watch(ctx context.Context, p *Playback, handle Handle) {
	select {
	case err, ok := <-handle.Done():
		if !ok || err == nil {
			p.finish(OutcomeCompleted, nil)
			return
		}
		if p.backend == backendClip && c.fallbackEnabled && p.cue.Text != "" {
			c.mu.Lock()
			started := c.current == p && c.startSpeechLocked(ctx, p)
			c.mu.Unlock()
			if started {
				return
			}
		}
		c.log.PlaybackFallback(c.sessionID, "playback failed: "+err.Error(), backendNone)
		p.finish(OutcomeSkipped, nil)
	case <-p.done:
		// Resolved elsewhere: an interrupt, StopAll, or autoplay denial has
		// already stopped this handle. The watcher just exits.
	case <-ctx.Done():
		handle.Stop()
		p.finish(OutcomeInterrupted, ctx.Err())
	}
}

// Pause suspends the active playback. Valid only while a request is active.
func (c *Coordinator) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.activeLocked()
	if p == nil {
		return apperr.Conflict("no active playback")
	}
	if err := p.handle.Pause(); err != nil {
		return err
	}
	p.paused = true
	return nil
}

// Resume continues a paused playback. Recorded clips resume at their playback
// position; a synthesizer that cannot resume in place replays from the start.
func (c *Coordinator) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.activeLocked()
	if p == nil || !p.paused {
		return apperr.Conflict("no paused playback")
	}

	if p.backend == backendSpeech && !c.speech.SupportsResume() {
		p.handle.Stop()
		handle, err := c.speech.Speak(ctx, p.cue.Text)
		if err != nil {
			p.finish(OutcomeSkipped, nil)
			return nil
		}
		p.handle = handle
		p.paused = false
		go c.watch(ctx, p, handle)
		return nil
	}

	if err := p.handle.Resume(); err != nil {
		return err
	}
	p.paused = false
	return nil
}

// MarkAutoplayDenied records that the client runtime refused unsolicited
// audio start for the active playback. The playback resolves with
// OutcomeManualPlayNeeded so the flow continues; the UI shows a tap-to-play
// affordance.
func (c *Coordinator) MarkAutoplayDenied() {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.activeLocked()
	if p == nil {
		return
	}
	if p.handle != nil {
		p.handle.Stop()
	}
	c.log.PlaybackEvent("autoplay_denied", c.sessionID, p.backend)
	p.finish(OutcomeManualPlayNeeded, nil)
}

// StopAll cancels any in-flight playback. Mandatory cleanup when the session
// resets or the respondent navigates away; orphaned audio after navigation is
// a defect.
func (c *Coordinator) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.stopLocked(c.current)
		c.current = nil
	}
}

func (c *Coordinator) stopLocked(p *Playback) {
	if p.handle != nil {
		p.handle.Stop()
	}
	p.finish(OutcomeInterrupted, nil)
}

// activeLocked returns the current playback if it has not finished yet.
func (c *Coordinator) activeLocked() *Playback {
	if c.current == nil {
		return nil
	}
	select {
	case <-c.current.done:
		return nil
	default:
		return c.current
	}
}

func (c *Coordinator) fallbackName() string {
	if c.fallbackEnabled {
		return backendSpeech
	}
	return backendNone
}
