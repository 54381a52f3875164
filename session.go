// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package navlink

import (
	"sync"
	"time"
)

// Session tracks prefetch scheduling for one link instance over its
// lifetime. It converts hover-enter signals into, after the configured
// delay, exactly one successful dispatch - unless cancelled first.
//
// State machine: Idle -> Scheduled -> Dispatched (terminal), with
// Scheduled -> Idle on Cancel. A failed dispatch returns to Idle so a later
// hover can retry. Once Dispatched, Start is a no-op: the target is
// considered warm for the rest of the session.
//
// Invariants:
//   - at most one pending timer per session; Start supersedes any pending
//     schedule before arming a new one, and a Start arriving while a
//     dispatch is in flight is a no-op
//   - a Cancel that wins the race with the timer always prevents dispatch:
//     cancellation bumps a generation counter checked again when the timer
//     fires, so a stale callback can never dispatch
//   - Close releases any pending timer; nothing fires after teardown
//
// Sessions are owned by a single link and never shared, but Go timers fire
// on their own goroutine, so all state is mutex-guarded.
type Session struct {
	mu         sync.Mutex
	cfg        PrefetchConfig
	target     string
	external   bool
	disabled   bool
	redirect   bool
	rc         *RouterContext
	dispatcher *Dispatcher

	timer       *time.Timer
	gen         uint64
	dispatching bool
	dispatched  bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionTarget sets the path the session prefetches.
func WithSessionTarget(target string) SessionOption {
	return func(s *Session) {
		s.target = CleanURL(target)
		s.external = IsExternal(target)
	}
}

// WithSessionConfig sets the resolved prefetch configuration.
func WithSessionConfig(cfg PrefetchConfig) SessionOption {
	return func(s *Session) { s.cfg = cfg }
}

// WithSessionPrefetchProp resolves a prefetch shorthand (bool, partial
// config, or map) through Normalize.
func WithSessionPrefetchProp(prop any) SessionOption {
	return func(s *Session) { s.cfg = Normalize(prop) }
}

// WithSessionSink sets the hint sink used by hint-based strategies.
func WithSessionSink(sink HintSink) SessionOption {
	return func(s *Session) { s.dispatcher.Sink = sink }
}

// WithSessionOrigin sets the page origin used for preconnect hints on
// same-origin targets. Without it those hints are skipped.
func WithSessionOrigin(origin string) SessionOption {
	return func(s *Session) { s.dispatcher.PageOrigin = origin }
}

// WithSessionCapability injects the native-prefetch lookup used by the
// specialized-router strategy.
func WithSessionCapability(fn CapabilityFunc) SessionOption {
	return func(s *Session) { s.dispatcher.Capability = fn }
}

// WithSessionRouterContext sets the externally owned routing context.
func WithSessionRouterContext(rc *RouterContext) SessionOption {
	return func(s *Session) { s.rc = rc }
}

// WithSessionDiagnostics sets the diagnostic handler.
func WithSessionDiagnostics(h DiagnosticHandler) SessionOption {
	return func(s *Session) { s.dispatcher.Diagnostics = h }
}

// WithSessionRecorder sets the metrics recorder.
func WithSessionRecorder(r *Recorder) SessionOption {
	return func(s *Session) { s.dispatcher.Recorder = r }
}

// WithSessionDisabled marks the owning link disabled; disabled links never
// prefetch.
func WithSessionDisabled(disabled bool) SessionOption {
	return func(s *Session) { s.disabled = disabled }
}

// WithSessionNoRedirect marks the link as non-navigating (redirection
// suppressed); such links never prefetch.
func WithSessionNoRedirect() SessionOption {
	return func(s *Session) { s.redirect = false }
}

// NewSession creates a session in the Idle state. Without options it is
// enabled with the default configuration but has no sink, so hint-based
// dispatches fail non-fatally until one is supplied.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		cfg:        DefaultPrefetchConfig(),
		redirect:   true,
		dispatcher: &Dispatcher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules a dispatch after the configured delay. It is wired to
// pointer-enter. Start is a no-op when prefetching is disabled, the target
// is external, the link does not navigate, the link is disabled, or this
// session already dispatched successfully. A Start while a dispatch is
// already pending supersedes it; two rapid hovers produce at most one
// dispatch.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Enabled || s.external || !s.redirect || s.disabled || s.dispatched || s.dispatching {
		return
	}

	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	s.dispatcher.Recorder.recordScheduled(s.cfg.Strategy, s.cfg.Delay)
	s.timer = time.AfterFunc(s.cfg.Delay, func() { s.fire(gen) })
}

// Cancel releases any pending dispatch. It is wired to pointer-leave and
// must also run on teardown. Cancelling with nothing pending is a no-op,
// and a dispatch that already fired is not rolled back.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return
	}
	s.stopTimerLocked()
	// Invalidate the generation so a callback that already left the runtime
	// timer queue sees itself stale and drops out.
	s.gen++
	s.dispatcher.Recorder.recordCancelled(s.cfg.Strategy)
}

// Close tears the session down, releasing any pending timer. The session
// must not be reused afterwards (further Starts would arm new timers).
func (s *Session) Close() {
	s.Cancel()
}

// IsDispatched reports whether this session has already completed a
// successful dispatch.
func (s *Session) IsDispatched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatched
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fire runs on the timer goroutine when the delay elapses.
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.dispatched || s.dispatching {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	// Mark the dispatch in flight before releasing the mutex: a Start
	// arriving mid-dispatch must not arm a second timer, or one session
	// could dispatch twice.
	s.dispatching = true
	target, strategy, external := s.target, s.cfg.Strategy, s.external
	rc, custom, d := s.rc, s.cfg.Custom, s.dispatcher
	s.mu.Unlock()

	// Dispatch outside the lock; custom callbacks may call back into the
	// session.
	ok := d.Dispatch(target, strategy, external, rc, custom)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatching = false
	if ok {
		s.dispatched = true
	}
}
