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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(sink HintSink, extra ...SessionOption) *Session {
	opts := append([]SessionOption{
		WithSessionTarget("/pricing"),
		WithSessionSink(sink),
		WithSessionOrigin("https://app.example.com"),
		WithSessionConfig(PrefetchConfig{
			Enabled:  true,
			Delay:    10 * time.Millisecond,
			Strategy: RouterDefault,
		}),
	}, extra...)
	return NewSession(opts...)
}

// gateSink blocks inside Add until released, letting tests hold a dispatch
// in flight while poking at the session.
type gateSink struct {
	entered chan struct{}
	release chan struct{}
	inner   *RecorderSink
}

func newGateSink() *gateSink {
	return &gateSink{
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
		inner:   NewRecorderSink(),
	}
}

func (s *gateSink) Add(hint ResourceHint) error {
	s.entered <- struct{}{}
	<-s.release
	return s.inner.Add(hint)
}

func TestSession_DispatchesAfterDelay(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink)
	defer s.Close()

	s.Start()

	require.Eventually(t, s.IsDispatched, time.Second, time.Millisecond)
	assert.Equal(t, 2, sink.Len(), "default strategy registers prefetch + preconnect")
}

// TestSession_CancelBeforeDelayPreventsDispatch: a cancel that beats the
// timer always wins. Zero dispatches may occur afterwards.
func TestSession_CancelBeforeDelayPreventsDispatch(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink)
	defer s.Close()

	s.Start()
	s.Cancel()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, s.IsDispatched())
	assert.Zero(t, sink.Len())
}

// TestSession_RestartSupersedes: two rapid hovers leave at most one pending
// timer and produce at most one dispatch.
func TestSession_RestartSupersedes(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink)
	defer s.Close()

	s.Start()
	s.Start()
	s.Start()

	require.Eventually(t, s.IsDispatched, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, sink.Len(), "exactly one dispatch worth of hints")
}

// TestSession_DispatchedIsTerminal: after one success, further hovers are
// no-ops for the rest of the session.
func TestSession_DispatchedIsTerminal(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink)
	defer s.Close()

	s.Start()
	require.Eventually(t, s.IsDispatched, time.Second, time.Millisecond)

	s.Start()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, sink.Len(), "no re-dispatch after success")
	assert.True(t, s.IsDispatched())
}

// TestSession_StartDuringDispatchDoesNotRedispatch: a hover that arrives
// while the dispatch itself is executing must not arm a second timer; one
// session performs at most one successful dispatch, even across that
// window.
func TestSession_StartDuringDispatchDoesNotRedispatch(t *testing.T) {
	sink := newGateSink()
	s := NewSession(
		WithSessionTarget("/pricing"),
		WithSessionSink(sink),
		WithSessionConfig(PrefetchConfig{
			Enabled:  true,
			Delay:    time.Millisecond,
			Strategy: RouterAlternate,
		}),
	)
	defer s.Close()

	s.Start()
	<-sink.entered // dispatch now in flight, dispatched still false

	s.Start() // must be a no-op
	close(sink.release)

	require.Eventually(t, s.IsDispatched, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, sink.inner.Len(), "exactly one dispatch per session")
}

// TestSession_FailedDispatchIsRetryable: a failed dispatch returns the
// session to idle; a later hover retries and can succeed.
func TestSession_FailedDispatchIsRetryable(t *testing.T) {
	sink := NewRecorderSink()
	sink.FailWith = ErrHintRejected
	s := testSession(sink)
	defer s.Close()

	s.Start()
	time.Sleep(50 * time.Millisecond)
	require.False(t, s.IsDispatched())

	sink.FailWith = nil
	s.Start()
	require.Eventually(t, s.IsDispatched, time.Second, time.Millisecond)
}

func TestSession_DisabledConfigNeverSchedules(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink, WithSessionPrefetchProp(false))
	defer s.Close()

	s.Start()
	time.Sleep(30 * time.Millisecond)
	assert.False(t, s.IsDispatched())
	assert.Zero(t, sink.Len())
}

func TestSession_ExternalTargetNeverSchedules(t *testing.T) {
	sink := NewRecorderSink()
	s := NewSession(
		WithSessionTarget("https://other.example/docs"),
		WithSessionSink(sink),
		WithSessionConfig(PrefetchConfig{Enabled: true, Delay: time.Millisecond, Strategy: RouterDefault}),
	)
	defer s.Close()

	s.Start()
	time.Sleep(30 * time.Millisecond)
	assert.False(t, s.IsDispatched())
	assert.Zero(t, sink.Len())
}

func TestSession_DisabledLinkNeverSchedules(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink, WithSessionDisabled(true))
	defer s.Close()

	s.Start()
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, sink.Len())
}

func TestSession_NoRedirectNeverSchedules(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink, WithSessionNoRedirect())
	defer s.Close()

	s.Start()
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, sink.Len())
}

// TestSession_CloseReleasesPendingTimer: teardown mid-delay must prevent
// the callback from firing afterwards.
func TestSession_CloseReleasesPendingTimer(t *testing.T) {
	sink := NewRecorderSink()
	s := testSession(sink)

	s.Start()
	s.Close()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, s.IsDispatched())
	assert.Zero(t, sink.Len())
}

func TestSession_CancelWithNothingPendingIsNoop(t *testing.T) {
	s := testSession(NewRecorderSink())
	defer s.Close()

	s.Cancel()
	s.Cancel()
	assert.False(t, s.IsDispatched())
}

func TestSession_CustomStrategy(t *testing.T) {
	done := make(chan string, 1)
	s := NewSession(
		WithSessionTarget("/pricing"),
		WithSessionConfig(PrefetchConfig{
			Enabled:  true,
			Delay:    5 * time.Millisecond,
			Strategy: RouterCustom,
			Custom:   func(target string) { done <- target },
		}),
	)
	defer s.Close()

	s.Start()

	select {
	case target := <-done:
		assert.Equal(t, "/pricing", target)
	case <-time.After(time.Second):
		t.Fatal("custom callback never invoked")
	}
	require.Eventually(t, s.IsDispatched, time.Second, time.Millisecond)
}

func TestSession_SpecializedStrategyUsesCapability(t *testing.T) {
	done := make(chan string, 1)
	s := NewSession(
		WithSessionTarget("/pricing"),
		WithSessionCapability(func(string) PrefetchFunc {
			return func(target string) { done <- target }
		}),
		WithSessionConfig(PrefetchConfig{
			Enabled:  true,
			Delay:    5 * time.Millisecond,
			Strategy: RouterSpecialized,
		}),
	)
	defer s.Close()

	s.Start()

	select {
	case target := <-done:
		assert.Equal(t, "/pricing", target)
	case <-time.After(time.Second):
		t.Fatal("capability never invoked")
	}
}
