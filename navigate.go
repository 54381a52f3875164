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

// Navigator debounces navigation dispatch. It follows the same
// single-pending-timer discipline as Session: a new Trigger supersedes any
// pending one, Cancel synchronously invalidates, and Close releases the
// timer so nothing fires after teardown.
//
// A zero delay dispatches synchronously on the calling goroutine; any other
// delay dispatches from the timer goroutine.
type Navigator struct {
	mu    sync.Mutex
	fn    NavigateFunc
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

// NewNavigator wraps a navigation function with an optional dispatch delay.
// A nil fn yields a Navigator whose Trigger is a no-op.
func NewNavigator(fn NavigateFunc, delay time.Duration) *Navigator {
	return &Navigator{fn: fn, delay: delay}
}

// Trigger schedules (or with zero delay, performs) navigation to target.
// A Trigger while one is pending replaces it; there is never more than one
// pending navigation.
func (n *Navigator) Trigger(target string, replace bool) {
	n.mu.Lock()
	if n.fn == nil {
		n.mu.Unlock()
		return
	}
	if n.delay <= 0 {
		fn := n.fn
		n.mu.Unlock()
		fn(target, replace)
		return
	}

	n.stopTimerLocked()
	n.gen++
	gen := n.gen
	n.timer = time.AfterFunc(n.delay, func() { n.fire(gen, target, replace) })
	n.mu.Unlock()
}

// Cancel drops a pending navigation. No-op when nothing is pending; a
// navigation that already dispatched is not affected.
func (n *Navigator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer == nil {
		return
	}
	n.stopTimerLocked()
	n.gen++
}

// Close releases any pending navigation. Must run on teardown.
func (n *Navigator) Close() {
	n.Cancel()
}

func (n *Navigator) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Navigator) fire(gen uint64, target string, replace bool) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	fn := n.fn
	n.mu.Unlock()
	fn(target, replace)
}
