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
	"fmt"
	"net/url"
	"strings"
)

// NavigateFunc performs the actual page transition. The package never calls
// it on its own: the composing layer wires it to click events (usually
// through a Navigator).
type NavigateFunc func(target string, replace bool)

// PrefetchFunc is a router's native prefetch capability.
type PrefetchFunc func(target string)

// CapabilityFunc resolves a named prefetch capability. It replaces ambient
// global lookups: rather than scanning process-wide state for an installed
// router, the composing layer injects the lookup explicitly. Returning nil
// means the capability is unavailable.
type CapabilityFunc func(name string) PrefetchFunc

// RouterRef is the read-only view of a host router a link might use for
// native prefetching.
type RouterRef struct {
	// Prefetch, when non-nil, is the router's own warm-up entry point.
	Prefetch PrefetchFunc
}

// Location is the host page's current-location snapshot.
type Location struct {
	Pathname string
}

// RouterContext is the externally owned routing context a link reads from.
// The package never mutates it.
type RouterContext struct {
	Navigate NavigateFunc
	Location *Location
	Router   *RouterRef
}

// CurrentPath returns the context's pathname, or "" when no location is
// available. Links with no known location are always inactive.
func (rc *RouterContext) CurrentPath() (string, bool) {
	if rc == nil || rc.Location == nil {
		return "", false
	}
	return rc.Location.Pathname, true
}

// IsExternal reports whether target leaves the host page's origin: an
// absolute URL with a scheme or host, or a protocol-relative "//" URL.
// External targets are never prefetched.
func IsExternal(target string) bool {
	if strings.HasPrefix(target, "//") {
		return true
	}
	u, err := url.Parse(target)
	if err != nil {
		// Unparseable targets are treated as external; prefetching them
		// could only misfire.
		return true
	}
	return u.Scheme != "" || u.Host != ""
}

// capabilityName is the key dispatch uses when asking an injected
// CapabilityFunc for a native prefetcher.
const capabilityName = "prefetch"

// Dispatcher routes a prefetch request to one strategy implementation.
// The zero value is usable but emits nothing: a nil Sink fails hint-based
// strategies non-fatally.
type Dispatcher struct {
	// Sink receives resource hints for the hint-based strategies.
	Sink HintSink

	// PageOrigin is the scheme://host origin of the pages being served,
	// used for the default strategy's preconnect hint on same-origin
	// targets. When empty, that hint is skipped: the serving connection is
	// unknown, and preconnecting to a non-origin would be meaningless.
	PageOrigin string

	// Capability resolves a native prefetcher when the RouterContext does
	// not carry one. Optional.
	Capability CapabilityFunc

	// Diagnostics receives non-fatal dispatch failures. Optional.
	Diagnostics DiagnosticHandler

	// Recorder observes dispatch outcomes. Optional.
	Recorder *Recorder
}

// Dispatch performs one prefetch attempt and reports whether it succeeded.
//
// External targets always fail fast with zero hints, regardless of
// strategy. RouterCustom invokes the supplied callback; a panic inside the
// callback propagates, since the callback belongs to the caller.
// RouterDefault registers two hints, prefetch plus a preconnect for the
// target's origin (the configured PageOrigin for same-origin targets;
// without one the preconnect is skipped). RouterAlternate and every
// unrecognized strategy register exactly one.
// RouterSpecialized prefers rc.Router.Prefetch, then the injected
// capability; with neither it reports a diagnostic and fails.
//
// Failures during hint registration or capability invocation are recovered
// and converted to a false return; Dispatch never panics on its own
// strategies.
func (d *Dispatcher) Dispatch(target string, strategy RouterType, external bool, rc *RouterContext, custom func(string)) bool {
	ok := d.dispatch(target, strategy, external, rc, custom)
	d.Recorder.recordDispatch(strategy, ok)
	return ok
}

func (d *Dispatcher) dispatch(target string, strategy RouterType, external bool, rc *RouterContext, custom func(string)) bool {
	if external {
		emit(d.Diagnostics, DiagExternalSkip, "external target not prefetched", map[string]any{
			"target": target,
		})
		return false
	}

	if strategy == RouterCustom && custom != nil {
		// Deliberately outside the recover below: caller-supplied callback
		// failures are the caller's to handle.
		custom(target)
		return true
	}

	return d.guarded(target, strategy, rc)
}

// guarded runs the package-owned strategies with panic containment.
func (d *Dispatcher) guarded(target string, strategy RouterType, rc *RouterContext) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			emit(d.Diagnostics, DiagHintFailed, "prefetch dispatch panicked", map[string]any{
				"target": target,
				"panic":  fmt.Sprint(r),
			})
			ok = false
		}
	}()

	switch strategy {
	case RouterDefault:
		hints := []ResourceHint{{Rel: "prefetch", Href: target, As: "document"}}
		if o := d.preconnectOrigin(target); o != "" {
			hints = append(hints, ResourceHint{Rel: "preconnect", Href: o})
		}
		return d.addHints(target, hints...)
	case RouterSpecialized:
		fn := d.nativePrefetch(rc)
		if fn == nil {
			emit(d.Diagnostics, DiagNoCapability, "no native prefetch capability for specialized router", map[string]any{
				"target": target,
			})
			return false
		}
		fn(target)
		return true
	default:
		// RouterAlternate and anything unrecognized: single hint, no
		// preconnect.
		return d.addHints(target, ResourceHint{Rel: "prefetch", Href: target, As: "document"})
	}
}

// preconnectOrigin resolves the origin a default-strategy dispatch should
// preconnect. Targets carrying their own host use it; relative targets use
// the configured page origin. Empty means no preconnect hint.
func (d *Dispatcher) preconnectOrigin(target string) string {
	u, err := url.Parse(target)
	if err == nil && u.Host != "" {
		scheme := u.Scheme
		if scheme == "" {
			scheme = "https"
		}
		return scheme + "://" + u.Host
	}
	return d.PageOrigin
}

func (d *Dispatcher) nativePrefetch(rc *RouterContext) PrefetchFunc {
	if rc != nil && rc.Router != nil && rc.Router.Prefetch != nil {
		return rc.Router.Prefetch
	}
	if d.Capability != nil {
		return d.Capability(capabilityName)
	}
	return nil
}

func (d *Dispatcher) addHints(target string, hints ...ResourceHint) bool {
	if d.Sink == nil {
		emit(d.Diagnostics, DiagHintFailed, "no hint sink configured", map[string]any{
			"target": target,
		})
		return false
	}
	for _, h := range hints {
		if err := d.Sink.Add(h); err != nil {
			emit(d.Diagnostics, DiagHintFailed, "hint registration failed", map[string]any{
				"target": target,
				"rel":    h.Rel,
				"error":  err.Error(),
			})
			return false
		}
	}
	return true
}
