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

// Package navlink provides navigation-link widgets for server-rendered Go
// web applications.
//
// A navigation link has two behaviors beyond a plain anchor: it knows whether
// it points at the page currently being viewed (active-route detection), and
// it can speculatively warm its target before the user commits to navigating
// (prefetch). This package implements both, plus the presentational glue that
// turns them into markup: attribute assembly, class composition, ARIA state,
// and rendering to an anchor, span, or custom element.
//
// # Active-route detection
//
// Active state is computed by a fixed registry of match modes:
//
//   - exact: current path equals the link target
//   - startsWith: current path begins with the link target
//   - includes: current path contains the link target
//   - pattern: a caller-supplied regular expression matches the current path
//
// An unrecognized mode falls back to includes matching. This permissive
// default is deliberate and tested; see IsActive.
//
//	active := navlink.IsActive("/docs/router", "/docs", navlink.MatchStartsWith, nil)
//
// # Prefetch
//
// Each link owns a Session: a small state machine that converts a
// hover-enter signal into, after a configurable delay, exactly one dispatch
// to a prefetch strategy. Hover-leave or teardown before the delay elapses
// cancels the pending dispatch. Once a dispatch succeeds the session is done;
// further hover signals are no-ops.
//
//	s := navlink.NewSession(
//	    navlink.WithSessionTarget("/pricing"),
//	    navlink.WithSessionSink(sink),
//	)
//	defer s.Close()
//
//	s.Start()  // pointer enter
//	s.Cancel() // pointer leave
//
// Strategies cover the common integration paths: emitting prefetch and
// preconnect resource hints (Link headers, 103 Early Hints, or inline <link>
// tags), calling a router's native prefetch capability, or invoking a
// caller-supplied callback. See Dispatcher.
//
// # Rendering
//
// Link composes the pieces:
//
//	link := navlink.New("/pricing",
//	    navlink.WithMatchMode(navlink.MatchExact),
//	    navlink.WithClasses("nav-item", "nav-item--active", ""),
//	)
//	_ = link.Render(w, currentPath)
//
// # Constructor pattern
//
// New returns *Link with no error: construction allocates and applies
// options, nothing more. Operations that touch external systems (hint sinks,
// meter providers) return errors at the point of use. All configuration
// options use the "With" prefix.
//
// # Observability
//
// Scheduling, cancellation, and dispatch outcomes are recorded through an
// optional Recorder (OpenTelemetry metrics, with Prometheus, OTLP, and stdout
// providers) and surfaced as DiagnosticEvent values through an optional
// DiagnosticHandler. The package functions identically whether or not either
// is configured.
package navlink
