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

import "log/slog"

// DiagnosticEvent represents a navlink diagnostic or anomaly.
// These are informational events that may indicate configuration issues:
// a pattern-mode link without a pattern, a specialized-router link without
// a prefetch capability, a link built with an empty href.
//
// Diagnostic events are optional - links and sessions function correctly
// whether they are collected or not. Every condition reported here also has
// a defined degraded behavior (inactive link, skipped prefetch, span render),
// so collection is purely for visibility.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// Configuration diagnostics
	DiagEmptyHref      DiagnosticKind = "link_href_empty"
	DiagMissingPattern DiagnosticKind = "match_pattern_missing"
	DiagUnknownMode    DiagnosticKind = "match_mode_unknown"
	DiagBadPrefetch    DiagnosticKind = "prefetch_config_unrecognized"

	// Dispatch diagnostics
	DiagNoCapability DiagnosticKind = "prefetch_capability_missing"
	DiagHintFailed   DiagnosticKind = "prefetch_hint_failed"
	DiagExternalSkip DiagnosticKind = "prefetch_external_skipped"
)

// DiagnosticHandler receives diagnostic events from links, sessions, and
// dispatchers. Implementations may log, emit metrics, trace events, or
// ignore them.
//
// This interface is optional - if not provided, diagnostics are silently
// dropped.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := navlink.DiagnosticHandlerFunc(func(e navlink.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	link := navlink.New("/docs", navlink.WithDiagnostics(handler))
//
// Example with metrics:
//
//	handler := navlink.DiagnosticHandlerFunc(func(e navlink.DiagnosticEvent) {
//	    metrics.Increment("navlink.diagnostics", "kind", string(e.Kind))
//	})
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

// SlogDiagnostics returns a DiagnosticHandler that logs every event at Warn
// level through the given logger. A nil logger uses slog.Default().
func SlogDiagnostics(logger *slog.Logger) DiagnosticHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		attrs := make([]any, 0, 2+2*len(e.Fields))
		attrs = append(attrs, "kind", string(e.Kind))
		for k, v := range e.Fields {
			attrs = append(attrs, k, v)
		}
		logger.Warn(e.Message, attrs...)
	})
}

// emit sends an event to a possibly-nil handler.
func emit(h DiagnosticHandler, kind DiagnosticKind, msg string, fields map[string]any) {
	if h == nil {
		return
	}
	h.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: msg, Fields: fields})
}
