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
	"html"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ResourceHint is one speculative-loading hint: the wire-level contract
// between a prefetch dispatch and the host page. Rel and Href are always
// set; As and CrossOrigin only when meaningful for the rel type.
type ResourceHint struct {
	Rel         string // "prefetch" or "preconnect"
	Href        string
	As          string // "document" for prefetch hints
	CrossOrigin string
}

// HintSink registers resource hints with the document being produced.
// Implementations decide the carrier: response headers, a 103 Early Hints
// interim response, or inline <link> markup.
//
// Add returns an error when the hint cannot be registered; dispatch treats
// that as a non-fatal failure.
type HintSink interface {
	Add(hint ResourceHint) error
}

// headerValue renders the hint in Link header syntax (RFC 8288).
func (h ResourceHint) headerValue() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s>; rel=%s", h.Href, h.Rel)
	if h.As != "" {
		fmt.Fprintf(&b, "; as=%s", h.As)
	}
	if h.CrossOrigin != "" {
		fmt.Fprintf(&b, "; crossorigin=%s", h.CrossOrigin)
	}
	return b.String()
}

// HeaderSink appends hints as Link headers on an http.Header. It is the
// usual carrier for server-rendered pages: the browser starts fetching
// before it parses the body.
type HeaderSink struct {
	header http.Header
}

// NewHeaderSink returns a sink writing to the given header map, typically
// w.Header() of the in-flight response.
func NewHeaderSink(header http.Header) *HeaderSink {
	return &HeaderSink{header: header}
}

func (s *HeaderSink) Add(hint ResourceHint) error {
	if s == nil || s.header == nil {
		return ErrNilSink
	}
	s.header.Add("Link", hint.headerValue())
	return nil
}

// EarlyHintSink sends each hint immediately as part of a 103 Early Hints
// interim response. Hints reach the browser before the final response is
// even ready, which is the lowest-latency carrier available.
//
// Flush must be called after the hints for one navigation burst are added;
// it emits the interim response. Adding after the final response status has
// been written is a no-op at the HTTP layer, so callers should register
// hints before the handler writes.
type EarlyHintSink struct {
	w       http.ResponseWriter
	pending bool
}

// NewEarlyHintSink returns a sink emitting 103 responses on w.
func NewEarlyHintSink(w http.ResponseWriter) *EarlyHintSink {
	return &EarlyHintSink{w: w}
}

func (s *EarlyHintSink) Add(hint ResourceHint) error {
	if s == nil || s.w == nil {
		return ErrNilSink
	}
	s.w.Header().Add("Link", hint.headerValue())
	s.pending = true
	return nil
}

// Flush writes the interim 103 response carrying all hints added since the
// last flush. No-op when nothing is pending.
func (s *EarlyHintSink) Flush() {
	if s == nil || s.w == nil || !s.pending {
		return
	}
	s.w.WriteHeader(http.StatusEarlyHints)
	s.pending = false
}

// ElementSink renders hints as <link> elements on an io.Writer, for
// inclusion in the <head> of a server-rendered document. Attribute values
// are HTML-escaped.
type ElementSink struct {
	w io.Writer
}

// NewElementSink returns a sink writing <link> tags to w.
func NewElementSink(w io.Writer) *ElementSink {
	return &ElementSink{w: w}
}

func (s *ElementSink) Add(hint ResourceHint) error {
	if s == nil || s.w == nil {
		return ErrNilWriter
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<link rel="%s" href="%s"`, html.EscapeString(hint.Rel), html.EscapeString(hint.Href))
	if hint.As != "" {
		fmt.Fprintf(&b, ` as="%s"`, html.EscapeString(hint.As))
	}
	if hint.CrossOrigin != "" {
		fmt.Fprintf(&b, ` crossorigin="%s"`, html.EscapeString(hint.CrossOrigin))
	}
	b.WriteString(">")
	_, err := io.WriteString(s.w, b.String())
	return err
}

// RecorderSink records hints for inspection. It is safe for concurrent use
// and is the sink the package tests assert against.
type RecorderSink struct {
	mu    sync.Mutex
	hints []ResourceHint

	// FailWith, when non-nil, is returned by every Add without recording.
	// Tests use it to exercise the dispatch failure path.
	FailWith error
}

// NewRecorderSink returns an empty recorder.
func NewRecorderSink() *RecorderSink {
	return &RecorderSink{}
}

func (s *RecorderSink) Add(hint ResourceHint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.hints = append(s.hints, hint)
	return nil
}

// Hints returns a copy of everything recorded so far.
func (s *RecorderSink) Hints() []ResourceHint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ResourceHint, len(s.hints))
	copy(out, s.hints)
	return out
}

// Len reports how many hints have been recorded.
func (s *RecorderSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hints)
}
