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
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Element selects which host element a link renders as.
type Element string

const (
	// ElementAnchor renders a plain <a>.
	ElementAnchor Element = "anchor"

	// ElementSpan renders a non-navigable <span>; active state and classes
	// still apply but no href is emitted.
	ElementSpan Element = "span"

	// ElementCustom renders the tag given with WithCustomTag.
	ElementCustom Element = "custom"

	// ElementRouter renders an <a> carrying a data-router-link attribute so
	// client-side router wiring can intercept the click.
	ElementRouter Element = "router"
)

// Content is the link body: either fixed markup or markup derived from the
// link's active state at render time.
type Content interface {
	resolve(active bool) string
}

type staticContent string

func (c staticContent) resolve(bool) string { return string(c) }

// Static returns fixed link content. The markup is emitted as-is; callers
// escape their own untrusted input (or use WithLabel, which escapes).
func Static(markup string) Content { return staticContent(markup) }

type derivedContent func(active bool) string

func (c derivedContent) resolve(active bool) string { return c(active) }

// Derived returns content computed from the active state at render time.
func Derived(fn func(active bool) string) Content { return derivedContent(fn) }

// Link is one navigation link instance: a target path plus the matching,
// prefetch, and presentation configuration that turns it into markup.
//
// A Link is built once with New and is safe for concurrent reads; its
// prefetch Session carries all mutable state.
type Link struct {
	href       string
	external   bool
	mode       MatchMode
	pattern    *regexp.Regexp
	activeURL  string
	activeFunc func(current, target string) bool

	prefetchProp any
	element      Element
	customTag    string
	baseClass    string
	activeClass  string
	inactive     string
	style        string
	replace      bool
	disabled     bool
	redirect     bool
	newTab       bool
	content      Content
	extraAttrs   map[string]string

	rc          *RouterContext
	sink        HintSink
	pageOrigin  string
	capability  CapabilityFunc
	diagnostics DiagnosticHandler
	recorder    *Recorder

	sessionOnce sync.Once
	session     *Session
}

// New creates a link for the given target path. Relative targets are
// normalized with CleanURL; absolute and protocol-relative targets are kept
// verbatim and marked external. An empty href is tolerated at construction:
// the link renders as a non-navigable span and reports a diagnostic, per
// the degrade-don't-crash policy.
func New(href string, opts ...Option) *Link {
	l := &Link{
		href:     href,
		external: IsExternal(href),
		mode:     MatchExact,
		element:  ElementAnchor,
		redirect: true,
	}
	if href != "" && !l.external {
		l.href = CleanURL(href)
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.href == "" {
		emit(l.diagnostics, DiagEmptyHref, "link built with empty href renders as span", nil)
	}
	if l.mode == MatchPattern && l.pattern == nil {
		emit(l.diagnostics, DiagMissingPattern, "pattern match mode without a pattern never activates", map[string]any{
			"href": l.href,
		})
	}
	return l
}

// Href returns the link's normalized target path.
func (l *Link) Href() string { return l.href }

// External reports whether the target leaves the page's origin.
func (l *Link) External() bool { return l.external }

// Active reports whether the link is active for the given current path.
// A custom active function wins unconditionally over mode matching;
// otherwise the effective target is the ActiveURL override when set, else
// the href.
func (l *Link) Active(current string) bool {
	if l.activeFunc != nil {
		return IsActiveFunc(current, l.href, l.activeFunc)
	}
	target := l.href
	if l.activeURL != "" {
		target = l.activeURL
	}
	return IsActive(current, target, l.mode, l.pattern)
}

// ActiveFromContext computes Active against the router context's location.
// Without a known location the link is always inactive.
func (l *Link) ActiveFromContext() bool {
	current, ok := l.rc.CurrentPath()
	if !ok {
		return false
	}
	return l.Active(current)
}

// ClassNames composes the class attribute for the given active state:
// the base class plus the active or inactive class.
func (l *Link) ClassNames(active bool) string {
	parts := make([]string, 0, 2)
	if l.baseClass != "" {
		parts = append(parts, l.baseClass)
	}
	if active && l.activeClass != "" {
		parts = append(parts, l.activeClass)
	} else if !active && l.inactive != "" {
		parts = append(parts, l.inactive)
	}
	return strings.Join(parts, " ")
}

// Attributes assembles the host element's attributes for the given current
// path. The caller (or Render) attaches them; nothing here touches the
// router context's navigation function.
func (l *Link) Attributes(current string) map[string]string {
	active := l.Active(current)
	attrs := make(map[string]string, 8)

	if l.navigable() {
		attrs["href"] = l.href
	}
	if class := l.ClassNames(active); class != "" {
		attrs["class"] = class
	}
	if l.style != "" {
		attrs["style"] = l.style
	}
	if active {
		attrs["aria-current"] = "page"
	}
	if l.disabled {
		attrs["aria-disabled"] = "true"
	}
	if l.newTab {
		attrs["target"] = "_blank"
		attrs["rel"] = "noopener noreferrer"
	} else if l.external {
		attrs["rel"] = "noopener"
	}
	if l.replace {
		attrs["data-replace"] = "true"
	}
	if l.element == ElementRouter {
		attrs["data-router-link"] = "true"
	}
	for k, v := range l.extraAttrs {
		attrs[k] = v
	}
	return attrs
}

// navigable reports whether the link may carry an href: it needs a target,
// must not be disabled, and must not be rendered as a bare span.
func (l *Link) navigable() bool {
	return l.href != "" && !l.disabled && l.element != ElementSpan
}

// tag resolves the rendered element name.
func (l *Link) tag() string {
	switch l.element {
	case ElementSpan:
		return "span"
	case ElementCustom:
		if l.customTag != "" {
			return l.customTag
		}
		return "span"
	default:
		if !l.navigable() {
			// No href to carry: degrade the anchor to a span rather than
			// emit a dead <a>.
			return "span"
		}
		return "a"
	}
}

// Render writes the link's markup for the given current path. Attribute
// values and labels are escaped; Static and Derived content is emitted
// as-is. Render reports writer errors and nothing else; bad configuration
// degrades per the package's error policy instead of failing the render.
func (l *Link) Render(w io.Writer, current string) error {
	if w == nil {
		return ErrNilWriter
	}

	tag := l.tag()
	attrs := l.Attributes(current)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, k, html.EscapeString(attrs[k]))
	}
	b.WriteString(">")
	if l.content != nil {
		b.WriteString(l.content.resolve(l.Active(current)))
	}
	fmt.Fprintf(&b, "</%s>", tag)

	_, err := io.WriteString(w, b.String())
	return err
}

// Session returns the link's prefetch session, building it on first use
// from the link's configuration. The same session is returned for the life
// of the link; Close it on teardown.
func (l *Link) Session() *Session {
	l.sessionOnce.Do(func() {
		opts := []SessionOption{
			WithSessionConfig(NormalizeWith(l.prefetchProp, l.diagnostics)),
			WithSessionRouterContext(l.rc),
			WithSessionSink(l.sink),
			WithSessionOrigin(l.pageOrigin),
			WithSessionCapability(l.capability),
			WithSessionDiagnostics(l.diagnostics),
			WithSessionRecorder(l.recorder),
			WithSessionDisabled(l.disabled),
		}
		if !l.redirect {
			opts = append(opts, WithSessionNoRedirect())
		}
		s := NewSession(opts...)
		// Target assignment bypasses WithSessionTarget: the link already
		// normalized the href and resolved externality.
		s.target = l.href
		s.external = l.external
		l.session = s
	})
	return l.session
}
