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
	"html"
	"regexp"
)

// Option configures a Link.
type Option func(*Link)

// WithMatchMode sets how the current path is compared against the target.
// Default: MatchExact.
func WithMatchMode(mode MatchMode) Option {
	return func(l *Link) { l.mode = mode }
}

// WithPattern sets the compiled pattern consulted by MatchPattern mode and
// switches the link to that mode.
//
// Example:
//
//	link := navlink.New("/products",
//	    navlink.WithPattern(regexp.MustCompile(`^/products/[\w-]+$`)),
//	)
func WithPattern(re *regexp.Regexp) Option {
	return func(l *Link) {
		l.pattern = re
		l.mode = MatchPattern
	}
}

// WithActiveURL overrides the path used for active matching without
// changing where the link navigates. Useful when a link's href carries
// query parameters that should not participate in matching.
func WithActiveURL(target string) Option {
	return func(l *Link) { l.activeURL = CleanURL(target) }
}

// WithActiveFunc supplies a custom activeness predicate. It wins
// unconditionally over mode-based matching. The predicate is trusted: a
// panic inside it propagates to the caller of Active or Render.
func WithActiveFunc(fn func(current, target string) bool) Option {
	return func(l *Link) { l.activeFunc = fn }
}

// WithPrefetch sets the prefetch shorthand resolved through Normalize:
// a bool, a PrefetchConfig, a PrefetchOverride, or a map decoded from a
// menu file.
//
//	navlink.WithPrefetch(false)                          // disable
//	navlink.WithPrefetch(navlink.PrefetchConfig{         // tune
//	    Delay:    100 * time.Millisecond,
//	    Strategy: navlink.RouterAlternate,
//	})
func WithPrefetch(prop any) Option {
	return func(l *Link) { l.prefetchProp = prop }
}

// WithElement selects the host element. Default: ElementAnchor.
func WithElement(element Element) Option {
	return func(l *Link) { l.element = element }
}

// WithCustomTag renders the link as the given element name and switches to
// ElementCustom.
func WithCustomTag(tag string) Option {
	return func(l *Link) {
		l.customTag = tag
		l.element = ElementCustom
	}
}

// WithClasses sets the base class plus the classes appended in the active
// and inactive states. Empty strings are omitted from composition.
func WithClasses(base, active, inactive string) Option {
	return func(l *Link) {
		l.baseClass = base
		l.activeClass = active
		l.inactive = inactive
	}
}

// WithStyle sets an inline style attribute emitted verbatim (escaped).
func WithStyle(style string) Option {
	return func(l *Link) { l.style = style }
}

// WithReplace marks the navigation as history-replacing; rendered as a
// data-replace attribute for the client wiring and passed through to the
// NavigateFunc by Navigator.
func WithReplace() Option {
	return func(l *Link) { l.replace = true }
}

// WithDisabled disables the link: no href, aria-disabled, no prefetch.
func WithDisabled() Option {
	return func(l *Link) { l.disabled = true }
}

// WithNoRedirect marks the link as non-navigating: it renders and matches
// normally but never prefetches (there is nothing to warm).
func WithNoRedirect() Option {
	return func(l *Link) { l.redirect = false }
}

// WithNewTab opens the target in a new tab (target=_blank with
// noopener/noreferrer).
func WithNewTab() Option {
	return func(l *Link) { l.newTab = true }
}

// WithLabel sets plain-text link content, HTML-escaped at option time.
func WithLabel(text string) Option {
	return func(l *Link) { l.content = Static(html.EscapeString(text)) }
}

// WithContent sets the link body: Static markup or Derived content keyed
// on the active state.
//
//	navlink.WithContent(navlink.Derived(func(active bool) string {
//	    if active {
//	        return "<strong>Docs</strong>"
//	    }
//	    return "Docs"
//	}))
func WithContent(content Content) Option {
	return func(l *Link) { l.content = content }
}

// WithAttr adds an extra attribute emitted on the host element. Repeated
// use accumulates; later values win per key.
func WithAttr(key, value string) Option {
	return func(l *Link) {
		if l.extraAttrs == nil {
			l.extraAttrs = make(map[string]string, 4)
		}
		l.extraAttrs[key] = value
	}
}

// WithRouterContext sets the externally owned routing context used for
// location snapshots and native prefetching.
func WithRouterContext(rc *RouterContext) Option {
	return func(l *Link) { l.rc = rc }
}

// WithHintSink sets the sink hint-based prefetch strategies write to.
func WithHintSink(sink HintSink) Option {
	return func(l *Link) { l.sink = sink }
}

// WithPageOrigin sets the scheme://host origin of the serving page, used by
// the default prefetch strategy's preconnect hint. Without it same-origin
// targets get a prefetch hint only.
func WithPageOrigin(origin string) Option {
	return func(l *Link) { l.pageOrigin = origin }
}

// WithCapability injects the native-prefetch lookup for the
// specialized-router strategy.
func WithCapability(fn CapabilityFunc) Option {
	return func(l *Link) { l.capability = fn }
}

// WithDiagnostics sets the handler receiving non-fatal diagnostics.
func WithDiagnostics(h DiagnosticHandler) Option {
	return func(l *Link) { l.diagnostics = h }
}

// WithRecorder sets the metrics recorder observing this link's prefetch
// lifecycle.
func WithRecorder(r *Recorder) Option {
	return func(l *Link) { l.recorder = r }
}
