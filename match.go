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
	"regexp"
	"strings"
)

// MatchMode selects the strategy used to compare the current path against a
// link's target to decide whether the link is active.
type MatchMode string

const (
	// MatchExact marks a link active only when the current path equals the
	// target exactly.
	MatchExact MatchMode = "exact"

	// MatchStartsWith marks a link active when the current path begins with
	// the target. Useful for section links: "/docs" stays active on
	// "/docs/router".
	MatchStartsWith MatchMode = "startsWith"

	// MatchIncludes marks a link active when the current path contains the
	// target anywhere as a substring.
	MatchIncludes MatchMode = "includes"

	// MatchPattern marks a link active when a caller-supplied regular
	// expression matches the current path. Without a pattern the link is
	// never active.
	MatchPattern MatchMode = "pattern"
)

// MatchFunc is a predicate deciding activeness from the current path, the
// target path, and an optional compiled pattern (used by MatchPattern only).
type MatchFunc func(current, target string, re *regexp.Regexp) bool

// matchers is the predicate registry. It is built once and never mutated,
// so unsynchronized concurrent reads are safe.
var matchers = map[MatchMode]MatchFunc{
	MatchExact: func(current, target string, _ *regexp.Regexp) bool {
		return current == target
	},
	MatchStartsWith: func(current, target string, _ *regexp.Regexp) bool {
		return strings.HasPrefix(current, target)
	},
	MatchIncludes: func(current, target string, _ *regexp.Regexp) bool {
		return strings.Contains(current, target)
	},
	MatchPattern: func(current, _ string, re *regexp.Regexp) bool {
		if re == nil {
			return false
		}
		return re.MatchString(current)
	},
}

// IsActive reports whether a link targeting target is active for the given
// current path under the given match mode. The pattern argument is consulted
// only for MatchPattern; a nil pattern there yields false.
//
// An unrecognized mode falls back to MatchIncludes. The fallback is a
// documented permissive default rather than an error: for every mode outside
// the four known values, IsActive(current, target, mode, nil) equals
// IsActive(current, target, MatchIncludes, nil). IsActive never panics and
// never returns an error.
func IsActive(current, target string, mode MatchMode, re *regexp.Regexp) bool {
	fn, ok := matchers[mode]
	if !ok {
		fn = matchers[MatchIncludes]
	}
	return fn(current, target, re)
}

// IsActiveFunc decides activeness with a caller-supplied predicate instead of
// a match mode. The predicate is trusted: it is called directly, and a panic
// inside it propagates to the caller.
func IsActiveFunc(current, target string, fn func(current, target string) bool) bool {
	return fn(current, target)
}

// CleanURL normalizes a raw path for use as a link target. A path already
// rooted at "/" is returned unchanged; anything else gets "/" prepended.
// The empty string maps to "/".
func CleanURL(raw string) string {
	if raw == "" {
		return "/"
	}
	if strings.HasPrefix(raw, "/") {
		return raw
	}
	return "/" + raw
}
