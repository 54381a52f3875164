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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSink_WritesLinkHeaders(t *testing.T) {
	header := http.Header{}
	sink := NewHeaderSink(header)

	require.NoError(t, sink.Add(ResourceHint{Rel: "prefetch", Href: "/pricing", As: "document"}))
	require.NoError(t, sink.Add(ResourceHint{Rel: "preconnect", Href: "https://cdn.example.com"}))

	values := header.Values("Link")
	require.Len(t, values, 2)
	assert.Equal(t, "</pricing>; rel=prefetch; as=document", values[0])
	assert.Equal(t, "<https://cdn.example.com>; rel=preconnect", values[1])
}

func TestHeaderSink_NilHeaderFails(t *testing.T) {
	sink := NewHeaderSink(nil)
	assert.ErrorIs(t, sink.Add(ResourceHint{Rel: "prefetch", Href: "/x"}), ErrNilSink)
}

func TestEarlyHintSink_Emits103(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewEarlyHintSink(rec)

	require.NoError(t, sink.Add(ResourceHint{Rel: "prefetch", Href: "/pricing", As: "document"}))
	sink.Flush()

	// The recorder captures the interim status as its code; the Link
	// header is what reaches the client.
	assert.Equal(t, http.StatusEarlyHints, rec.Code)
	assert.Equal(t, "</pricing>; rel=prefetch; as=document", rec.Header().Get("Link"))
}

func TestEarlyHintSink_FlushWithoutHintsIsNoop(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewEarlyHintSink(rec)

	sink.Flush()

	assert.Equal(t, http.StatusOK, rec.Code, "recorder default untouched")
}

func TestElementSink_RendersLinkTags(t *testing.T) {
	var b strings.Builder
	sink := NewElementSink(&b)

	require.NoError(t, sink.Add(ResourceHint{Rel: "prefetch", Href: "/pricing", As: "document"}))
	require.NoError(t, sink.Add(ResourceHint{Rel: "preconnect", Href: "https://cdn.example.com", CrossOrigin: "anonymous"}))

	out := b.String()
	assert.Contains(t, out, `<link rel="prefetch" href="/pricing" as="document">`)
	assert.Contains(t, out, `<link rel="preconnect" href="https://cdn.example.com" crossorigin="anonymous">`)
}

func TestElementSink_EscapesAttributeValues(t *testing.T) {
	var b strings.Builder
	sink := NewElementSink(&b)

	require.NoError(t, sink.Add(ResourceHint{Rel: "prefetch", Href: `/a"><script>`}))

	assert.NotContains(t, b.String(), `"><script>`)
}

func TestRecorderSink_RecordsAndCopies(t *testing.T) {
	sink := NewRecorderSink()
	require.NoError(t, sink.Add(ResourceHint{Rel: "prefetch", Href: "/a"}))

	hints := sink.Hints()
	require.Len(t, hints, 1)

	// Mutating the returned slice must not affect the recorder.
	hints[0].Href = "/mutated"
	assert.Equal(t, "/a", sink.Hints()[0].Href)
}
