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

func TestNormalize_Nil(t *testing.T) {
	cfg := Normalize(nil)

	assert.Equal(t, DefaultPrefetchConfig(), cfg)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Delay)
	assert.Equal(t, RouterDefault, cfg.Strategy)
}

func TestNormalize_BoolShorthand(t *testing.T) {
	on := Normalize(true)
	assert.True(t, on.Enabled)
	assert.Equal(t, 200*time.Millisecond, on.Delay)
	assert.Equal(t, RouterDefault, on.Strategy)

	off := Normalize(false)
	assert.False(t, off.Enabled)
	// Only Enabled moves; delay and strategy keep their defaults.
	assert.Equal(t, 200*time.Millisecond, off.Delay)
	assert.Equal(t, RouterDefault, off.Strategy)
}

func TestNormalize_PartialConfig(t *testing.T) {
	cfg := Normalize(PrefetchConfig{
		Delay:    100 * time.Millisecond,
		Strategy: RouterSpecialized,
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay)
	assert.Equal(t, RouterSpecialized, cfg.Strategy)
}

func TestNormalize_PartialConfigKeepsAbsentFields(t *testing.T) {
	cfg := Normalize(PrefetchConfig{Strategy: RouterAlternate})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Delay)
	assert.Equal(t, RouterAlternate, cfg.Strategy)
}

func TestNormalize_Override(t *testing.T) {
	enabled := false
	delay := 50 * time.Millisecond
	cfg := Normalize(PrefetchOverride{Enabled: &enabled, Delay: &delay})

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 50*time.Millisecond, cfg.Delay)
	assert.Equal(t, RouterDefault, cfg.Strategy)
}

func TestNormalize_OverrideCustomCallback(t *testing.T) {
	var got string
	cfg := Normalize(PrefetchOverride{
		Strategy: RouterCustom,
		Custom:   func(target string) { got = target },
	})

	require.NotNil(t, cfg.Custom)
	cfg.Custom("/pricing")
	assert.Equal(t, "/pricing", got)
	assert.Equal(t, RouterCustom, cfg.Strategy)
}

func TestNormalize_Map(t *testing.T) {
	cfg := Normalize(map[string]any{
		"delay":    "100ms",
		"strategy": "alternate-router",
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay)
	assert.Equal(t, RouterAlternate, cfg.Strategy)
}

// TestNormalize_MapCoercions verifies the loose typing menu files produce:
// millisecond counts for delay, stringly bools for enabled.
func TestNormalize_MapCoercions(t *testing.T) {
	cfg := Normalize(map[string]any{
		"enabled": "false",
		"delay":   150,
	})

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 150*time.Millisecond, cfg.Delay)
	assert.Equal(t, RouterDefault, cfg.Strategy)
}

func TestNormalize_UnrecognizedShorthand(t *testing.T) {
	var events []DiagnosticEvent
	handler := DiagnosticHandlerFunc(func(e DiagnosticEvent) { events = append(events, e) })

	cfg := NormalizeWith(42, handler)

	assert.Equal(t, DefaultPrefetchConfig(), cfg)
	require.Len(t, events, 1)
	assert.Equal(t, DiagBadPrefetch, events[0].Kind)
}

func TestNormalize_NilPointers(t *testing.T) {
	assert.Equal(t, DefaultPrefetchConfig(), Normalize((*PrefetchConfig)(nil)))
	assert.Equal(t, DefaultPrefetchConfig(), Normalize((*PrefetchOverride)(nil)))
}
