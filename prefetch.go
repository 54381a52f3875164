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
	"reflect"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// RouterType selects which integration path a session uses to perform
// prefetching.
type RouterType string

const (
	// RouterDefault emits a prefetch resource hint for the target document
	// plus a preconnect hint for its origin. It needs no router cooperation
	// and works with any hint sink.
	RouterDefault RouterType = "default-router"

	// RouterSpecialized calls a router's native prefetch capability, taken
	// from the RouterContext or from an injected capability lookup. If
	// neither is available the dispatch fails (non-fatally).
	RouterSpecialized RouterType = "specialized-router"

	// RouterAlternate emits a single prefetch hint with no preconnect, for
	// routers that resolve origins themselves. Unrecognized RouterType
	// values behave identically to RouterAlternate.
	RouterAlternate RouterType = "alternate-router"

	// RouterCustom delegates prefetching entirely to a caller-supplied
	// callback.
	RouterCustom RouterType = "custom"
)

// DefaultPrefetchDelay is the hover-to-dispatch delay applied when no
// override is given.
const DefaultPrefetchDelay = 200 * time.Millisecond

// PrefetchConfig is the resolved prefetch configuration for one link.
type PrefetchConfig struct {
	// Enabled gates all scheduling. A disabled session ignores Start.
	Enabled bool `mapstructure:"enabled"`

	// Delay is how long a hover must be held before dispatch fires.
	Delay time.Duration `mapstructure:"delay"`

	// Strategy selects the integration path used on dispatch.
	Strategy RouterType `mapstructure:"strategy"`

	// Custom is the callback invoked by the RouterCustom strategy.
	Custom func(target string) `mapstructure:"-"`
}

// PrefetchOverride is a partial PrefetchConfig. Nil fields keep the default;
// set fields override it. Unlike PrefetchConfig, it can express an explicit
// Enabled=false.
type PrefetchOverride struct {
	Enabled  *bool
	Delay    *time.Duration
	Strategy RouterType
	Custom   func(target string)
}

// DefaultPrefetchConfig returns the configuration used when a link gives no
// prefetch override: enabled, 200ms delay, default-router strategy.
func DefaultPrefetchConfig() PrefetchConfig {
	return PrefetchConfig{
		Enabled:  true,
		Delay:    DefaultPrefetchDelay,
		Strategy: RouterDefault,
	}
}

// Normalize resolves a caller-supplied prefetch shorthand into a complete
// PrefetchConfig. It accepts:
//
//   - nil: the defaults verbatim
//   - bool: the defaults with Enabled overridden
//   - PrefetchConfig or *PrefetchConfig: non-zero fields override defaults
//   - PrefetchOverride or *PrefetchOverride: set (non-nil) fields override
//   - map[string]any: merged over the defaults and decoded; keys "enabled",
//     "delay" (duration string or millisecond count), "strategy". This is the
//     form menu files produce.
//
// Anything else resolves to the defaults (an optional diagnostic is emitted
// by callers that pass a handler to NormalizeWith). Normalize never returns
// an error; malformed map fields keep their defaults.
func Normalize(prop any) PrefetchConfig {
	return NormalizeWith(prop, nil)
}

// NormalizeWith is Normalize with a diagnostic handler for reporting
// unrecognized shorthand types and undecodable map fields.
func NormalizeWith(prop any, diag DiagnosticHandler) PrefetchConfig {
	cfg := DefaultPrefetchConfig()
	switch v := prop.(type) {
	case nil:
		return cfg
	case bool:
		cfg.Enabled = v
		return cfg
	case PrefetchConfig:
		return mergeConfig(cfg, v, diag)
	case *PrefetchConfig:
		if v == nil {
			return cfg
		}
		return mergeConfig(cfg, *v, diag)
	case PrefetchOverride:
		return applyOverride(cfg, v)
	case *PrefetchOverride:
		if v == nil {
			return cfg
		}
		return applyOverride(cfg, *v)
	case map[string]any:
		return mergeConfigMap(cfg, v, diag)
	default:
		emit(diag, DiagBadPrefetch, "unrecognized prefetch shorthand, using defaults", map[string]any{
			"type": fmt.Sprintf("%T", prop),
		})
		return cfg
	}
}

func mergeConfig(dst, src PrefetchConfig, diag DiagnosticHandler) PrefetchConfig {
	// Non-zero src fields win. A zero Enabled cannot be distinguished from
	// "unset" on the struct form; explicit disable goes through the bool or
	// PrefetchOverride forms.
	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		emit(diag, DiagBadPrefetch, "prefetch config merge failed, using defaults", map[string]any{
			"error": err.Error(),
		})
		return DefaultPrefetchConfig()
	}
	return dst
}

func applyOverride(cfg PrefetchConfig, ov PrefetchOverride) PrefetchConfig {
	if ov.Enabled != nil {
		cfg.Enabled = *ov.Enabled
	}
	if ov.Delay != nil {
		cfg.Delay = *ov.Delay
	}
	if ov.Strategy != "" {
		cfg.Strategy = ov.Strategy
	}
	if ov.Custom != nil {
		cfg.Custom = ov.Custom
	}
	return cfg
}

func mergeConfigMap(cfg PrefetchConfig, override map[string]any, diag DiagnosticHandler) PrefetchConfig {
	values := map[string]any{
		"enabled":  cfg.Enabled,
		"delay":    cfg.Delay,
		"strategy": string(cfg.Strategy),
	}
	if err := mergo.Map(&values, override, mergo.WithOverride); err != nil {
		emit(diag, DiagBadPrefetch, "prefetch map merge failed, using defaults", map[string]any{
			"error": err.Error(),
		})
		return cfg
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		DecodeHook: prefetchDecodeHook,
	})
	if err == nil {
		err = decoder.Decode(values)
	}
	if err != nil {
		emit(diag, DiagBadPrefetch, "prefetch map decode failed, using defaults", map[string]any{
			"error": err.Error(),
		})
		return DefaultPrefetchConfig()
	}
	return cfg
}

// prefetchDecodeHook coerces the loosely-typed values menu files produce:
// "enabled" accepts bool-ish strings and numbers, "delay" accepts a duration
// string ("150ms") or a bare number of milliseconds.
func prefetchDecodeHook(from, to reflect.Type, data any) (any, error) {
	switch to {
	case reflect.TypeOf(time.Duration(0)):
		if from.Kind() == reflect.String {
			return time.ParseDuration(data.(string))
		}
		if d, ok := data.(time.Duration); ok {
			return d, nil
		}
		ms, err := cast.ToInt64E(data)
		if err != nil {
			return nil, err
		}
		return time.Duration(ms) * time.Millisecond, nil
	case reflect.TypeOf(true):
		return cast.ToBoolE(data)
	}
	return data, nil
}
