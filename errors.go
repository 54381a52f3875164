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

import "errors"

var (
	// ErrEmptyHref indicates that a link was built without a target path.
	ErrEmptyHref = errors.New("link href is empty")

	// ErrNilSink indicates that a hint was dispatched without a configured sink.
	ErrNilSink = errors.New("hint sink is nil")

	// ErrNilWriter indicates that a sink or renderer was given a nil writer.
	ErrNilWriter = errors.New("writer is nil")

	// ErrNoCapability indicates that no native prefetch capability was found
	// for the specialized-router strategy.
	ErrNoCapability = errors.New("no prefetch capability available")

	// ErrHintRejected indicates that the sink refused a resource hint.
	ErrHintRejected = errors.New("resource hint rejected")

	// ErrUnsupportedProvider indicates an unknown metrics provider name.
	ErrUnsupportedProvider = errors.New("unsupported metrics provider")

	// ErrMenuFormat indicates that a menu file has an unrecognized extension.
	ErrMenuFormat = errors.New("unrecognized menu file format")

	// ErrMenuInvalid indicates that a menu definition failed validation.
	ErrMenuInvalid = errors.New("menu definition invalid")
)
