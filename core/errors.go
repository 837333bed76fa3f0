// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidOutput indicates an Output failed validation.
	ErrInvalidOutput = errors.New("invalid output")

	// ErrInvalidFeedbackScore indicates a feedback score outside [0,1].
	ErrInvalidFeedbackScore = errors.New("feedback score must be between 0 and 1")

	// ErrEmptyDigest indicates a missing digest.
	ErrEmptyDigest = errors.New("digest cannot be empty")

	// ErrEmptyOutputType indicates the Output Type field is empty.
	ErrEmptyOutputType = errors.New("output type cannot be empty")

	// ErrEmptyContent indicates a Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrMalformedRecord indicates serialized bytes could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
)
