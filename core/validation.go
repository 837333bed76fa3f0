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

import (
	"fmt"
	"math"
)

// ValidateOutput validates an Output according to domain rules.
//
// Validation rules:
//   - Digest must not be empty
//   - Type must not be empty
//   - Content must not be empty
//
// NOT validated (populated by storage):
//   - ID
//   - Timestamp
func ValidateOutput(output *Output) error {
	if output == nil {
		return fmt.Errorf("%w: output is nil", ErrInvalidOutput)
	}

	if output.Digest == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, ErrEmptyDigest)
	}

	if output.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, ErrEmptyOutputType)
	}

	if output.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, ErrEmptyContent)
	}

	return nil
}

// ValidateFeedbackScore checks that a score is a finite value in [0,1].
func ValidateFeedbackScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidFeedbackScore, score)
	}
	return nil
}
