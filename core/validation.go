// Copyright 2025 Venetia Project
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
	"strings"
)

// maxTermLength bounds concept terms; anything longer is not a term but a
// sentence, and the expansion prompt expects a term.
const maxTermLength = 80

// ValidateMessage validates a chat message before any external calls are made.
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	return nil
}

// ValidateTerm validates a concept term before expansion.
//
// Validation rules:
//   - must be non-empty after trimming
//   - must not exceed 80 characters
func ValidateTerm(term string) error {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return fmt.Errorf("%w: term is required", ErrInvalidInput)
	}
	if len(trimmed) > maxTermLength {
		return fmt.Errorf("%w: term exceeds %d characters", ErrInvalidInput, maxTermLength)
	}
	return nil
}

// ValidateExpansion checks that an expansion is usable downstream.
//
// A missing definition is a hard failure: every downstream field feeds the
// embedding text, and a definition-less expansion embeds as noise.
func ValidateExpansion(expansion *ConceptExpansion) error {
	if expansion == nil {
		return fmt.Errorf("%w: expansion is nil", ErrExpansionIncomplete)
	}
	if strings.TrimSpace(expansion.Definition) == "" {
		return fmt.Errorf("%w: definition is empty for term %q", ErrExpansionIncomplete, expansion.Term)
	}
	return nil
}
