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


// Package mock provides test doubles for the ai package interfaces.
//
// These mocks let tests run without external AI services. They record every
// request and allow custom behavior injection through function fields.
//
// # Usage
//
//	provider := mock.NewMockProvider()
//	writer := provider.GetMockAgent(ai.WriterAgent)
//	writer.ProcessFunc = func(ctx context.Context, req ai.Request) (*ai.Response, error) {
//	    return &ai.Response{Status: ai.StatusSuccess, Result: "custom"}, nil
//	}
//
//	// Check call counts
//	count := writer.CallCount()
//
// # Default Behavior
//
//   - writer: Returns the content prefixed with the requested style
//   - reviewer: Returns a fixed review with an overall score of 0.75
package mock
