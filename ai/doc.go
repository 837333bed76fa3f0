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


// Package ai provides abstractions for the language model agents used by Vestige.
//
// Agents rewrite or evaluate document content. Every provider registers two:
//
//   - writer: rewrites content in a requested style and length
//   - reviewer: scores content against review criteria and returns a JSON report
//
// Agents are looked up by name through a Provider, so callers depend on the
// Agent interface rather than a concrete model client.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// openai.NewProvider returns the ai.Provider interface. mock.NewMockProvider
// returns a concrete type so tests can reach the mock agents for assertions.
//
// # Usage Example
//
//	provider, err := openai.NewProvider(ai.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	writer, _ := provider.Agent(ai.WriterAgent)
//	resp, err := writer.Process(ctx, ai.Request{
//	    Content:    "The sun rose over the hills.",
//	    Parameters: map[string]string{ai.ParamStyle: "poetic"},
//	})
package ai
