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


package mock

import (
	"sort"

	"github.com/poiesic/vestige/ai"
)

// MockProvider is a test double for ai.Provider.
// It registers a mock writer and reviewer.
type MockProvider struct {
	agents map[string]*MockAgent
	closed bool
}

// NewMockProvider creates a new mock provider with the default mock agents.
//
// Returns the concrete type so tests can reach the agents through GetMockAgent.
func NewMockProvider() *MockProvider {
	return NewMockProviderWithAgents(NewMockAgent(ai.WriterAgent), NewMockAgent(ai.ReviewerAgent))
}

// NewMockProviderWithAgents creates a mock provider with custom mock agents.
func NewMockProviderWithAgents(agents ...*MockAgent) *MockProvider {
	p := &MockProvider{agents: make(map[string]*MockAgent, len(agents))}
	for _, a := range agents {
		p.agents[a.Name()] = a
	}
	return p
}

// Agent looks up an agent by name.
func (p *MockProvider) Agent(name string) (ai.Agent, bool) {
	a, ok := p.agents[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// Agents lists registered agent names in lexical order.
func (p *MockProvider) Agents() []string {
	names := make([]string, 0, len(p.agents))
	for name := range p.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockAgent returns the underlying mock agent for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockAgent(name string) *MockAgent {
	return p.agents[name]
}
