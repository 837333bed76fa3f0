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


package openai

import (
	"log/slog"
	"sort"

	"github.com/poiesic/vestige/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.Provider using an OpenAI-compatible chat service.
// All agents share one client.
type Provider struct {
	config *ai.Config
	agents map[string]ai.Agent
	logger *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return newProvider(config, client), nil
}

// newProvider registers the agents around an existing model client.
func newProvider(config *ai.Config, client llms.Model) *Provider {
	p := &Provider{
		config: config,
		agents: make(map[string]ai.Agent),
		logger: slog.Default().With("component", "openai-provider"),
	}
	p.register(newWriter(client, config))
	p.register(newReviewer(client, config))
	return p
}

func (p *Provider) register(agent ai.Agent) {
	p.agents[agent.Name()] = agent
	p.logger.Debug("registered agent", "agent", agent.Name(), "model", p.config.Model)
}

// Agent looks up an agent by name.
func (p *Provider) Agent(name string) (ai.Agent, bool) {
	agent, ok := p.agents[name]
	return agent, ok
}

// Agents lists registered agent names in lexical order.
func (p *Provider) Agents() []string {
	names := make([]string, 0, len(p.agents))
	for name := range p.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
