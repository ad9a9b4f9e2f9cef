package provider

import (
	"fmt"
	"time"
)

// Priority defines the order of provider selection when in "auto" mode.
var Priority = []string{"openai", "anthropic"}

// Registry manages available providers and handles provider selection.
type Registry struct {
	providers map[string]Generator
	preferred string
}

// NewRegistry creates a registry with the default providers registered.
// preferred is a provider name or "auto".
func NewRegistry(preferred, model string, timeout time.Duration) *Registry {
	r := &Registry{
		providers: make(map[string]Generator),
		preferred: preferred,
	}
	r.Register(NewOpenAIProvider(model, timeout))
	r.Register(NewAnthropicProvider(model, timeout))
	return r
}

// Register adds a provider to the registry.
func (r *Registry) Register(g Generator) {
	r.providers[g.Name()] = g
}

// Get returns a specific provider by name.
func (r *Registry) Get(name string) (Generator, bool) {
	g, ok := r.providers[name]
	return g, ok
}

// GetBest returns the preferred provider if it is available. With
// "auto", providers are tried in Priority order.
func (r *Registry) GetBest() (Generator, error) {
	if r.preferred != "" && r.preferred != "auto" {
		g, ok := r.providers[r.preferred]
		if !ok {
			return nil, fmt.Errorf("unknown provider: %s", r.preferred)
		}
		if !g.Available() {
			return nil, fmt.Errorf("provider %s is not available (missing API key?)", r.preferred)
		}
		return g, nil
	}

	for _, name := range Priority {
		if g, ok := r.providers[name]; ok && g.Available() {
			return g, nil
		}
	}
	return nil, fmt.Errorf("no provider available: set OPENAI_API_KEY or ANTHROPIC_API_KEY")
}
