package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mmrzaf/sdstats/internal/generators"
)

var (
	ErrUnknownMethod   = errors.New("unknown provider method")
	ErrAmbiguousMethod = errors.New("ambiguous provider method")
)

// ProviderRegistry maps "provider.method" keys to generators.
type ProviderRegistry struct {
	mu         sync.RWMutex
	generators map[string]generators.Generator
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		generators: make(map[string]generators.Generator),
	}
}

func (r *ProviderRegistry) Register(provider, method string, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[provider+"."+method] = gen
}

// Get looks up an exact "provider.method" key.
func (r *ProviderRegistry) Get(name string) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return gen, nil
}

// Resolve accepts a full key or a bare method name. A bare name must match
// exactly one registered method.
func (r *ProviderRegistry) Resolve(name string) (string, generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if gen, ok := r.generators[name]; ok {
		return name, gen, nil
	}
	if strings.Contains(name, ".") {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}

	var matches []string
	for key := range r.generators {
		if key[strings.LastIndex(key, ".")+1:] == name {
			matches = append(matches, key)
		}
	}
	switch len(matches) {
	case 0:
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	case 1:
		return matches[0], r.generators[matches[0]], nil
	default:
		sort.Strings(matches)
		return "", nil, fmt.Errorf("%w: %s matches %s", ErrAmbiguousMethod, name, strings.Join(matches, ", "))
	}
}

func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func DefaultProviderRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	for provider, methods := range generators.Providers() {
		for method, gen := range methods {
			r.Register(provider, method, gen)
		}
	}
	return r
}
