package paymentgateway

import (
	"sort"
	"sync"

	apperrors "github.com/dll-community/billing/internal/shared/errors"
)

// Registry holds gateways keyed by provider name. Gateways register at
// startup; an unknown name at call time is a configuration error.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]PaymentGateway
}

func NewRegistry() *Registry {
	return &Registry{
		gateways: make(map[string]PaymentGateway),
	}
}

func (r *Registry) Register(gw PaymentGateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[gw.Name()] = gw
}

func (r *Registry) Get(name string) (PaymentGateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gw, ok := r.gateways[name]
	if !ok {
		return nil, apperrors.NewUnsupportedProviderError(name)
	}
	return gw, nil
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.gateways[name]
	return ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
