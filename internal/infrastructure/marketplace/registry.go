// Package marketplace wires concrete marketplace adapters behind the
// platform registry port.
package marketplace

import (
	"fmt"

	"github.com/listflow/backend/internal/domain/listing"
)

// Registry selects a marketplace adapter by its code
type Registry struct {
	platforms map[listing.Marketplace]listing.MarketplacePlatform
	order     []listing.Marketplace
}

// NewRegistry creates a registry over the given platform adapters
func NewRegistry(platforms ...listing.MarketplacePlatform) *Registry {
	r := &Registry{
		platforms: make(map[listing.Marketplace]listing.MarketplacePlatform, len(platforms)),
	}
	for _, p := range platforms {
		code := p.Code()
		if _, exists := r.platforms[code]; exists {
			continue
		}
		r.platforms[code] = p
		r.order = append(r.order, code)
	}
	return r
}

// Platform returns the adapter for the given marketplace
func (r *Registry) Platform(code listing.Marketplace) (listing.MarketplacePlatform, error) {
	p, ok := r.platforms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", listing.ErrPlatformNotFound, code)
	}
	return p, nil
}

// List returns all registered adapters in registration order
func (r *Registry) List() []listing.MarketplacePlatform {
	out := make([]listing.MarketplacePlatform, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.platforms[code])
	}
	return out
}

var _ listing.PlatformRegistry = (*Registry)(nil)
