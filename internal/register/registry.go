// internal/register/registry.go
package register

import (
	"github.com/pkg/errors"
)

// Registry maps addresses to the wire type used for them.
// Read-only after construction; safe for concurrent use.
type Registry struct {
	types map[Address]WireType
}

// NewRegistry copies entries. Invalid wire types are rejected.
func NewRegistry(entries map[Address]WireType) (*Registry, error) {
	types := make(map[Address]WireType, len(entries))
	for a, t := range entries {
		if !t.Valid() {
			return nil, errors.Errorf("register: invalid wire type %s for %s", t, a)
		}
		types[a] = t
	}
	return &Registry{types: types}, nil
}

// Lookup returns the wire type registered for addr.
func (r *Registry) Lookup(addr Address) (WireType, bool) {
	t, ok := r.types[addr]
	return t, ok
}

// Request resolves addresses into typed requests.
func (r *Registry) Request(addrs ...Address) ([]Request, error) {
	out := make([]Request, 0, len(addrs))
	for _, a := range addrs {
		t, ok := r.types[a]
		if !ok {
			return nil, errors.Errorf("register: %s not in registry", a)
		}
		out = append(out, Request{Address: a, Type: t})
	}
	return out, nil
}

// Len returns the number of registered addresses.
func (r *Registry) Len() int {
	return len(r.types)
}
