// internal/register/query.go
package register

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// ErrConflictingResolution is matched by every ConflictError.
var ErrConflictingResolution = errors.New("register: conflicting resolution")

// ConflictError reports one address requested with two different wire types.
type ConflictError struct {
	Address Address
	Have    WireType
	Want    WireType
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("register: conflicting resolution for %s: %s vs %s", e.Address, e.Have, e.Want)
}

// Is makes errors.Is(err, ErrConflictingResolution) hold.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflictingResolution
}

// Query is an immutable address -> wire type mapping handed to the executor.
// The zero value is an empty query.
type Query struct {
	entries map[Address]WireType
}

// Build constructs a query from requests.
// The same address requested twice with the same type is collapsed.
func Build(reqs ...Request) (Query, error) {
	b := NewBuilder()
	b.Add(reqs...)
	return b.Build()
}

// Len returns the number of distinct registers.
func (q Query) Len() int {
	return len(q.entries)
}

// Type returns the wire type requested for addr.
func (q Query) Type(addr Address) (WireType, bool) {
	t, ok := q.entries[addr]
	return t, ok
}

// Requests returns the entries ordered by address.
func (q Query) Requests() []Request {
	out := make([]Request, 0, len(q.entries))
	for a, t := range q.entries {
		out = append(out, Request{Address: a, Type: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Union returns a new query holding the entries of both.
func (q Query) Union(other Query) (Query, error) {
	b := NewBuilder()
	b.Merge(q)
	b.Merge(other)
	return b.Build()
}

// Builder composes a query incrementally, e.g. a fixed base set plus
// a caller-selected subset. The first conflict is sticky.
type Builder struct {
	entries map[Address]WireType
	err     error
}

func NewBuilder() *Builder {
	return &Builder{entries: make(map[Address]WireType)}
}

// Add records requests. Invalid wire types and conflicts are reported by Build.
func (b *Builder) Add(reqs ...Request) *Builder {
	for _, r := range reqs {
		if b.err != nil {
			return b
		}
		if !r.Type.Valid() {
			b.err = errors.Errorf("register: invalid wire type for %s", r.Address)
			return b
		}
		if have, ok := b.entries[r.Address]; ok && have != r.Type {
			b.err = &ConflictError{Address: r.Address, Have: have, Want: r.Type}
			return b
		}
		b.entries[r.Address] = r.Type
	}
	return b
}

// Merge adds every entry of q.
func (b *Builder) Merge(q Query) *Builder {
	return b.Add(q.Requests()...)
}

// Build returns an independent snapshot of the composed query.
func (b *Builder) Build() (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}
	entries := make(map[Address]WireType, len(b.entries))
	for a, t := range b.entries {
		entries[a] = t
	}
	return Query{entries: entries}, nil
}
