package snippets

import (
	"errors"
	"fmt"

	"github.com/metiseon/landing/internal/domain"
)

// ErrUnknownSnippet is returned when no snippet has the requested id
var ErrUnknownSnippet = errors.New("unknown snippet")

// Registry holds the site's code snippets by id, in declaration order
type Registry struct {
	byID  map[string]domain.Snippet
	order []string
}

// NewRegistry indexes snippets. Ids must be non-empty and unique.
func NewRegistry(snippets []domain.Snippet) (*Registry, error) {
	r := &Registry{byID: make(map[string]domain.Snippet, len(snippets))}
	for i, s := range snippets {
		if s.ID == "" {
			return nil, fmt.Errorf("snippet %d has no id", i)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate snippet id %q", s.ID)
		}
		r.byID[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r, nil
}

// Get returns the snippet with the given id
func (r *Registry) Get(id string) (domain.Snippet, error) {
	s, ok := r.byID[id]
	if !ok {
		return domain.Snippet{}, fmt.Errorf("%w: %s", ErrUnknownSnippet, id)
	}
	return s, nil
}

// All returns every snippet in declaration order
func (r *Registry) All() []domain.Snippet {
	out := make([]domain.Snippet, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns every snippet id in declaration order
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}
