package source

import (
	"fmt"

	"github.com/rios0rios0/releasewatch/domain"
)

// Registry holds the configured hosting-service sources and resolves the
// right one for a repository URL.
type Registry struct {
	sources []domain.Source
}

// NewRegistry creates a registry over the given sources. Lookup order
// follows registration order.
func NewRegistry(sources ...domain.Source) *Registry {
	return &Registry{sources: sources}
}

// Register appends a source to the registry.
func (r *Registry) Register(s domain.Source) {
	r.sources = append(r.sources, s)
}

// ForURL returns the first source whose MatchesURL accepts the given
// repository URL.
func (r *Registry) ForURL(url string) (domain.Source, error) {
	for _, s := range r.sources {
		if s.MatchesURL(url) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no source matches repository URL %q", url)
}

// Names returns the list of registered source names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	return names
}
