// Package catalog resolves exercise display names into opaque library
// references. The draft engine stores only the returned id; catalog search
// and ranking live elsewhere.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository"
)

// Resolution is what the draft engine needs back: the catalog id and the
// resolved exercise type.
type Resolution struct {
	ID           string
	ResolvedType string
}

// Resolver turns an exercise name into a catalog reference, creating a new
// entry when the name is unknown.
type Resolver interface {
	Resolve(ctx context.Context, name, userTag string) (Resolution, error)
}

// resolver implements Resolver with a process-local cache in front of the
// catalog repository.
type resolver struct {
	repo repository.CatalogRepository

	mu    sync.Mutex
	cache map[string]Resolution // keyed by normalized name
}

// NewResolver creates a catalog resolver.
func NewResolver(repo repository.CatalogRepository) Resolver {
	return &resolver{
		repo:  repo,
		cache: make(map[string]Resolution),
	}
}

// Resolve returns the catalog reference for name, consulting the local cache
// first. An unknown name creates a new entry attributed to userTag.
func (r *resolver) Resolve(ctx context.Context, name, userTag string) (Resolution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resolution{}, errors.New("exercise name is required")
	}
	key := strings.ToLower(name)

	r.mu.Lock()
	if res, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return res, nil
	}
	r.mu.Unlock()

	entry, err := r.repo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		entry = &domain.CatalogEntry{Name: name, CreatedBy: userTag}
		if _, err := r.repo.Create(ctx, entry); err != nil {
			return Resolution{}, err
		}
	} else if err != nil {
		return Resolution{}, err
	}

	res := Resolution{ID: entry.ID, ResolvedType: entry.Type}
	r.mu.Lock()
	r.cache[key] = res
	r.mu.Unlock()
	return res, nil
}
