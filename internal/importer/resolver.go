package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"parfumerie/models"
)

// defaultFamilleName backs products whose family column is blank. The
// pipeline always links a family rather than skipping the product.
const defaultFamilleName = "Florale"

// FamilyResolver resolves olfactory family names to stored documents,
// creating missing families with default attributes. The run-scoped cache is
// guarded by a mutex so concurrent rows still create each family at most once.
type FamilyResolver struct {
	mu      sync.Mutex
	sink    Sink
	cache   map[string]uint
	created int
}

// NewFamilyResolver builds a resolver writing through the given sink.
func NewFamilyResolver(sink Sink) *FamilyResolver {
	return &FamilyResolver{
		sink:  sink,
		cache: make(map[string]uint),
	}
}

// Resolve returns the stored ID for a family display name, looking through
// the cache, then the store (exact or substring match), and finally creating
// a new family with placeholder attributes.
func (r *FamilyResolver) Resolve(ctx context.Context, nom string) (uint, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		nom = defaultFamilleName
	}

	key := CreateSlug(nom)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	famille, err := r.sink.FindFamilleByName(ctx, nom)
	if err == nil {
		r.cache[key] = famille.ID
		return famille.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	created := newDefaultFamille(nom)
	if err := r.sink.CreateFamille(ctx, created); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost a cross-run race against the store's uniqueness
			// constraint. The document exists now, so look it up again.
			famille, lookupErr := r.sink.FindFamilleByName(ctx, nom)
			if lookupErr != nil {
				return 0, fmt.Errorf("famille %q exists but lookup failed: %w", nom, lookupErr)
			}
			r.cache[key] = famille.ID
			return famille.ID, nil
		}
		return 0, err
	}

	r.created++
	r.cache[key] = created.ID
	return created.ID, nil
}

// Created reports how many families this resolver inserted during the run.
func (r *FamilyResolver) Created() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created
}

// newDefaultFamille builds the document inserted for a family name seen for
// the first time. The categorical attributes are constant defaults; only the
// name, slug, and placeholder image derive from the input.
func newDefaultFamille(nom string) *models.Famille {
	return &models.Famille{
		Nom:              nom,
		Slug:             CreateSlug(nom),
		Description:      fmt.Sprintf("La famille %s regroupe les parfums qui partagent cet accord dominant.", strings.ToLower(nom)),
		Genre:            models.GenreUniversel,
		Saison:           "toutes saisons",
		Intensite:        "moderee",
		ImagePlaceholder: DeterminePlaceholder(nom),
	}
}
