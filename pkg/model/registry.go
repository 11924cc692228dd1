package model

import (
	"fmt"
	"sync"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/probability"
)

// Registry caches compiled networks by construction key so that repeated
// requests for the same (typology, options) reuse the same immutable Model
// (spec.md §4.4, §9 "registry caches compiled networks"). A Registry is safe
// for concurrent use: construction is idempotent and guarded by a mutex,
// while cached Models themselves are read-only after construction.
type Registry struct {
	models      config.ModelsConfig
	probability *probability.Store

	mu    sync.Mutex
	cache map[string]*Model
	// disabled records per-typology construction failures (spec.md §4.12:
	// single typology model construction failure disables that typology,
	// other typologies continue).
	disabled map[string]error
}

// NewRegistry constructs a registry over the loaded model and probability
// configuration. No networks are built yet; construction is lazy per
// typology (spec.md §3.4 lifecycle).
func NewRegistry(models config.ModelsConfig, probStore *probability.Store) *Registry {
	return &Registry{
		models:      models,
		probability: probStore,
		cache:       make(map[string]*Model),
		disabled:    make(map[string]error),
	}
}

func cacheKey(typology string, opts BuildOptions) string {
	return fmt.Sprintf("%s|latent=%v|grouped=%v", typology, opts.UseLatentIntent, opts.Grouped)
}

// CreateModel returns the cached Model for (typology, opts), building and
// caching it on first use. Returns E_MODEL_UNKNOWN if typology is not
// registered, or the recorded construction error if this typology previously
// failed to build.
func (r *Registry) CreateModel(typology string, opts BuildOptions) (*Model, error) {
	key := cacheKey(typology, opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err, failed := r.disabled[typology]; failed {
		return nil, err
	}
	if m, ok := r.cache[key]; ok {
		return m, nil
	}

	cfg, ok := r.models.Typologies[typology]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrModelUnknown,
			"typology %q is not registered", typology)
	}

	m, err := Build(typology, cfg, r.probability, opts)
	if err != nil {
		r.disabled[typology] = err
		return nil, err
	}
	r.cache[key] = m
	return m, nil
}

// RegisteredTypologies returns every typology name the registry knows about,
// regardless of build state.
func (r *Registry) RegisteredTypologies() []string {
	names := make([]string, 0, len(r.models.Typologies))
	for name := range r.models.Typologies {
		names = append(names, name)
	}
	return names
}

// DisabledTypologies returns the construction-failure reason for every
// typology that has failed to build, for audit-header reporting
// (spec.md §4.12).
func (r *Registry) DisabledTypologies() map[string]error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]error, len(r.disabled))
	for k, v := range r.disabled {
		out[k] = v
	}
	return out
}
