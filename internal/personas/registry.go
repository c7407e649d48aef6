package personas

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-quorum/internal/domain"
)

var validate = validator.New()

// Registry resolves persona IDs to full persona definitions. It starts
// from the built-in catalog and may be extended or overridden from a
// YAML file at load time. Lookups after construction are read-only, so
// a Registry is safe for concurrent use.
type Registry struct {
	byID     map[string]domain.Persona
	defaults []string
}

// NewRegistry returns a registry populated with the built-in catalog.
func NewRegistry() *Registry {
	r := &Registry{
		byID:     make(map[string]domain.Persona, len(builtin)),
		defaults: append([]string(nil), defaultOrder...),
	}
	for _, p := range builtin {
		r.byID[p.ID] = p
	}
	return r
}

// Get returns the persona with the given ID.
// Unknown IDs are a configuration error surfaced before any evaluation
// work starts.
func (r *Registry) Get(id string) (domain.Persona, error) {
	p, ok := r.byID[id]
	if !ok {
		return domain.Persona{}, fmt.Errorf("persona %q: %w", id, domain.ErrUnknownPersona)
	}
	return p, nil
}

// Resolve maps a list of persona IDs to personas, preserving order.
// An empty list resolves to the default evaluation panel.
func (r *Registry) Resolve(ids []string) ([]domain.Persona, error) {
	if len(ids) == 0 {
		ids = r.defaults
	}
	out := make([]domain.Persona, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Defaults returns the IDs of the default evaluation panel.
func (r *Registry) Defaults() []string {
	return append([]string(nil), r.defaults...)
}

// IDs returns all registered persona IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// personaSpec is the YAML shape for a persona definition or override.
type personaSpec struct {
	ID                string  `yaml:"id" validate:"required"`
	Name              string  `yaml:"name" validate:"required"`
	Description       string  `yaml:"description"`
	Guidance          string  `yaml:"guidance" validate:"required"`
	Strictness        float64 `yaml:"strictness" validate:"gte=0,lte=1"`
	ValuesOriginality float64 `yaml:"values_originality" validate:"gte=0,lte=1"`
	ValuesEvidence    float64 `yaml:"values_evidence" validate:"gte=0,lte=1"`
	Weights           struct {
		Novelty      float64 `yaml:"novelty"`
		Structure    float64 `yaml:"structure"`
		Thoroughness float64 `yaml:"thoroughness"`
		Clarity      float64 `yaml:"clarity"`
	} `yaml:"weights"`
}

type personaFile struct {
	Personas []personaSpec `yaml:"personas"`
	Defaults []string      `yaml:"defaults"`
}

// LoadFile overlays persona definitions from a YAML file onto the
// registry. Entries with IDs matching built-in personas replace them;
// new IDs extend the catalog. An explicit defaults list replaces the
// built-in default panel.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read persona file: %w", err)
	}

	var f personaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse persona file %s: %w", path, err)
	}

	for _, spec := range f.Personas {
		if err := validate.Struct(spec); err != nil {
			return fmt.Errorf("persona %q: %w", spec.ID, err)
		}
		weights, err := domain.NewDimensionWeights(
			spec.Weights.Novelty,
			spec.Weights.Structure,
			spec.Weights.Thoroughness,
			spec.Weights.Clarity,
		)
		if err != nil {
			return fmt.Errorf("persona %q: %w", spec.ID, err)
		}
		r.byID[spec.ID] = domain.Persona{
			ID:                spec.ID,
			Name:              spec.Name,
			Description:       spec.Description,
			Weights:           weights,
			Guidance:          spec.Guidance,
			Strictness:        spec.Strictness,
			ValuesOriginality: spec.ValuesOriginality,
			ValuesEvidence:    spec.ValuesEvidence,
		}
	}

	if len(f.Defaults) > 0 {
		for _, id := range f.Defaults {
			if _, ok := r.byID[id]; !ok {
				return fmt.Errorf("defaults entry %q: %w", id, domain.ErrUnknownPersona)
			}
		}
		r.defaults = append([]string(nil), f.Defaults...)
	}
	return nil
}
