package catalog

import (
	"errors"
	"fmt"

	"github.com/roach88/replacelib/internal/def"
	"github.com/roach88/replacelib/internal/registry"
)

// Build registers the loaded catalog into a fresh registry and links recipe
// references. Things register before terrains, each in catalog order.
// Registration errors (duplicate names) and link errors are returned
// together; the registry is returned even when errors occur so callers can
// still report on what did load.
func (r *Result) Build(opts ...registry.Option) (*registry.Registry, error) {
	reg := registry.New(opts...)
	var errs []error

	for _, defs := range [][]*def.Definition{r.Things, r.Terrains} {
		for _, d := range defs {
			if err := reg.Register(d); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", ErrCodeRegistry, err))
			}
		}
	}
	for _, rec := range r.Recipes {
		reg.AddRecipe(rec)
	}
	for _, rd := range r.Replacers {
		reg.AddReplacerDef(rd)
	}

	if err := reg.Link(); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ErrCodeRegistry, err))
	}

	if len(errs) > 0 {
		return reg, errors.Join(errs...)
	}
	return reg, nil
}

// LoadRegistry loads dir in collect-all mode and builds a registry from it.
func LoadRegistry(dir string, opts ...registry.Option) (*registry.Registry, error) {
	result, errs := Load(dir, LoadModeCollectAll)
	if len(errs) > 0 {
		return nil, fmt.Errorf("load catalog %s: %w", dir, errors.Join(errs...))
	}
	return result.Build(opts...)
}
