package registry

import (
	"errors"
	"fmt"

	"github.com/roach88/replacelib/internal/def"
)

// LinkError reports a recipe reference that names no registered thing.
type LinkError struct {
	Recipe string
	Field  string
	Name   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("recipe %s: %s references unknown thing %q", e.Recipe, e.Field, e.Name)
}

// Link resolves recipe product and user names against the thing table and
// fills every user's recipe cache in recipe registration order. Unresolved
// names are collected and returned together; the rest of the catalog is
// still linked. Link must run once, after every definition is registered.
func (r *Registry) Link() error {
	var errs []error
	t := r.table(def.KindThing)

	for _, rec := range r.recipes {
		for i := range rec.Products {
			p := &rec.Products[i]
			d := t.byName[p.ThingName]
			if d == nil {
				errs = append(errs, &LinkError{Recipe: rec.Name, Field: "products", Name: p.ThingName})
				continue
			}
			p.Def = d
		}

		rec.Users = rec.Users[:0]
		for _, name := range rec.UserNames {
			user := t.byName[name]
			if user == nil {
				errs = append(errs, &LinkError{Recipe: rec.Name, Field: "users", Name: name})
				continue
			}
			rec.Users = append(rec.Users, user)
			user.AllRecipes = append(user.AllRecipes, rec)
		}
	}

	return errors.Join(errs...)
}
