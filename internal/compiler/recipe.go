package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/replacelib/internal/def"
)

// CompileRecipe parses a CUE value into a recipe. Product and user references
// stay unresolved names; the registry links them.
//
//	recipe: CookMealSimple: {
//		label: "cook simple meal"
//		products: [{thing: "MealSimple", count: 1}]
//		users: ["FueledStove", "Campfire"]
//	}
func CompileRecipe(v cue.Value) (*def.Recipe, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	name := labelName(v)
	if name == "" {
		return nil, &CompileError{Field: "name", Message: "recipe name is required", Pos: v.Pos()}
	}

	label, err := optionalString(v, "label")
	if err != nil {
		return nil, err
	}
	rec := &def.Recipe{Name: name, Label: label}

	productsVal := v.LookupPath(cue.ParsePath("products"))
	if productsVal.Exists() {
		iter, err := productsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			p, err := compileProduct(iter.Value(), i)
			if err != nil {
				return nil, err
			}
			rec.Products = append(rec.Products, p)
		}
	}

	if rec.UserNames, err = optionalStringList(v, "users"); err != nil {
		return nil, err
	}

	return rec, nil
}

func compileProduct(v cue.Value, idx int) (def.Product, error) {
	thingVal := v.LookupPath(cue.ParsePath("thing"))
	if !thingVal.Exists() {
		return def.Product{}, &CompileError{
			Field:   fmt.Sprintf("products[%d].thing", idx),
			Message: "product thing is required",
			Pos:     v.Pos(),
		}
	}
	thing, err := thingVal.String()
	if err != nil {
		return def.Product{}, formatCUEError(err)
	}

	count, err := optionalInt(v, "count", 1)
	if err != nil {
		return def.Product{}, err
	}
	if count < 1 {
		return def.Product{}, &CompileError{
			Field:   fmt.Sprintf("products[%d].count", idx),
			Message: fmt.Sprintf("count must be positive, got %d", count),
			Pos:     v.LookupPath(cue.ParsePath("count")).Pos(),
		}
	}

	return def.Product{ThingName: NormalizeName(thing), Count: int(count)}, nil
}
