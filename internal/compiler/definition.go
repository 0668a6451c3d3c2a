package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/replacelib/internal/def"
)

// CompileThing parses a CUE value into a thing definition.
// The definition name is the last path selector, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`thing: Wall_Wood: { category: "Building" }`)
//	d, err := CompileThing(v.LookupPath(cue.ParsePath("thing.Wall_Wood")))
//
// The role comes from an explicit role field when present, otherwise from the
// backing thingClass.
func CompileThing(v cue.Value) (*def.Definition, error) {
	d, err := compileBase(v, def.KindThing)
	if err != nil {
		return nil, err
	}

	if d.ThingClass, err = optionalString(v, "thingClass"); err != nil {
		return nil, err
	}
	d.Role = def.RoleForClass(d.ThingClass)

	roleName, err := optionalString(v, "role")
	if err != nil {
		return nil, err
	}
	if roleName != "" {
		role, ok := def.ParseRole(roleName)
		if !ok {
			return nil, &CompileError{
				Field:   "role",
				Message: fmt.Sprintf("unknown role %q", roleName),
				Pos:     v.LookupPath(cue.ParsePath("role")).Pos(),
			}
		}
		d.Role = role
	}

	categoryName, err := optionalString(v, "category")
	if err != nil {
		return nil, err
	}
	if categoryName != "" {
		category, ok := def.ParseCategory(categoryName)
		if !ok {
			return nil, &CompileError{
				Field:   "category",
				Message: fmt.Sprintf("unknown category %q", categoryName),
				Pos:     v.LookupPath(cue.ParsePath("category")).Pos(),
			}
		}
		d.Category = category
	}

	if d.ForceDebugSpawnable, err = optionalBool(v, "forceDebugSpawnable"); err != nil {
		return nil, err
	}
	if d.DestroyOnDrop, err = optionalBool(v, "destroyOnDrop"); err != nil {
		return nil, err
	}

	return d, nil
}

// CompileTerrain parses a CUE value into a terrain definition.
func CompileTerrain(v cue.Value) (*def.Definition, error) {
	return compileBase(v, def.KindTerrain)
}

func compileBase(v cue.Value, kind def.Kind) (*def.Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	name := labelName(v)
	if name == "" {
		return nil, &CompileError{
			Field:   "name",
			Message: "definition name is required",
			Pos:     v.Pos(),
		}
	}

	label, err := optionalString(v, "label")
	if err != nil {
		return nil, err
	}

	return &def.Definition{Name: name, Label: label, Kind: kind}, nil
}

// labelName returns the NFC-normalized last path selector of v.
func labelName(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	return norm.NFC.String(labels[len(labels)-1].Unquoted())
}

// NormalizeName applies the same normalization used for compiled definition
// names, so authored references compare equal to registry names.
func NormalizeName(s string) string {
	return norm.NFC.String(s)
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func optionalInt(v cue.Value, field string, fallback int64) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return fallback, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return n, nil
}

func optionalStringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, NormalizeName(s))
	}
	return out, nil
}
