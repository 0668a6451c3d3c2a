package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/replacelib/internal/def"
)

// CompileReplacer parses a CUE value into a replacer definition.
//
//	replacer: VanillaWalls: replacers: [
//		{replace: "Wall_Wood", with: "Wall_WoodPlank"},
//	]
//
// Directives keep their authored order. Names are NFC-normalized.
func CompileReplacer(v cue.Value) (def.ReplacerDef, error) {
	if err := v.Err(); err != nil {
		return def.ReplacerDef{}, formatCUEError(err)
	}

	rd := def.ReplacerDef{Name: labelName(v)}

	listVal := v.LookupPath(cue.ParsePath("replacers"))
	if !listVal.Exists() {
		return rd, &CompileError{
			Field:   "replacers",
			Message: "replacers list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := listVal.List()
	if err != nil {
		return rd, formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		dir, err := compileDirective(iter.Value(), i)
		if err != nil {
			return rd, err
		}
		rd.Replacers = append(rd.Replacers, dir)
	}

	return rd, nil
}

func compileDirective(v cue.Value, idx int) (def.Directive, error) {
	var dir def.Directive
	for _, field := range []string{"replace", "with"} {
		fv := v.LookupPath(cue.ParsePath(field))
		if !fv.Exists() {
			return dir, &CompileError{
				Field:   fmt.Sprintf("replacers[%d].%s", idx, field),
				Message: field + " is required",
				Pos:     v.Pos(),
			}
		}
		s, err := fv.String()
		if err != nil {
			return dir, formatCUEError(err)
		}
		if field == "replace" {
			dir.Replace = NormalizeName(s)
		} else {
			dir.With = NormalizeName(s)
		}
	}
	return dir, nil
}

// NormalizeReplacer NFC-normalizes every directive name of rd in place. Used
// for replacer definitions authored outside CUE.
func NormalizeReplacer(rd *def.ReplacerDef) {
	for i := range rd.Replacers {
		rd.Replacers[i].Replace = NormalizeName(rd.Replacers[i].Replace)
		rd.Replacers[i].With = NormalizeName(rd.Replacers[i].With)
	}
}
