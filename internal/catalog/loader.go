// Package catalog loads definition catalogs from disk and builds registries
// from them.
//
// A catalog directory holds CUE files (one package) declaring thing, terrain,
// recipe and replacer definitions, plus optional YAML directive files named
// *.replacers.yaml (or .yml) for replacer definitions authored outside CUE.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/replacelib/internal/compiler"
	"github.com/roach88/replacelib/internal/def"
)

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Result contains the compiled contents of a catalog directory.
type Result struct {
	Things    []*def.Definition
	Terrains  []*def.Definition
	Recipes   []*def.Recipe
	Replacers []def.ReplacerDef
	CUEFiles  int
	YAMLFiles int
}

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across catalog consumers.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No catalog files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeYAMLFailed  = "E007" // Directive YAML parse failed

	ErrCodeInvalidThing    = "E101" // Thing definition invalid
	ErrCodeInvalidTerrain  = "E102" // Terrain definition invalid
	ErrCodeInvalidRecipe   = "E103" // Recipe definition invalid
	ErrCodeInvalidReplacer = "E104" // Replacer definition invalid
	ErrCodeRegistry        = "E110" // Registration or linking failed
)

// section binds a top-level CUE field to its compiler.
type section struct {
	path    string
	code    string
	compile func(r *Result, v cue.Value) error
}

var sections = []section{
	{"thing", ErrCodeInvalidThing, func(r *Result, v cue.Value) error {
		d, err := compiler.CompileThing(v)
		if err == nil {
			r.Things = append(r.Things, d)
		}
		return err
	}},
	{"terrain", ErrCodeInvalidTerrain, func(r *Result, v cue.Value) error {
		d, err := compiler.CompileTerrain(v)
		if err == nil {
			r.Terrains = append(r.Terrains, d)
		}
		return err
	}},
	{"recipe", ErrCodeInvalidRecipe, func(r *Result, v cue.Value) error {
		rec, err := compiler.CompileRecipe(v)
		if err == nil {
			r.Recipes = append(r.Recipes, rec)
		}
		return err
	}},
	{"replacer", ErrCodeInvalidReplacer, func(r *Result, v cue.Value) error {
		rd, err := compiler.CompileReplacer(v)
		if err == nil {
			r.Replacers = append(r.Replacers, rd)
		}
		return err
	}},
}

// Load loads and compiles a catalog directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func Load(dir string, mode LoadMode) (*Result, []error) {
	var errs []error

	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, yamlFiles, err := FindCatalogFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no catalog files found in %s", dir)}}
	}

	result := &Result{CUEFiles: len(cueFiles), YAMLFiles: len(yamlFiles)}

	if len(cueFiles) > 0 {
		value, loadErr := buildCUE(dir)
		if loadErr != nil {
			return nil, []error{loadErr}
		}
		for _, sec := range sections {
			errs = append(errs, compileSection(result, value, sec, mode)...)
			if mode == LoadModeFailFast && len(errs) > 0 {
				return result, errs
			}
		}
	}

	for _, path := range yamlFiles {
		rds, err := LoadDirectiveFile(path)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeYAMLFailed, Message: err.Error()})
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Replacers = append(result.Replacers, rds...)
	}

	return result, errs
}

func buildCUE(dir string) (cue.Value, error) {
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, nil
}

func compileSection(result *Result, value cue.Value, sec section, mode LoadMode) []error {
	var errs []error

	secVal := value.LookupPath(cue.ParsePath(sec.path))
	if !secVal.Exists() {
		return nil
	}

	iter, err := secVal.Fields()
	if err != nil {
		return []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating %s: %v", sec.path, err)}}
	}
	for iter.Next() {
		if err := sec.compile(result, iter.Value()); err != nil {
			errs = append(errs, convertCompileError(err, sec.code, sec.path+"."+iter.Selector().String()))
			if mode == LoadModeFailFast {
				return errs
			}
		}
	}
	return errs
}

// LoadDirectiveFile reads a YAML directive file. The file may hold several
// documents, each one replacer definition:
//
//	name: VanillaWalls
//	replacers:
//	  - replace: Wall_Wood
//	    with: Wall_WoodPlank
//
// Unknown fields are rejected. A document without a name is named after the
// file.
func LoadDirectiveFile(path string) ([]def.ReplacerDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directive file: %w", err)
	}

	var out []def.ReplacerDef
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	for {
		var rd def.ReplacerDef
		err := decoder.Decode(&rd)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
		if rd.Name == "" {
			rd.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		for i, dir := range rd.Replacers {
			if dir.Replace == "" || dir.With == "" {
				return nil, fmt.Errorf("%s: replacer %s: directive %d needs both replace and with", path, rd.Name, i)
			}
		}
		compiler.NormalizeReplacer(&rd)
		out = append(out, rd)
	}
	return out, nil
}

// FindCatalogFiles walks the directory and returns .cue files and directive
// YAML files, each sorted by path.
func FindCatalogFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch {
		case filepath.Ext(path) == ".cue":
			cueFiles = append(cueFiles, path)
		case strings.HasSuffix(path, ".replacers.yaml"), strings.HasSuffix(path, ".replacers.yml"):
			yamlFiles = append(yamlFiles, path)
		}
		return nil
	})
	sort.Strings(cueFiles)
	sort.Strings(yamlFiles)
	return cueFiles, yamlFiles, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, code, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    code,
			Message: fmt.Sprintf("%s: %s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}
