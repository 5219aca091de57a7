// Package catalog compiles the declarative rule catalogue. The catalogue
// is written in CUE: the schema constrains names, tiers and colors at the
// source level, and the compiler turns entries into rule definitions the
// engine can snapshot.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/jmcortes/harmonia/internal/rules"
)

//go:embed rules.cue
var defaultSource string

// CompileError reports a catalogue compilation problem with its CUE
// source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default compiles the embedded catalogue.
func Default() ([]rules.Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(defaultSource, cue.Filename("rules.cue"))
	return Compile(v)
}

// LoadFile compiles a user-supplied catalogue file. The file is unified
// with the embedded schema, so entries are held to the same constraints
// as the defaults.
func LoadFile(path string) ([]rules.Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(defaultSource, cue.Filename("rules.cue")).
		LookupPath(cue.ParsePath("#Rule"))
	v := ctx.CompileString(string(src), cue.Filename(path))
	return compileWith(v, schema)
}

// Compile parses a CUE value holding a "rules" list into definitions.
func Compile(v cue.Value) ([]rules.Definition, error) {
	return compileWith(v, cue.Value{})
}

func compileWith(v, schema cue.Value) ([]rules.Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	list := v.LookupPath(cue.ParsePath("rules"))
	if !list.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "rules list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []rules.Definition
	seen := make(map[string]bool)
	for iter.Next() {
		elem := iter.Value()
		if schema.Exists() {
			elem = elem.Unify(schema)
			if err := elem.Validate(cue.Concrete(true)); err != nil {
				return nil, formatCUEError(err)
			}
		}
		def, err := compileRule(elem)
		if err != nil {
			return nil, err
		}
		if seen[def.Name] {
			return nil, &CompileError{
				Field:   "name",
				Message: fmt.Sprintf("duplicate rule %q", def.Name),
				Pos:     elem.Pos(),
			}
		}
		seen[def.Name] = true
		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return nil, &CompileError{
			Field:   "rules",
			Message: "at least one rule is required",
			Pos:     list.Pos(),
		}
	}
	return defs, nil
}

func compileRule(v cue.Value) (rules.Definition, error) {
	var def rules.Definition

	name, err := stringField(v, "name", true)
	if err != nil {
		return def, err
	}
	def.Name = name

	tierVal := v.LookupPath(cue.ParsePath("tier"))
	if !tierVal.Exists() {
		return def, &CompileError{Field: "tier", Message: "tier is required", Pos: v.Pos()}
	}
	tier, err := tierVal.Int64()
	if err != nil {
		return def, formatCUEError(err)
	}
	if tier < 1 || tier > 3 {
		return def, &CompileError{
			Field:   "tier",
			Message: fmt.Sprintf("tier must be 1-3, got %d", tier),
			Pos:     tierVal.Pos(),
		}
	}
	def.Tier = rules.Tier(tier)

	if def.Color, err = stringField(v, "color", true); err != nil {
		return def, err
	}
	if def.ShortMsg, err = stringField(v, "short_msg", true); err != nil {
		return def, err
	}
	if def.FullMsg, err = stringField(v, "full_msg", false); err != nil {
		return def, err
	}

	excVal := v.LookupPath(cue.ParsePath("exceptions"))
	if excVal.Exists() {
		excIter, err := excVal.List()
		if err != nil {
			return def, formatCUEError(err)
		}
		for excIter.Next() {
			s, err := excIter.Value().String()
			if err != nil {
				return def, formatCUEError(err)
			}
			def.Exceptions = append(def.Exceptions, rules.ExceptionKind(s))
		}
	}

	def.Enabled = true
	enabledVal := v.LookupPath(cue.ParsePath("enabled"))
	if enabledVal.Exists() {
		enabled, err := enabledVal.Bool()
		if err != nil {
			return def, formatCUEError(err)
		}
		def.Enabled = enabled
	}

	return def, nil
}

func stringField(v cue.Value, field string, required bool) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		if required {
			return "", &CompileError{
				Field:   field,
				Message: field + " is required",
				Pos:     v.Pos(),
			}
		}
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if required && s == "" {
		return "", &CompileError{
			Field:   field,
			Message: field + " must be non-empty",
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
