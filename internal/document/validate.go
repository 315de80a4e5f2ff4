package document

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource string

// Validation error codes (E200-E219).
const (
	// ErrCodeMalformedJSON: the raw bytes are not a JSON object.
	ErrCodeMalformedJSON = "E200"
	// ErrCodeSchema: a schema constraint was violated.
	ErrCodeSchema = "E201"
	// ErrCodeSchemaInternal: the embedded schema itself failed to compile.
	ErrCodeSchemaInternal = "E202"
)

// ValidationError reports a single schema violation.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Result is the outcome of validating a raw wire document.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks raw JSON bytes against the embedded wire-format schema.
// All violations are collected (no fail-fast); validation never mutates
// state, and callers must not load a document whose result is not Valid.
func Validate(raw []byte) Result {
	// Surface malformed JSON as a single E200 before involving CUE, so the
	// caller gets the stdlib's offset-bearing message.
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Result{Errors: []ValidationError{{
			Message: err.Error(),
			Code:    ErrCodeMalformedJSON,
		}}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Result{Errors: []ValidationError{{
			Message: fmt.Sprintf("internal schema error: %v", err),
			Code:    ErrCodeSchemaInternal,
		}}}
	}
	def := schema.LookupPath(cue.ParsePath("#Edit"))
	if err := def.Err(); err != nil {
		return Result{Errors: []ValidationError{{
			Message: fmt.Sprintf("internal schema error: %v", err),
			Code:    ErrCodeSchemaInternal,
		}}}
	}

	expr, err := cuejson.Extract("edit.json", raw)
	if err != nil {
		return Result{Errors: []ValidationError{{
			Message: err.Error(),
			Code:    ErrCodeMalformedJSON,
		}}}
	}
	val := ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return Result{Errors: []ValidationError{{
			Message: err.Error(),
			Code:    ErrCodeMalformedJSON,
		}}}
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Final(), cue.Concrete(false)); err != nil {
		return Result{Errors: collectCUEErrors(err)}
	}

	return Result{Valid: true}
}

// collectCUEErrors flattens a CUE error into path+message pairs.
func collectCUEErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, ValidationError{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrCodeSchema,
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{
			Message: err.Error(),
			Code:    ErrCodeSchema,
		})
	}
	return out
}
