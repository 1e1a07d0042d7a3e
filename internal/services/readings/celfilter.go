package readingsvc

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/vanzaam/LibreOOPWeb/internal/reading"
)

// celFilter wraps a compiled CEL program evaluated per reading during list
// inspection. When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("uuid", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("result", cel.StringType),
		cel.Variable("has_result", cel.BoolType),
		cel.Variable("created_at_ms", cel.IntType),
		cel.Variable("modified_at_ms", cel.IntType),
		// Age of the record relative to evaluation time, for windowed filters
		cel.Variable("age_ms", cel.IntType),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against a reading. When disabled,
// returns true. Evaluation errors exclude the record.
func (f celFilter) Eval(r reading.Reading, now time.Time) bool {
	if !f.enabled {
		return true
	}
	nowMs := now.UnixMilli()
	out, _, err := f.prog.Eval(map[string]any{
		"uuid":           r.UUID,
		"status":         r.Status,
		"result":         r.Result,
		"has_result":     r.Result != "",
		"created_at_ms":  r.CreatedAtMs,
		"modified_at_ms": r.ModifiedAtMs,
		"age_ms":         nowMs - r.CreatedAtMs,
		"now_ms":         nowMs,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
