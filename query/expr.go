// Package query evaluates expr-lang expressions against decoded API models.
// Fields are addressed by their JSON names; "it" holds the whole model.
//
// Besides the expr built-ins (the contains, startsWith and endsWith
// operators, lower, upper and friends) expressions can call icontains,
// istartsWith, iendsWith, sameAddress and hasTag.
package query

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the number of compiled programs a Compiler keeps
const DefaultCacheSize = 64

// Program is a compiled expression
type Program struct {
	expression string
	predicate  bool
	program    *vm.Program
	custom     map[string]any
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the program cache size. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newProgramCache(size)
		} else {
			c.cache = nil
		}
	}
}

// WithFunctions adds custom helper functions
func WithFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.custom, funcs)
	}
}

// Compiler compiles and caches expressions
type Compiler struct {
	custom map[string]any
	cache  *programCache
}

// NewCompiler creates a compiler with a DefaultCacheSize program cache
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		custom: make(map[string]any),
		cache:  newProgramCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles a projection: any expression whose value is printed
func (c *Compiler) Compile(expression string) (*Program, error) {
	return c.compile(expression, false)
}

// CompilePredicate compiles an expression that must evaluate to a bool
func (c *Compiler) CompilePredicate(expression string) (*Program, error) {
	return c.compile(expression, true)
}

func (c *Compiler) compile(expression string, predicate bool) (*Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	key := "value:" + expression
	if predicate {
		key = "bool:" + expression
	}
	if c.cache != nil {
		if cached, ok := c.cache.get(key); ok {
			return cached, nil
		}
	}

	env := helperFunctions()
	maps.Copy(env, c.custom)
	env["hasTag"] = func(string) bool { return false }

	options := []expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
	}
	if predicate {
		options = append(options, expr.AsBool())
	}

	compiled, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	program := &Program{
		expression: expression,
		predicate:  predicate,
		program:    compiled,
		custom:     maps.Clone(c.custom),
	}
	if c.cache != nil {
		c.cache.put(key, program)
	}
	return program, nil
}

// Clear drops every cached program
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// Size returns the number of cached programs
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.len()
	}
	return 0
}

// Expression returns the source expression
func (p *Program) Expression() string {
	return p.expression
}

// IsPredicate reports whether the program was compiled to return a bool
func (p *Program) IsPredicate() bool {
	return p.predicate
}

// Evaluate runs the program against model and returns its value
func (p *Program) Evaluate(model any) (any, error) {
	if model == nil {
		return nil, &EvaluationError{Expression: p.expression, Reason: "no model", Err: ErrNoModel}
	}

	env, err := runtimeEnvironment(model, p.custom)
	if err != nil {
		return nil, &EvaluationError{Expression: p.expression, Reason: "invalid model", Err: err}
	}

	result, err := expr.Run(p.program, env)
	if err != nil {
		return nil, &EvaluationError{Expression: p.expression, Reason: err.Error(), Err: err}
	}
	return result, nil
}

// Match runs a predicate against model. A projection matches when its value is true.
func (p *Program) Match(model any) (bool, error) {
	result, err := p.Evaluate(model)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{Expression: p.expression, Reason: "expression did not evaluate to a bool"}
	}
	return matched, nil
}
