// Package exprfilter compiles string expressions into list-notifier
// predicates using expr-lang.
package exprfilter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Compile builds a predicate from expression.
// The candidate item is bound to the variable "item"; the expression must
// evaluate to a bool. Evaluation failures reject the item.
//
//	keep, err := exprfilter.Compile[string](`len(item) > 3`)
func Compile[T any](expression string) (func(T) bool, error) {
	if expression == "" {
		return nil, fmt.Errorf("exprfilter: expression must not be empty")
	}
	program, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("exprfilter: compile %q: %w", expression, err)
	}
	return predicate[T](program), nil
}

func predicate[T any](program *vm.Program) func(T) bool {
	return func(item T) bool {
		out, err := expr.Run(program, map[string]any{"item": item})
		if err != nil {
			return false
		}
		keep, ok := out.(bool)
		return ok && keep
	}
}
