package validation

import (
	"fmt"
	"sync"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprCache keeps compiled boolean programs keyed by source.
type exprCache struct {
	mu       sync.Mutex
	programs map[string]*exprvm.Program
}

func newExprCache() *exprCache {
	return &exprCache{programs: make(map[string]*exprvm.Program)}
}

func (c *exprCache) compile(expression string) (*exprvm.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if program, ok := c.programs[expression]; ok {
		return program, nil
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	c.programs[expression] = program
	return program, nil
}

// eval runs expression with value, checked, params and form in scope.
func (c *exprCache) eval(expression, value string, field Field, params map[string]any, form map[string]string) (bool, error) {
	program, err := c.compile(expression)
	if err != nil {
		return false, err
	}
	formEnv := make(map[string]any, len(form))
	for k, v := range form {
		formEnv[k] = v
	}
	env := map[string]any{
		"value":   value,
		"checked": field.Checked,
		"params":  params,
		"form":    formEnv,
	}
	out, err := exprlang.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("run %q: %w", expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
